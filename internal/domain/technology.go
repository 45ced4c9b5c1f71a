package domain

// TechnologyItem is a catalog entry; Icon is empty for entries without one.
type TechnologyItem struct {
	Name string `json:"name"`
	Icon string `json:"icon,omitempty"`
}
