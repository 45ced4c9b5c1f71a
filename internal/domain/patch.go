package domain

// SectionPatch is a shallow merge patch: nil fields are left untouched and
// non-nil slices replace the section's slice wholesale.
type SectionPatch struct {
	Title          *string     `json:"title,omitempty"`
	Content        *string     `json:"content,omitempty"`
	AvatarURL      *string     `json:"avatarUrl,omitempty"`
	CompanyLogoURL *string     `json:"companyLogoUrl,omitempty"`
	Position       *string     `json:"position,omitempty"`
	Projects       *[]Project  `json:"projects,omitempty"`
	Languages      *[]Language `json:"languages,omitempty"`
	Technologies   *[]string   `json:"technologies,omitempty"`
}

// Apply returns s with the patch merged in. s is not modified.
func (p SectionPatch) Apply(s Section) Section {
	out := s.Clone()
	if p.Title != nil {
		out.Title = *p.Title
	}
	if p.Content != nil {
		out.Content = *p.Content
	}
	if p.AvatarURL != nil {
		out.AvatarURL = *p.AvatarURL
	}
	if p.CompanyLogoURL != nil {
		out.CompanyLogoURL = *p.CompanyLogoURL
	}
	if p.Position != nil {
		out.Position = *p.Position
	}
	if p.Projects != nil {
		out.Projects = Section{Projects: *p.Projects}.Clone().Projects
		if out.Projects == nil {
			out.Projects = []Project{}
		}
	}
	if p.Languages != nil {
		out.Languages = append([]Language{}, *p.Languages...)
	}
	if p.Technologies != nil {
		out.Technologies = append([]string{}, *p.Technologies...)
	}
	return out
}

// Empty reports whether the patch names no field.
func (p SectionPatch) Empty() bool {
	return p.Title == nil && p.Content == nil && p.AvatarURL == nil &&
		p.CompanyLogoURL == nil && p.Position == nil && p.Projects == nil &&
		p.Languages == nil && p.Technologies == nil
}

func TitlePatch(v string) SectionPatch          { return SectionPatch{Title: &v} }
func ContentPatch(v string) SectionPatch        { return SectionPatch{Content: &v} }
func PositionPatch(v string) SectionPatch       { return SectionPatch{Position: &v} }
func AvatarPatch(v string) SectionPatch         { return SectionPatch{AvatarURL: &v} }
func CompanyLogoPatch(v string) SectionPatch    { return SectionPatch{CompanyLogoURL: &v} }
func ProjectsPatch(v []Project) SectionPatch    { return SectionPatch{Projects: &v} }
func LanguagesPatch(v []Language) SectionPatch  { return SectionPatch{Languages: &v} }
func TechnologiesPatch(v []string) SectionPatch { return SectionPatch{Technologies: &v} }
