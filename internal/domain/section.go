package domain

import (
	"errors"
	"fmt"
)

var (
	ErrSectionNotFound      = errors.New("section not found")
	ErrInvalidDirection     = errors.New("invalid direction")
	ErrUnknownSectionType   = errors.New("unknown section type")
	ErrUnknownLanguageLevel = errors.New("unknown language level")
)

// SectionType fixes which optional fields of a Section are meaningful.
type SectionType string

const (
	SectionHero         SectionType = "hero"
	SectionSummary      SectionType = "summary"
	SectionEducation    SectionType = "education"
	SectionSkills       SectionType = "skills"
	SectionProjects     SectionType = "projects"
	SectionContacts     SectionType = "contacts"
	SectionCustom       SectionType = "custom"
	SectionLanguage     SectionType = "language"
	SectionTechnologies SectionType = "technologies"
)

var sectionTypes = []SectionType{
	SectionHero, SectionSummary, SectionEducation, SectionSkills, SectionProjects,
	SectionContacts, SectionCustom, SectionLanguage, SectionTechnologies,
}

// SectionTypes lists every known section type in menu order.
func SectionTypes() []SectionType {
	out := make([]SectionType, len(sectionTypes))
	copy(out, sectionTypes)
	return out
}

func (t SectionType) Valid() bool {
	for _, st := range sectionTypes {
		if st == t {
			return true
		}
	}
	return false
}

// ParseSectionType accepts the wire name of a section type.
func ParseSectionType(s string) (SectionType, error) {
	t := SectionType(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownSectionType, s)
	}
	return t, nil
}

type LanguageLevel string

const (
	LevelBeginner     LanguageLevel = "beginner"
	LevelIntermediate LanguageLevel = "intermediate"
	LevelAdvanced     LanguageLevel = "advanced"
	LevelNative       LanguageLevel = "native"

	// LevelFluent is accepted on input and stored as LevelNative.
	LevelFluent LanguageLevel = "fluent"
)

func (l LanguageLevel) Valid() bool {
	switch l.Canonical() {
	case LevelBeginner, LevelIntermediate, LevelAdvanced, LevelNative:
		return true
	}
	return false
}

// Canonical maps aliases onto the stored level.
func (l LanguageLevel) Canonical() LanguageLevel {
	if l == LevelFluent {
		return LevelNative
	}
	return l
}

type Period struct {
	Start string `json:"start" bson:"start"`
	End   string `json:"end" bson:"end"`
}

// Project is an experience entry owned by a projects section.
type Project struct {
	ProjectName  string   `json:"projectName" bson:"projectName"`
	Role         string   `json:"role" bson:"role"`
	Period       Period   `json:"period" bson:"period"`
	Description  string   `json:"description" bson:"description"`
	Technologies []string `json:"technologies" bson:"technologies"`
	Tasks        []string `json:"tasks" bson:"tasks"`
}

type Language struct {
	Name  string        `json:"name" bson:"name"`
	Level LanguageLevel `json:"level" bson:"level"`
}

// Section is one editable block of the résumé document.
type Section struct {
	ID             string      `json:"id" bson:"_id"`
	Type           SectionType `json:"type" bson:"type"`
	Title          string      `json:"title" bson:"title"`
	Content        string      `json:"content" bson:"content"`
	AvatarURL      string      `json:"avatarUrl,omitempty" bson:"avatarUrl,omitempty"`
	CompanyLogoURL string      `json:"companyLogoUrl,omitempty" bson:"companyLogoUrl,omitempty"`
	Position       string      `json:"position,omitempty" bson:"position,omitempty"`
	Projects       []Project   `json:"projects" bson:"projects,omitempty"`
	Languages      []Language  `json:"languages" bson:"languages,omitempty"`
	Technologies   []string    `json:"technologies" bson:"technologies,omitempty"`
}

// Clone returns a copy that shares no slices with s.
func (s Section) Clone() Section {
	out := s
	if s.Projects != nil {
		out.Projects = make([]Project, len(s.Projects))
		for i, p := range s.Projects {
			out.Projects[i] = p.Clone()
		}
	}
	if s.Languages != nil {
		out.Languages = append([]Language{}, s.Languages...)
	}
	if s.Technologies != nil {
		out.Technologies = append([]string{}, s.Technologies...)
	}
	return out
}

func (p Project) Clone() Project {
	out := p
	if p.Technologies != nil {
		out.Technologies = append([]string{}, p.Technologies...)
	}
	if p.Tasks != nil {
		out.Tasks = append([]string{}, p.Tasks...)
	}
	return out
}

// CloneSections deep-copies an ordered list.
func CloneSections(in []Section) []Section {
	if in == nil {
		return nil
	}
	out := make([]Section, len(in))
	for i, s := range in {
		out[i] = s.Clone()
	}
	return out
}

// NewSection builds a section of type t with its default title and empty
// sub-collections. hasProjects reports whether the document already holds a
// projects section; only the first one is titled "Experience:".
func NewSection(id string, t SectionType, hasProjects bool) Section {
	s := Section{ID: id, Type: t, Title: DefaultTitle(t, hasProjects)}
	switch t {
	case SectionProjects:
		s.Projects = []Project{}
	case SectionLanguage:
		s.Languages = []Language{}
	case SectionTechnologies:
		s.Technologies = []string{}
	}
	return s
}

func DefaultTitle(t SectionType, hasProjects bool) string {
	switch t {
	case SectionHero:
		return "Type BIO"
	case SectionSummary:
		return "About me:"
	case SectionEducation:
		return "Education:"
	case SectionSkills:
		return "Skills:"
	case SectionProjects:
		if hasProjects {
			return ""
		}
		return "Experience:"
	case SectionContacts:
		return "Contacts:"
	case SectionLanguage:
		return "Languages:"
	case SectionTechnologies:
		return "Tools/Technologies:"
	default:
		return "Custom section"
	}
}

// HasType reports whether any section in list is of type t.
func HasType(list []Section, t SectionType) bool {
	for _, s := range list {
		if s.Type == t {
			return true
		}
	}
	return false
}

// IndexOf returns the position of id in list, or -1.
func IndexOf(list []Section, id string) int {
	for i, s := range list {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// Normalize initialises the sub-collection that t requires when a stored
// record lacks it.
func (s Section) Normalize() Section {
	switch s.Type {
	case SectionProjects:
		if s.Projects == nil {
			s.Projects = []Project{}
		}
	case SectionLanguage:
		if s.Languages == nil {
			s.Languages = []Language{}
		}
	case SectionTechnologies:
		if s.Technologies == nil {
			s.Technologies = []string{}
		}
	}
	return s
}
