package model

import "resume-builder/internal/domain"

// Document is the print layout of a résumé: the hero block first, then the
// remaining sections in list order, with technology sections in the sidebar.
type Document struct {
	Hero         *domain.Section
	Sections     []SectionView
	Technologies []TechnologySectionView
}

type SectionView struct {
	domain.Section
	Projects []ProjectView
	Contacts []ContactLine
}

type ProjectView struct {
	domain.Project
	Technologies []Technology
}

type TechnologySectionView struct {
	ID           string
	Title        string
	Technologies []Technology
}

// Technology is a name with its resolved icon; Icon is empty when the
// catalog has none.
type Technology struct {
	Name string
	Icon string
}

// ContactLine is one line of a contacts section. Label is a short domain
// label when the line is a link.
type ContactLine struct {
	Text  string
	URL   string
	Label string
}
