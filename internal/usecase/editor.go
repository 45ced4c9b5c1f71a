package usecase

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"resume-builder/internal/domain"
)

// Editor performs field-level edits on one section at a time. Every edit
// becomes a shallow patch; nested lists are rebuilt and replaced whole.
type Editor struct {
	repo    domain.SectionRepository
	catalog *Catalog
}

func NewEditor(repo domain.SectionRepository, catalog *Catalog) *Editor {
	return &Editor{repo: repo, catalog: catalog}
}

func (e *Editor) section(ctx context.Context, id string) (domain.Section, bool, error) {
	list, err := e.repo.List(ctx)
	if err != nil {
		return domain.Section{}, false, err
	}
	s, ok := domain.FindSection(list, id)
	return s, ok, nil
}

func (e *Editor) SetTitle(ctx context.Context, id, title string) error {
	return e.repo.Update(ctx, id, domain.TitlePatch(title))
}

func (e *Editor) SetContent(ctx context.Context, id, content string) error {
	return e.repo.Update(ctx, id, domain.ContentPatch(content))
}

func (e *Editor) SetPosition(ctx context.Context, id, position string) error {
	return e.repo.Update(ctx, id, domain.PositionPatch(position))
}

// SetAvatar stores the image as a data URI. An empty mimeType is sniffed
// from the bytes.
func (e *Editor) SetAvatar(ctx context.Context, id, mimeType string, data []byte) error {
	return e.repo.Update(ctx, id, domain.AvatarPatch(DataURI(mimeType, data)))
}

func (e *Editor) SetAvatarURL(ctx context.Context, id, url string) error {
	return e.repo.Update(ctx, id, domain.AvatarPatch(url))
}

func (e *Editor) SetCompanyLogo(ctx context.Context, id, mimeType string, data []byte) error {
	return e.repo.Update(ctx, id, domain.CompanyLogoPatch(DataURI(mimeType, data)))
}

func (e *Editor) SetCompanyLogoURL(ctx context.Context, id, url string) error {
	return e.repo.Update(ctx, id, domain.CompanyLogoPatch(url))
}

// DataURI encodes data as a base64 data URI.
func DataURI(mimeType string, data []byte) string {
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
		if i := strings.IndexByte(mimeType, ';'); i >= 0 {
			mimeType = mimeType[:i]
		}
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// editProjects loads the project list of id, lets fn rewrite a copy and
// stores the result. fn returning false leaves the section untouched.
func (e *Editor) editProjects(ctx context.Context, id string, fn func([]domain.Project) ([]domain.Project, bool)) error {
	s, ok, err := e.section(ctx, id)
	if err != nil || !ok {
		return err
	}
	projects := s.Clone().Projects
	if projects == nil {
		projects = []domain.Project{}
	}
	next, changed := fn(projects)
	if !changed {
		return nil
	}
	return e.repo.Update(ctx, id, domain.ProjectsPatch(next))
}

func (e *Editor) AddProject(ctx context.Context, id string) error {
	return e.editProjects(ctx, id, func(p []domain.Project) ([]domain.Project, bool) {
		return append(p, domain.Project{Technologies: []string{}, Tasks: []string{}}), true
	})
}

func (e *Editor) UpdateProject(ctx context.Context, id string, index int, project domain.Project) error {
	return e.editProjects(ctx, id, func(p []domain.Project) ([]domain.Project, bool) {
		if index < 0 || index >= len(p) {
			return p, false
		}
		project = project.Clone()
		if project.Technologies == nil {
			project.Technologies = []string{}
		}
		p[index] = project
		return p, true
	})
}

func (e *Editor) RemoveProject(ctx context.Context, id string, index int) error {
	return e.editProjects(ctx, id, func(p []domain.Project) ([]domain.Project, bool) {
		if index < 0 || index >= len(p) {
			return p, false
		}
		return append(p[:index], p[index+1:]...), true
	})
}

// ToggleProjectTechnology adds tech to the project when checked and removes
// it otherwise.
func (e *Editor) ToggleProjectTechnology(ctx context.Context, id string, index int, tech string, checked bool) error {
	return e.editProjects(ctx, id, func(p []domain.Project) ([]domain.Project, bool) {
		if index < 0 || index >= len(p) {
			return p, false
		}
		next, changed := toggle(p[index].Technologies, tech, checked)
		p[index].Technologies = next
		return p, changed
	})
}

// AddProjectCustomTechnology adds a free-text technology to the project and
// registers it in the catalog.
func (e *Editor) AddProjectCustomTechnology(ctx context.Context, id string, index int, tech string) error {
	tech = strings.TrimSpace(tech)
	if tech == "" {
		return nil
	}
	if e.catalog != nil {
		e.catalog.AddCustom(ctx, domain.TechnologyItem{Name: tech})
	}
	return e.ToggleProjectTechnology(ctx, id, index, tech, true)
}

func (e *Editor) AddProjectTask(ctx context.Context, id string, index int) error {
	return e.editProjects(ctx, id, func(p []domain.Project) ([]domain.Project, bool) {
		if index < 0 || index >= len(p) {
			return p, false
		}
		p[index].Tasks = append(p[index].Tasks, "")
		return p, true
	})
}

func (e *Editor) SetProjectTask(ctx context.Context, id string, index, task int, text string) error {
	return e.editProjects(ctx, id, func(p []domain.Project) ([]domain.Project, bool) {
		if index < 0 || index >= len(p) || task < 0 || task >= len(p[index].Tasks) {
			return p, false
		}
		p[index].Tasks[task] = text
		return p, true
	})
}

func (e *Editor) RemoveProjectTask(ctx context.Context, id string, index, task int) error {
	return e.editProjects(ctx, id, func(p []domain.Project) ([]domain.Project, bool) {
		if index < 0 || index >= len(p) || task < 0 || task >= len(p[index].Tasks) {
			return p, false
		}
		tasks := p[index].Tasks
		p[index].Tasks = append(tasks[:task], tasks[task+1:]...)
		return p, true
	})
}

func (e *Editor) editLanguages(ctx context.Context, id string, fn func([]domain.Language) ([]domain.Language, bool)) error {
	s, ok, err := e.section(ctx, id)
	if err != nil || !ok {
		return err
	}
	langs := append([]domain.Language{}, s.Languages...)
	next, changed := fn(langs)
	if !changed {
		return nil
	}
	return e.repo.Update(ctx, id, domain.LanguagesPatch(next))
}

func (e *Editor) AddLanguage(ctx context.Context, id, name string, level domain.LanguageLevel) error {
	if !level.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrUnknownLanguageLevel, level)
	}
	return e.editLanguages(ctx, id, func(l []domain.Language) ([]domain.Language, bool) {
		return append(l, domain.Language{Name: name, Level: level.Canonical()}), true
	})
}

func (e *Editor) UpdateLanguage(ctx context.Context, id string, index int, lang domain.Language) error {
	if !lang.Level.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrUnknownLanguageLevel, lang.Level)
	}
	return e.editLanguages(ctx, id, func(l []domain.Language) ([]domain.Language, bool) {
		if index < 0 || index >= len(l) {
			return l, false
		}
		lang.Level = lang.Level.Canonical()
		l[index] = lang
		return l, true
	})
}

func (e *Editor) RemoveLanguage(ctx context.Context, id string, index int) error {
	return e.editLanguages(ctx, id, func(l []domain.Language) ([]domain.Language, bool) {
		if index < 0 || index >= len(l) {
			return l, false
		}
		return append(l[:index], l[index+1:]...), true
	})
}

// ToggleTechnology checks or unchecks tech on a technologies section.
func (e *Editor) ToggleTechnology(ctx context.Context, id, tech string, checked bool) error {
	s, ok, err := e.section(ctx, id)
	if err != nil || !ok {
		return err
	}
	next, changed := toggle(append([]string{}, s.Technologies...), tech, checked)
	if !changed {
		return nil
	}
	return e.repo.Update(ctx, id, domain.TechnologiesPatch(next))
}

// AddCustomTechnology registers item in the catalog and checks it on the
// section.
func (e *Editor) AddCustomTechnology(ctx context.Context, id string, item domain.TechnologyItem) error {
	item.Name = strings.TrimSpace(item.Name)
	if item.Name == "" {
		return nil
	}
	if e.catalog != nil {
		e.catalog.AddCustom(ctx, item)
	}
	return e.ToggleTechnology(ctx, id, item.Name, true)
}

func toggle(list []string, v string, on bool) ([]string, bool) {
	idx := -1
	for i, s := range list {
		if s == v {
			idx = i
			break
		}
	}
	switch {
	case on && idx < 0:
		return append(list, v), true
	case !on && idx >= 0:
		out := make([]string, 0, len(list)-1)
		for _, s := range list {
			if s != v {
				out = append(out, s)
			}
		}
		return out, true
	}
	if list == nil {
		list = []string{}
	}
	return list, false
}
