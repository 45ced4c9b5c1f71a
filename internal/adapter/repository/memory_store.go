package repository

import (
	"context"
	"sync"

	"resume-builder/internal/domain"
	"resume-builder/internal/usecase"
)

var _ usecase.DocumentStore = (*MemoryStore)(nil)

// MemoryStore is an in-process document store; list order is insertion
// order adjusted by moves.
type MemoryStore struct {
	mu       sync.Mutex
	sections []domain.Section
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) All(_ context.Context) ([]domain.Section, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := domain.CloneSections(m.sections)
	if out == nil {
		out = []domain.Section{}
	}
	return out, nil
}

func (m *MemoryStore) Insert(_ context.Context, s domain.Section) (domain.Section, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sections = append(m.sections, s.Clone())
	return s.Clone(), nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (domain.Section, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := domain.FindSection(m.sections, id)
	if !ok {
		return domain.Section{}, domain.ErrSectionNotFound
	}
	return s.Clone(), nil
}

func (m *MemoryStore) Update(_ context.Context, id string, patch domain.SectionPatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := domain.IndexOf(m.sections, id); i >= 0 {
		m.sections[i] = patch.Apply(m.sections[i])
	}
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := domain.IndexOf(m.sections, id); i >= 0 {
		m.sections = append(m.sections[:i], m.sections[i+1:]...)
	}
	return nil
}

func (m *MemoryStore) Move(_ context.Context, id string, dir domain.Direction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sections, _ = domain.SwapAdjacent(m.sections, id, dir)
	return nil
}

func (m *MemoryStore) editTechnologies(id string, fn func([]string) []string) (domain.Section, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := domain.IndexOf(m.sections, id)
	if i < 0 {
		return domain.Section{}, domain.ErrSectionNotFound
	}
	m.sections[i].Technologies = fn(append([]string{}, m.sections[i].Technologies...))
	return m.sections[i].Clone(), nil
}

func (m *MemoryStore) SetTechnologies(_ context.Context, id string, techs []string) (domain.Section, error) {
	return m.editTechnologies(id, func([]string) []string { return append([]string{}, techs...) })
}

func (m *MemoryStore) AddTechnology(_ context.Context, id, tech string) (domain.Section, error) {
	return m.editTechnologies(id, func(list []string) []string { return addToSet(list, tech) })
}

func (m *MemoryStore) RemoveTechnology(_ context.Context, id, tech string) (domain.Section, error) {
	return m.editTechnologies(id, func(list []string) []string { return pull(list, tech) })
}

func addToSet(list []string, v string) []string {
	for _, s := range list {
		if s == v {
			return list
		}
	}
	return append(list, v)
}

// pull removes every occurrence of v.
func pull(list []string, v string) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		if s != v {
			out = append(out, s)
		}
	}
	return out
}
