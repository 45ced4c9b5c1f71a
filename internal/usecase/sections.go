package usecase

import (
	"context"

	"resume-builder/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DocumentStore is the database behind the sections API. Update, Delete and
// Move ignore unknown ids; the technologies operations return the updated
// document or domain.ErrSectionNotFound.
type DocumentStore interface {
	All(ctx context.Context) ([]domain.Section, error)
	Insert(ctx context.Context, s domain.Section) (domain.Section, error)
	Get(ctx context.Context, id string) (domain.Section, error)
	Update(ctx context.Context, id string, patch domain.SectionPatch) error
	Delete(ctx context.Context, id string) error
	Move(ctx context.Context, id string, dir domain.Direction) error
	SetTechnologies(ctx context.Context, id string, techs []string) (domain.Section, error)
	AddTechnology(ctx context.Context, id, tech string) (domain.Section, error)
	RemoveTechnology(ctx context.Context, id, tech string) (domain.Section, error)
}

// SectionService serves the sections API on top of a DocumentStore.
type SectionService struct {
	store DocumentStore
	log   *zap.Logger
}

func NewSectionService(store DocumentStore, log *zap.Logger) *SectionService {
	if log == nil {
		log = zap.NewNop()
	}
	return &SectionService{store: store, log: log.Named("sections")}
}

func (s *SectionService) List(ctx context.Context) ([]domain.Section, error) {
	return s.store.All(ctx)
}

// Create assigns a fresh id and fills in what the client left out: an
// unknown type becomes custom and a missing title gets the default one.
func (s *SectionService) Create(ctx context.Context, in domain.Section) (domain.Section, error) {
	if !in.Type.Valid() {
		in.Type = domain.SectionCustom
	}
	in.ID = uuid.NewString()
	if in.Title == "" {
		existing, err := s.store.All(ctx)
		if err != nil {
			return domain.Section{}, err
		}
		in.Title = domain.DefaultTitle(in.Type, domain.HasType(existing, domain.SectionProjects))
	}
	created, err := s.store.Insert(ctx, in.Normalize())
	if err != nil {
		return domain.Section{}, err
	}
	s.log.Debug("section created", zap.String("id", created.ID), zap.String("type", string(created.Type)))
	return created, nil
}

func (s *SectionService) Get(ctx context.Context, id string) (domain.Section, error) {
	return s.store.Get(ctx, id)
}

func (s *SectionService) Update(ctx context.Context, id string, patch domain.SectionPatch) error {
	if patch.Empty() {
		return nil
	}
	return s.store.Update(ctx, id, patch)
}

func (s *SectionService) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

func (s *SectionService) Move(ctx context.Context, id string, dir domain.Direction) error {
	return s.store.Move(ctx, id, dir)
}

func (s *SectionService) SetTechnologies(ctx context.Context, id string, techs []string) (domain.Section, error) {
	if techs == nil {
		techs = []string{}
	}
	return s.store.SetTechnologies(ctx, id, techs)
}

func (s *SectionService) AddTechnology(ctx context.Context, id, tech string) (domain.Section, error) {
	return s.store.AddTechnology(ctx, id, tech)
}

func (s *SectionService) RemoveTechnology(ctx context.Context, id, tech string) (domain.Section, error) {
	return s.store.RemoveTechnology(ctx, id, tech)
}
