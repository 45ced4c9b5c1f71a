package usecase

import (
	"context"
	"fmt"

	"resume-builder/internal/domain"

	"go.uber.org/zap"
)

// Builder drives the section list of a résumé through any
// SectionRepository, local or remote.
type Builder struct {
	repo domain.SectionRepository
	log  *zap.Logger
}

func NewBuilder(repo domain.SectionRepository, log *zap.Logger) *Builder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Builder{repo: repo, log: log.Named("builder")}
}

// EnsureHero adds a hero section when the document has none.
func (b *Builder) EnsureHero(ctx context.Context) error {
	list, err := b.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("list sections: %w", err)
	}
	if domain.HasType(list, domain.SectionHero) {
		return nil
	}
	if _, err := b.repo.Add(ctx, domain.SectionHero); err != nil {
		return fmt.Errorf("add hero section: %w", err)
	}
	b.log.Info("added missing hero section")
	return nil
}

func (b *Builder) Sections(ctx context.Context) ([]domain.Section, error) {
	return b.repo.List(ctx)
}

func (b *Builder) AddSection(ctx context.Context, t domain.SectionType) (domain.Section, error) {
	return b.repo.Add(ctx, t)
}

func (b *Builder) MoveSection(ctx context.Context, id string, dir domain.Direction) error {
	return b.repo.Move(ctx, id, dir)
}

func (b *Builder) DeleteSection(ctx context.Context, id string) error {
	return b.repo.Remove(ctx, id)
}
