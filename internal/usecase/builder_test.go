package usecase

import (
	"context"
	"testing"

	"resume-builder/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderEnsureHero(t *testing.T) {
	ctx := context.Background()
	store := NewStore(ctx, nil, nil, sequentialIDs())
	b := NewBuilder(store, nil)

	require.NoError(t, b.EnsureHero(ctx))
	require.NoError(t, b.EnsureHero(ctx))

	list, err := b.Sections(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, domain.SectionHero, list[0].Type)
}

func TestBuilderEnsureHeroKeepsExisting(t *testing.T) {
	ctx := context.Background()
	store := NewStore(ctx, nil, nil, sequentialIDs())
	_, _ = store.Add(ctx, domain.SectionSummary)
	_, _ = store.Add(ctx, domain.SectionHero)
	b := NewBuilder(store, nil)

	require.NoError(t, b.EnsureHero(ctx))
	assert.Len(t, store.Sections(), 2)
}

func TestBuilderDelegates(t *testing.T) {
	ctx := context.Background()
	store := NewStore(ctx, nil, nil, sequentialIDs())
	b := NewBuilder(store, nil)

	_, _ = b.AddSection(ctx, domain.SectionSummary)
	_, _ = b.AddSection(ctx, domain.SectionSkills)
	require.NoError(t, b.MoveSection(ctx, "s2", domain.Up))
	assert.Equal(t, []string{"s2", "s1"}, sectionIDs(store.Sections()))

	require.NoError(t, b.DeleteSection(ctx, "s2"))
	assert.Equal(t, []string{"s1"}, sectionIDs(store.Sections()))
}
