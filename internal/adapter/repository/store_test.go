package repository

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"resume-builder/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func seed(t *testing.T, m *MemoryStore, ids ...string) {
	t.Helper()
	for _, id := range ids {
		_, err := m.Insert(context.Background(), domain.NewSection(id, domain.SectionTechnologies, false))
		require.NoError(t, err)
	}
}

func ids(list []domain.Section) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		out = append(out, s.ID)
	}
	return out
}

func TestMemoryStoreOrderAndMove(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	seed(t, m, "a", "b", "c")

	require.NoError(t, m.Move(ctx, "c", domain.Up))
	require.NoError(t, m.Move(ctx, "a", domain.Up))
	require.NoError(t, m.Move(ctx, "missing", domain.Down))
	all, err := m.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c", "b"}, ids(all))

	require.NoError(t, m.Delete(ctx, "c"))
	require.NoError(t, m.Delete(ctx, "missing"))
	all, _ = m.All(ctx)
	assert.Equal(t, []string{"a", "b"}, ids(all))
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	seed(t, m, "a")

	s, err := m.Get(ctx, "a")
	require.NoError(t, err)
	s.Technologies = append(s.Technologies, "Go")
	s.Title = "changed"

	again, _ := m.Get(ctx, "a")
	assert.Empty(t, again.Technologies)
	assert.Equal(t, "Tools/Technologies:", again.Title)

	_, err = m.Get(ctx, "missing")
	assert.True(t, errors.Is(err, domain.ErrSectionNotFound))
}

func TestMemoryStoreTechnologies(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	seed(t, m, "a")

	s, err := m.SetTechnologies(ctx, "a", []string{"Go", "Docker", "Go"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "Docker", "Go"}, s.Technologies)

	s, err = m.AddTechnology(ctx, "a", "Docker")
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "Docker", "Go"}, s.Technologies)

	s, err = m.RemoveTechnology(ctx, "a", "Go")
	require.NoError(t, err)
	assert.Equal(t, []string{"Docker"}, s.Technologies)

	s, err = m.AddTechnology(ctx, "a", "Redis")
	require.NoError(t, err)
	assert.Equal(t, []string{"Docker", "Redis"}, s.Technologies)

	_, err = m.AddTechnology(ctx, "missing", "Go")
	assert.ErrorIs(t, err, domain.ErrSectionNotFound)
}

func TestMemoryStoreUpdate(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	seed(t, m, "a")

	require.NoError(t, m.Update(ctx, "a", domain.ContentPatch("hello")))
	require.NoError(t, m.Update(ctx, "missing", domain.ContentPatch("x")))
	s, _ := m.Get(ctx, "a")
	assert.Equal(t, "hello", s.Content)
	assert.Equal(t, "Tools/Technologies:", s.Title)
}

type rowFunc func(dest ...interface{}) error

func (f rowFunc) Scan(dest ...interface{}) error { return f(dest...) }

func TestPostgresEncodeKeepsTechnologiesOutOfDocument(t *testing.T) {
	s := domain.NewSection("a", domain.SectionTechnologies, false)
	s.Technologies = []string{"Go"}

	doc, techs, err := encode(s)
	require.NoError(t, err)
	assert.Equal(t, []string{"Go"}, techs)

	var stored map[string]any
	require.NoError(t, json.Unmarshal(doc, &stored))
	assert.Nil(t, stored["technologies"])
	assert.Equal(t, "a", stored["id"])

	got, err := scanSection(rowFunc(func(dest ...interface{}) error {
		*dest[0].(*[]byte) = doc
		*dest[1].(*[]string) = techs
		return nil
	}))
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestPostgresScanNormalizesMissingTechnologies(t *testing.T) {
	got, err := scanSection(rowFunc(func(dest ...interface{}) error {
		*dest[0].(*[]byte) = []byte(`{"id":"a","type":"technologies","title":"T","content":""}`)
		return nil
	}))
	require.NoError(t, err)
	assert.NotNil(t, got.Technologies)
	assert.Empty(t, got.Technologies)
}

func TestPostgresScanRejectsBadDocument(t *testing.T) {
	_, err := scanSection(rowFunc(func(dest ...interface{}) error {
		*dest[0].(*[]byte) = []byte(`not json`)
		return nil
	}))
	assert.Error(t, err)
}

func TestMongoPatchDocumentSetsOnlyGivenFields(t *testing.T) {
	assert.Equal(t, bson.M{"title": "T"}, patchDocument(domain.TitlePatch("T")))
	assert.Empty(t, patchDocument(domain.SectionPatch{}))

	var none []string
	set := patchDocument(domain.SectionPatch{Technologies: &none, Position: strPtr("CTO")})
	assert.Equal(t, bson.M{"technologies": []string{}, "position": "CTO"}, set)
}

func strPtr(s string) *string { return &s }
