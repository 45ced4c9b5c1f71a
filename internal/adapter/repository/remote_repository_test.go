package repository_test

import (
	"context"
	"net"
	"testing"
	"time"

	httpadapter "resume-builder/internal/adapter/http"
	"resume-builder/internal/adapter/repository"
	"resume-builder/internal/domain"
	"resume-builder/internal/usecase"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startServer(t *testing.T) string {
	t.Helper()
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	httpadapter.NewHandler(usecase.NewSectionService(repository.NewMemoryStore(), nil), nil).Register(app)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.Shutdown() })
	return "http://" + ln.Addr().String()
}

func TestRemoteRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewRemoteRepository(startServer(t), 5*time.Second, nil)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	hero, err := repo.Add(ctx, domain.SectionHero)
	require.NoError(t, err)
	assert.NotEmpty(t, hero.ID)
	assert.Equal(t, "Type BIO", hero.Title)

	first, err := repo.Add(ctx, domain.SectionProjects)
	require.NoError(t, err)
	assert.Equal(t, "Experience:", first.Title)
	second, err := repo.Add(ctx, domain.SectionProjects)
	require.NoError(t, err)
	assert.Equal(t, "", second.Title)

	require.NoError(t, repo.Update(ctx, hero.ID, domain.ContentPatch("Backend engineer")))
	require.NoError(t, repo.Move(ctx, second.ID, domain.Up))
	require.NoError(t, repo.Remove(ctx, first.ID))

	list, err = repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, hero.ID, list[0].ID)
	assert.Equal(t, "Backend engineer", list[0].Content)
	assert.Equal(t, second.ID, list[1].ID)
	assert.NotNil(t, list[1].Projects)
}

func TestRemoteRepositoryUnknownIDsAreNoOps(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewRemoteRepository(startServer(t), 5*time.Second, nil)

	assert.NoError(t, repo.Update(ctx, "missing", domain.TitlePatch("x")))
	assert.NoError(t, repo.Remove(ctx, "missing"))
	assert.NoError(t, repo.Move(ctx, "missing", domain.Down))
	assert.ErrorIs(t, repo.Move(ctx, "missing", domain.Direction("left")), domain.ErrInvalidDirection)
}

func TestRemoteRepositoryUnreachable(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	repo := repository.NewRemoteRepository("http://"+addr, time.Second, nil)
	_, err = repo.List(context.Background())
	assert.Error(t, err)
}

func TestRemoteRepositoryCanceledContext(t *testing.T) {
	repo := repository.NewRemoteRepository(startServer(t), time.Second, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := repo.List(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
