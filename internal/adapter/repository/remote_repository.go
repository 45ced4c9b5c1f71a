package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"resume-builder/internal/domain"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

var _ domain.SectionRepository = (*RemoteRepository)(nil)

// RemoteRepository edits sections held by a sections API server.
type RemoteRepository struct {
	baseURL string
	timeout time.Duration
	log     *zap.Logger
}

func NewRemoteRepository(baseURL string, timeout time.Duration, log *zap.Logger) *RemoteRepository {
	if log == nil {
		log = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &RemoteRepository{baseURL: baseURL, timeout: timeout, log: log.Named("remote")}
}

func (r *RemoteRepository) sectionURL(id string, rest ...string) string {
	u := r.baseURL + "/sections/" + url.PathEscape(id)
	for _, p := range rest {
		u += "/" + p
	}
	return u
}

// do sends a and decodes a JSON response into out when out is non-nil.
func (r *RemoteRepository) do(ctx context.Context, a *fiber.Agent, out any) error {
	timeout := r.timeout
	if dl, ok := ctx.Deadline(); ok {
		if left := time.Until(dl); left < timeout {
			timeout = left
		}
	}
	if err := ctx.Err(); err != nil {
		fiber.ReleaseAgent(a)
		return err
	}
	code, body, errs := a.Timeout(timeout).Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("remote request: %w", errors.Join(errs...))
	}
	if code < 200 || code >= 300 {
		var e struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &e) != nil || e.Error == "" {
			return fmt.Errorf("remote request: unexpected status %d", code)
		}
		return fmt.Errorf("remote request: %d %s", code, e.Error)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode remote response: %w", err)
	}
	return nil
}

func (r *RemoteRepository) List(ctx context.Context) ([]domain.Section, error) {
	var out []domain.Section
	if err := r.do(ctx, fiber.Get(r.baseURL+"/sections"), &out); err != nil {
		return nil, err
	}
	for i := range out {
		out[i] = out[i].Normalize()
	}
	return out, nil
}

// Add creates the section locally first so the server receives the same
// defaults the local store would have used; the server assigns the id.
func (r *RemoteRepository) Add(ctx context.Context, t domain.SectionType) (domain.Section, error) {
	if !t.Valid() {
		t = domain.SectionCustom
	}
	existing, err := r.List(ctx)
	if err != nil {
		return domain.Section{}, err
	}
	s := domain.NewSection("", t, domain.HasType(existing, domain.SectionProjects))

	var created domain.Section
	if err := r.do(ctx, fiber.Post(r.baseURL+"/sections").JSON(s), &created); err != nil {
		return domain.Section{}, err
	}
	r.log.Debug("section added", zap.String("id", created.ID), zap.String("type", string(t)))
	return created.Normalize(), nil
}

func (r *RemoteRepository) Update(ctx context.Context, id string, patch domain.SectionPatch) error {
	return r.do(ctx, fiber.Put(r.sectionURL(id)).JSON(patch), nil)
}

func (r *RemoteRepository) Remove(ctx context.Context, id string) error {
	return r.do(ctx, fiber.Delete(r.sectionURL(id)), nil)
}

func (r *RemoteRepository) Move(ctx context.Context, id string, dir domain.Direction) error {
	if _, err := domain.ParseDirection(string(dir)); err != nil {
		return err
	}
	body := map[string]string{"direction": string(dir)}
	return r.do(ctx, fiber.Post(r.sectionURL(id, "move")).JSON(body), nil)
}
