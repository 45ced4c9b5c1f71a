package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"resume-builder/internal/domain"
	"resume-builder/internal/infrastructure/kv"
	"resume-builder/internal/model"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DocumentKey is the storage key holding the whole editable document.
const DocumentKey = "cv_builder_v2"

// Store is the in-memory ordered section list. Every mutation republishes
// the list to subscribers and rewrites it to storage.
type Store struct {
	mu       sync.Mutex
	sections []domain.Section
	storage  kv.Storage
	log      *zap.Logger
	newID    func() string

	subMu  sync.Mutex
	subs   map[int]func([]domain.Section)
	nextID int
}

var _ domain.SectionRepository = (*Store)(nil)

type StoreOption func(*Store)

// WithIDGenerator replaces uuid.NewString for section ids.
func WithIDGenerator(fn func() string) StoreOption {
	return func(s *Store) { s.newID = fn }
}

// NewStore rehydrates the document from storage. Missing or malformed data
// starts an empty document.
func NewStore(ctx context.Context, storage kv.Storage, log *zap.Logger, opts ...StoreOption) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Store{
		storage: storage,
		log:     log.Named("store"),
		newID:   uuid.NewString,
		subs:    map[int]func([]domain.Section){},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.sections = s.load(ctx)
	return s
}

func (s *Store) load(ctx context.Context) []domain.Section {
	out := []domain.Section{}
	if s.storage == nil {
		return out
	}
	raw, err := s.storage.Get(ctx, DocumentKey)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			s.log.Warn("could not read stored document", zap.String("key", DocumentKey), zap.Error(err))
		}
		return out
	}
	if err := model.ValidateDocument(raw); err != nil {
		s.log.Warn("discarding malformed stored document", zap.String("key", DocumentKey), zap.Error(err))
		return out
	}
	var list []domain.Section
	if err := json.Unmarshal(raw, &list); err != nil {
		s.log.Warn("discarding malformed stored document", zap.String("key", DocumentKey), zap.Error(err))
		return out
	}
	for i := range list {
		list[i] = list[i].Normalize()
	}
	return list
}

// Sections returns a copy of the current ordered list.
func (s *Store) Sections() []domain.Section {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.CloneSections(s.sections)
}

func (s *Store) List(_ context.Context) ([]domain.Section, error) {
	return s.Sections(), nil
}

func (s *Store) Get(id string) (domain.Section, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sec, ok := domain.FindSection(s.sections, id)
	if !ok {
		return domain.Section{}, false
	}
	return sec.Clone(), true
}

// Add appends a new section of type t with its default title.
func (s *Store) Add(ctx context.Context, t domain.SectionType) (domain.Section, error) {
	if !t.Valid() {
		t = domain.SectionCustom
	}
	var created domain.Section
	s.mutate(ctx, func(list []domain.Section) ([]domain.Section, bool) {
		created = domain.NewSection(s.newID(), t, domain.HasType(list, domain.SectionProjects))
		out := make([]domain.Section, len(list), len(list)+1)
		copy(out, list)
		return append(out, created), true
	})
	return created.Clone(), nil
}

// Update merges patch into the section with id. Unknown ids are ignored.
func (s *Store) Update(ctx context.Context, id string, patch domain.SectionPatch) error {
	s.mutate(ctx, func(list []domain.Section) ([]domain.Section, bool) {
		i := domain.IndexOf(list, id)
		if i < 0 {
			return list, false
		}
		out := make([]domain.Section, len(list))
		copy(out, list)
		out[i] = patch.Apply(list[i])
		return out, true
	})
	return nil
}

func (s *Store) Remove(ctx context.Context, id string) error {
	s.mutate(ctx, func(list []domain.Section) ([]domain.Section, bool) {
		i := domain.IndexOf(list, id)
		if i < 0 {
			return list, false
		}
		out := make([]domain.Section, 0, len(list)-1)
		out = append(out, list[:i]...)
		return append(out, list[i+1:]...), true
	})
	return nil
}

func (s *Store) Move(ctx context.Context, id string, dir domain.Direction) error {
	if dir != domain.Up && dir != domain.Down {
		return domain.ErrInvalidDirection
	}
	s.mutate(ctx, func(list []domain.Section) ([]domain.Section, bool) {
		return domain.SwapAdjacent(list, id, dir)
	})
	return nil
}

// Subscribe registers fn to receive a snapshot after every change. The
// returned func removes the subscription. Snapshots are delivered after the
// lock is released, so their order matches the order of changes only for a
// single writer.
func (s *Store) Subscribe(fn func([]domain.Section)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

// mutate applies fn under the lock; when it reports a change the new list is
// persisted and published.
func (s *Store) mutate(ctx context.Context, fn func([]domain.Section) ([]domain.Section, bool)) {
	s.mu.Lock()
	next, changed := fn(s.sections)
	if !changed {
		s.mu.Unlock()
		return
	}
	s.sections = next
	snapshot := domain.CloneSections(next)
	s.persist(ctx, snapshot)
	s.mu.Unlock()

	s.publish(snapshot)
}

func (s *Store) persist(ctx context.Context, list []domain.Section) {
	if s.storage == nil {
		return
	}
	b, err := json.Marshal(list)
	if err != nil {
		s.log.Warn("could not encode document", zap.Error(err))
		return
	}
	if err := s.storage.Set(ctx, DocumentKey, b); err != nil {
		s.log.Warn("could not persist document", zap.String("key", DocumentKey), zap.Error(err))
	}
}

func (s *Store) publish(snapshot []domain.Section) {
	s.subMu.Lock()
	fns := make([]func([]domain.Section), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(domain.CloneSections(snapshot))
	}
}
