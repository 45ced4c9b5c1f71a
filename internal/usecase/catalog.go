package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"resume-builder/internal/domain"
	"resume-builder/internal/infrastructure/kv"
	"resume-builder/internal/model"

	"go.uber.org/zap"
)

// CustomTechnologiesKey is the storage key for user-added catalog entries.
const CustomTechnologiesKey = "customTechnologies"

const deviconBase = "https://cdn.jsdelivr.net/gh/devicons/devicon/icons/"

// builtinTechnologies is the fixed part of the catalog, in display order.
var builtinTechnologies = []domain.TechnologyItem{
	{Name: "Angular", Icon: deviconBase + "angularjs/angularjs-original.svg"},
	{Name: "React", Icon: deviconBase + "react/react-original.svg"},
	{Name: "Vue", Icon: deviconBase + "vuejs/vuejs-original.svg"},
	{Name: "TypeScript", Icon: deviconBase + "typescript/typescript-original.svg"},
	{Name: "JavaScript", Icon: deviconBase + "javascript/javascript-original.svg"},
	{Name: "HTML", Icon: deviconBase + "html5/html5-original.svg"},
	{Name: "CSS", Icon: deviconBase + "css3/css3-original.svg"},
	{Name: "SCSS", Icon: deviconBase + "sass/sass-original.svg"},
	{Name: "RxJS", Icon: deviconBase + "rxjs/rxjs-original.svg"},
	{Name: "NgRx", Icon: deviconBase + "ngrx/ngrx-original.svg"},
	{Name: "Node.js", Icon: deviconBase + "nodejs/nodejs-original.svg"},
	{Name: "Express", Icon: deviconBase + "express/express-original.svg"},
	{Name: "Go", Icon: deviconBase + "go/go-original.svg"},
	{Name: "Python", Icon: deviconBase + "python/python-original.svg"},
	{Name: "Java", Icon: deviconBase + "java/java-original.svg"},
	{Name: "PostgreSQL", Icon: deviconBase + "postgresql/postgresql-original.svg"},
	{Name: "MongoDB", Icon: deviconBase + "mongodb/mongodb-original.svg"},
	{Name: "Redis", Icon: deviconBase + "redis/redis-original.svg"},
	{Name: "Docker", Icon: deviconBase + "docker/docker-original.svg"},
	{Name: "Kubernetes", Icon: deviconBase + "kubernetes/kubernetes-original.svg"},
	{Name: "Git", Icon: deviconBase + "git/git-original.svg"},
	{Name: "Figma", Icon: deviconBase + "figma/figma-original.svg"},
	{Name: "Jest", Icon: deviconBase + "jest/jest-plain.svg"},
	{Name: "Webpack", Icon: deviconBase + "webpack/webpack-original.svg"},
}

// Catalog is the list of known technologies: built-in entries followed by
// user-added ones.
type Catalog struct {
	mu      sync.RWMutex
	custom  []domain.TechnologyItem
	storage kv.Storage
	log     *zap.Logger

	subMu  sync.Mutex
	subs   map[int]func([]domain.TechnologyItem)
	nextID int
}

func NewCatalog(ctx context.Context, storage kv.Storage, log *zap.Logger) *Catalog {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Catalog{storage: storage, log: log.Named("catalog"), subs: map[int]func([]domain.TechnologyItem){}}
	c.custom = c.load(ctx)
	return c
}

func (c *Catalog) load(ctx context.Context) []domain.TechnologyItem {
	if c.storage == nil {
		return nil
	}
	raw, err := c.storage.Get(ctx, CustomTechnologiesKey)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			c.log.Warn("could not read custom technologies", zap.Error(err))
		}
		return nil
	}
	var items []domain.TechnologyItem
	if err := model.ValidateCatalog(raw); err != nil {
		c.log.Warn("discarding malformed custom technologies", zap.Error(err))
		return nil
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		c.log.Warn("discarding malformed custom technologies", zap.Error(err))
		return nil
	}
	return items
}

// List returns built-in entries followed by custom ones.
func (c *Catalog) List() []domain.TechnologyItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.TechnologyItem, 0, len(builtinTechnologies)+len(c.custom))
	out = append(out, builtinTechnologies...)
	return append(out, c.custom...)
}

// Custom returns only the user-added entries.
func (c *Catalog) Custom() []domain.TechnologyItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]domain.TechnologyItem(nil), c.custom...)
}

func (c *Catalog) Names() []string {
	items := c.List()
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Name
	}
	return out
}

// Icon resolves the icon for name. Unknown names and entries without an
// icon report false.
func (c *Catalog) Icon(name string) (string, bool) {
	for _, it := range c.List() {
		if it.Name == name {
			return it.Icon, it.Icon != ""
		}
	}
	return "", false
}

// AddCustom appends item unless an entry with the same name exists. It
// reports whether the catalog changed.
func (c *Catalog) AddCustom(ctx context.Context, item domain.TechnologyItem) bool {
	if item.Name == "" {
		return false
	}
	c.mu.Lock()
	for _, it := range builtinTechnologies {
		if it.Name == item.Name {
			c.mu.Unlock()
			return false
		}
	}
	for _, it := range c.custom {
		if it.Name == item.Name {
			c.mu.Unlock()
			return false
		}
	}
	c.custom = append(c.custom, item)
	custom := append([]domain.TechnologyItem(nil), c.custom...)
	c.persist(ctx, custom)
	c.mu.Unlock()

	c.publish()
	return true
}

// Subscribe registers fn to receive the full list after every change. The
// returned func removes the subscription.
func (c *Catalog) Subscribe(fn func([]domain.TechnologyItem)) func() {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	id := c.nextID
	c.nextID++
	c.subs[id] = fn
	return func() {
		c.subMu.Lock()
		defer c.subMu.Unlock()
		delete(c.subs, id)
	}
}

func (c *Catalog) persist(ctx context.Context, custom []domain.TechnologyItem) {
	if c.storage == nil {
		return
	}
	b, err := json.Marshal(custom)
	if err != nil {
		c.log.Warn("could not encode custom technologies", zap.Error(err))
		return
	}
	if err := c.storage.Set(ctx, CustomTechnologiesKey, b); err != nil {
		c.log.Warn("could not persist custom technologies", zap.String("key", CustomTechnologiesKey), zap.Error(err))
	}
}

func (c *Catalog) publish() {
	c.subMu.Lock()
	fns := make([]func([]domain.TechnologyItem), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.subMu.Unlock()
	list := c.List()
	for _, fn := range fns {
		fn(append([]domain.TechnologyItem(nil), list...))
	}
}
