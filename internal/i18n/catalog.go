package i18n

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// Source fetches the raw JSON of one translation bundle.
type Source interface {
	Load(ctx context.Context, lang Language, ns Namespace) ([]byte, error)
}

type bundleKey struct {
	lang Language
	ns   Namespace
}

// Catalog loads bundles lazily and keeps them for its own lifetime.
// Failed loads are not cached, so a later call retries the source.
type Catalog struct {
	source Source
	log    zerolog.Logger

	mu    sync.RWMutex
	cache map[bundleKey]Bundle
}

func NewCatalog(source Source, log zerolog.Logger) *Catalog {
	return &Catalog{
		source: source,
		log:    log,
		cache:  make(map[bundleKey]Bundle),
	}
}

// Load returns the bundle for (lang, ns). It never fails: any error is logged
// and an empty bundle is returned.
func (c *Catalog) Load(ctx context.Context, lang Language, ns Namespace) Bundle {
	key := bundleKey{lang: lang, ns: ns}

	c.mu.RLock()
	bundle, ok := c.cache[key]
	c.mu.RUnlock()
	if ok {
		return bundle
	}

	bundle, err := c.fetch(ctx, lang, ns)
	if err != nil {
		c.log.Warn().
			Err(err).
			Str("language", string(lang)).
			Str("namespace", string(ns)).
			Msg("load translations failed")
		return Bundle{}
	}

	c.mu.Lock()
	c.cache[key] = bundle
	c.mu.Unlock()

	return bundle
}

func (c *Catalog) fetch(ctx context.Context, lang Language, ns Namespace) (Bundle, error) {
	if c.source == nil {
		return nil, fmt.Errorf("no translation source configured")
	}
	raw, err := c.source.Load(ctx, lang, ns)
	if err != nil {
		return nil, err
	}
	var bundle Bundle
	if err := json.Unmarshal(raw, &bundle); err != nil {
		return nil, fmt.Errorf("decode bundle %s/%s: %w", lang, ns, err)
	}
	if bundle == nil {
		bundle = Bundle{}
	}
	return bundle, nil
}

func (c *Catalog) Translate(ctx context.Context, lang Language, key Key) Result {
	return Resolve(c.Load(ctx, lang, key.Namespace), key.Path)
}

// Lookup resolves a key path that is only known at runtime.
func (c *Catalog) Lookup(ctx context.Context, lang Language, ns Namespace, path string) Result {
	return Resolve(c.Load(ctx, lang, ns), path)
}

// Reset drops every cached bundle.
func (c *Catalog) Reset() {
	c.mu.Lock()
	c.cache = make(map[bundleKey]Bundle)
	c.mu.Unlock()
}

// Localizer binds a catalog to one language.
type Localizer struct {
	catalog *Catalog
	lang    Language
}

func (c *Catalog) Localizer(lang Language) Localizer {
	return Localizer{catalog: c, lang: lang}
}

func (l Localizer) Language() Language { return l.lang }

func (l Localizer) T(ctx context.Context, key Key) string {
	return l.catalog.Translate(ctx, l.lang, key).String()
}

func (l Localizer) Tf(ctx context.Context, key Key, args ...any) string {
	return l.catalog.Translate(ctx, l.lang, key).Format(args...)
}
