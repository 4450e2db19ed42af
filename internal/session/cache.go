// Package session owns the authorized backend handle shared by all operations.
//
// The handle is built lazily on first use and rebuilt only when the
// credential reference or application label changes. Concurrent builds for
// the same key collapse into one. Callers receive immutable Session
// snapshots, so a rebuild never disturbs an operation already in flight.
package session

import (
	"context"
	"sync"

	"sheets_bridge/internal/app"
	"sheets_bridge/internal/sheets"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// Session is a read-only snapshot of the backend and the identity it serves
type Session struct {
	Backend         sheets.Backend
	SpreadsheetID   string
	CredentialRef   string
	ApplicationName string
}

// Options configures a Cache. Zero fields fall back to the Google defaults.
type Options struct {
	Authorizer Authorizer
	Loader     Loader
	Factory    BackendFactory
	Scopes     []string
}

type built struct {
	key     string
	backend sheets.Backend
}

// Cache memoizes one backend per (credential reference, application label)
type Cache struct {
	authorizer Authorizer
	load       Loader
	factory    BackendFactory
	scopes     []string

	group   singleflight.Group
	mu      sync.RWMutex
	current *built
	// latest is the most recently requested key; only its build is memoized
	latest  string
	builds  int
}

// NewCache creates an empty cache
func NewCache(opts Options) *Cache {
	c := &Cache{
		authorizer: opts.Authorizer,
		load:       opts.Loader,
		factory:    opts.Factory,
		scopes:     opts.Scopes,
	}
	if c.authorizer == nil {
		c.authorizer = GoogleAuthorizer{}
	}
	if c.load == nil {
		c.load = FileLoader
	}
	if c.factory == nil {
		c.factory = GoogleBackend(nil)
	}
	if len(c.scopes) == 0 {
		c.scopes = []string{ScopeSpreadsheets}
	}
	return c
}

// Static returns a cache that always hands out backend without authorizing.
// Used for the in-memory backend and in tests.
func Static(backend sheets.Backend) *Cache {
	c := NewCache(Options{})
	c.current = &built{backend: backend}
	return c
}

func cacheKey(credentialRef, applicationName string) string {
	return credentialRef + "\x00" + applicationName
}

func (c *Cache) lookup(key string) (sheets.Backend, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.current == nil {
		return nil, false
	}
	// a static cache matches every key
	if c.current.key != key && c.current.key != "" {
		return nil, false
	}
	return c.current.backend, true
}

// Get returns a session for the given identity, building the backend if the
// credential reference or application label changed since the last build.
func (c *Cache) Get(ctx context.Context, credentialRef, spreadsheetID, applicationName string) (*Session, error) {
	key := cacheKey(credentialRef, applicationName)

	backend, ok := c.lookup(key)
	if !ok {
		c.mu.Lock()
		c.latest = key
		c.mu.Unlock()

		v, err, shared := c.group.Do(key, func() (interface{}, error) {
			if b, ok := c.lookup(key); ok {
				return b, nil
			}
			return c.build(ctx, key, credentialRef, applicationName)
		})
		if err != nil {
			return nil, err
		}
		if shared {
			log.Debug().Str("credentials", credentialRef).Msg("Joined in-flight session build")
		}
		backend = v.(sheets.Backend)
	}

	return &Session{
		Backend:         backend,
		SpreadsheetID:   spreadsheetID,
		CredentialRef:   credentialRef,
		ApplicationName: applicationName,
	}, nil
}

func (c *Cache) build(ctx context.Context, key, credentialRef, applicationName string) (sheets.Backend, error) {
	// the backend outlives the request that triggered the build
	ctx = context.WithoutCancel(ctx)

	log.Debug().
		Str("credentials", credentialRef).
		Str("application", applicationName).
		Msg("Building spreadsheet session")

	if credentialRef == "" {
		return nil, app.NewError(app.KindAuthorizationFailed, "no credentials configured")
	}

	material, err := c.load(credentialRef)
	if err != nil {
		return nil, app.WrapError(app.KindAuthorizationFailed, err)
	}

	creds, err := c.authorizer.Authorize(ctx, material, c.scopes...)
	if err != nil {
		return nil, app.WrapError(app.KindAuthorizationFailed, err)
	}

	backend, err := c.factory(ctx, creds, applicationName)
	if err != nil {
		return nil, app.WrapError(app.KindTransportInitFailed, err)
	}

	c.mu.Lock()
	c.builds++
	stale := c.latest != key
	if !stale {
		c.current = &built{key: key, backend: backend}
	}
	c.mu.Unlock()

	if stale {
		log.Debug().
			Str("credentials", credentialRef).
			Str("application", applicationName).
			Msg("Superseded session build not memoized")
		return backend, nil
	}

	log.Info().
		Str("credentials", credentialRef).
		Str("application", applicationName).
		Msg("Spreadsheet session ready")

	return backend, nil
}

// Invalidate drops the memoized backend so the next Get rebuilds it.
// Sessions already handed out stay usable.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current != nil && c.current.key == "" {
		return
	}
	c.current = nil
}

// Builds reports how many backends have been constructed
func (c *Cache) Builds() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.builds
}
