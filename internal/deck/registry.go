package deck

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mohammad-safakhou/deckhand/internal/host"
)

// mintAttempts bounds how often Adopt retries after a ledger collision.
const mintAttempts = 3

// Ledger records every handle ever minted.
type Ledger interface {
	Reserve(ctx context.Context, handle string) (bool, error)
	Retire(ctx context.Context, handle string) error
}

// Entry is a registered document.
type Entry struct {
	Handle string
	Pres   host.Presentation
}

// Registry maps opaque handles to live documents. The host owns the
// documents; an entry whose document was closed behind our back stays
// registered and fails with a host fault on use.
type Registry struct {
	conn   host.Connector
	ledger Ledger
	log    *zap.Logger
	mint   func() string

	// OnChange, when set, receives the number of open entries after every
	// registration or removal.
	OnChange func(open int)

	mu      sync.RWMutex
	entries map[string]host.Presentation
	order   []string
}

// RegistryOption customizes a Registry.
type RegistryOption func(*Registry)

// WithLogger sets the registry logger.
func WithLogger(l *zap.Logger) RegistryOption {
	return func(r *Registry) { r.log = l }
}

// WithMint replaces uuid.NewString as the handle source.
func WithMint(f func() string) RegistryOption {
	return func(r *Registry) { r.mint = f }
}

func NewRegistry(conn host.Connector, ledger Ledger, opts ...RegistryOption) *Registry {
	r := &Registry{
		conn:    conn,
		ledger:  ledger,
		log:     zap.NewNop(),
		mint:    uuid.NewString,
		entries: make(map[string]host.Presentation),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// App returns the host application, attaching or starting it as needed.
func (r *Registry) App() (host.App, error) {
	app, err := r.conn.Instance()
	if err != nil {
		return nil, hostFault(err)
	}
	return app, nil
}

// Open opens the file at path. A missing file fails before the host is
// asked.
func (r *Registry) Open(ctx context.Context, path string) (string, host.Presentation, error) {
	if path == "" {
		return "", nil, errorf(KindInvalidFormat, "path is required")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", nil, errorf(KindInvalidFormat, "invalid path %q: %v", path, err)
	}
	if _, err := os.Stat(abs); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil, errorf(KindNotFound, "file not found: %s", abs)
		}
		return "", nil, &Error{Kind: KindNotFound, Msg: fmt.Sprintf("cannot access %s", abs), Err: err}
	}
	app, err := r.App()
	if err != nil {
		return "", nil, err
	}
	p, err := app.Open(abs)
	if err != nil {
		return "", nil, hostFault(err)
	}
	h, err := r.Adopt(ctx, p)
	return h, p, err
}

// Create starts a new, empty document.
func (r *Registry) Create(ctx context.Context) (string, host.Presentation, error) {
	app, err := r.App()
	if err != nil {
		return "", nil, err
	}
	p, err := app.Create()
	if err != nil {
		return "", nil, hostFault(err)
	}
	h, err := r.Adopt(ctx, p)
	return h, p, err
}

// Resolve returns the document registered under handle.
func (r *Registry) Resolve(handle string) (host.Presentation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.entries[handle]
	if !ok {
		return nil, errorf(KindUnknownHandle, "presentation not found: %s", handle)
	}
	return p, nil
}

// Close closes the document, saving it first when commit is set. The entry
// is removed only once the host has closed the document.
func (r *Registry) Close(ctx context.Context, handle string, commit bool) error {
	p, err := r.Resolve(handle)
	if err != nil {
		return err
	}
	if commit {
		if err := p.Save(); err != nil {
			return hostFault(err)
		}
	}
	if err := p.Close(); err != nil {
		return hostFault(err)
	}

	r.mu.Lock()
	delete(r.entries, handle)
	r.order = remove(r.order, handle)
	open := len(r.entries)
	r.mu.Unlock()

	if err := r.ledger.Retire(ctx, handle); err != nil {
		r.log.Warn("retire handle", zap.String("handle", handle), zap.Error(err))
	}
	r.log.Info("presentation closed", zap.String("handle", handle), zap.Bool("saved", commit))
	r.changed(open)
	return nil
}

// Adopt returns the handle of p, registering it on first sight. Lookup is
// by host identity, so different wrappers of one document share a handle.
func (r *Registry) Adopt(ctx context.Context, p host.Presentation) (string, error) {
	if h, ok := r.lookup(p); ok {
		return h, nil
	}
	var h string
	for attempt := 0; ; attempt++ {
		if attempt == mintAttempts {
			return "", errorf(KindHostFault, "could not mint a unique handle after %d attempts", mintAttempts)
		}
		h = r.mint()
		ok, err := r.ledger.Reserve(ctx, h)
		if err != nil {
			return "", &Error{Kind: KindHostFault, Msg: "handle ledger unavailable", Err: err}
		}
		if ok {
			break
		}
		r.log.Warn("handle collision", zap.String("handle", h))
	}

	r.mu.Lock()
	r.entries[h] = p
	r.order = append(r.order, h)
	open := len(r.entries)
	r.mu.Unlock()

	name, _ := p.FullName()
	r.log.Info("presentation registered", zap.String("handle", h), zap.String("name", name))
	r.changed(open)
	return h, nil
}

func (r *Registry) lookup(p host.Presentation) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, h := range r.order {
		if host.SameObject(r.entries[h], p) {
			return h, true
		}
	}
	return "", false
}

// Active adopts the host's active document.
func (r *Registry) Active(ctx context.Context) (string, host.Presentation, error) {
	app, err := r.App()
	if err != nil {
		return "", nil, err
	}
	p, err := app.ActivePresentation()
	if err != nil {
		return "", nil, hostFault(err)
	}
	h, err := r.Adopt(ctx, p)
	return h, p, err
}

// List adopts every document open in the host and returns them in host
// order.
func (r *Registry) List(ctx context.Context) ([]Entry, error) {
	app, err := r.App()
	if err != nil {
		return nil, err
	}
	docs, err := app.Presentations()
	if err != nil {
		return nil, hostFault(err)
	}
	out := make([]Entry, 0, len(docs))
	for _, p := range docs {
		h, err := r.Adopt(ctx, p)
		if err != nil {
			return nil, err
		}
		out = append(out, Entry{Handle: h, Pres: p})
	}
	return out, nil
}

// Len is the number of registered documents.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

func (r *Registry) changed(open int) {
	if r.OnChange != nil {
		r.OnChange(open)
	}
}

func remove(list []string, s string) []string {
	for i, x := range list {
		if x == s {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}
