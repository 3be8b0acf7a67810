package deck

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mohammad-safakhou/deckhand/internal/host"
	"github.com/mohammad-safakhou/deckhand/internal/host/memhost"
	"github.com/mohammad-safakhou/deckhand/internal/ledger"
)

type fixture struct {
	app    *memhost.App
	pres   *memhost.Presentation
	ledger *ledger.Memory
	reg    *Registry
	svc    *Service
	handle string
}

// newFixture opens a document with one titled slide per title.
func newFixture(t *testing.T, titles ...string) *fixture {
	t.Helper()
	app := memhost.New()
	p := app.AddPresentation(filepath.Join(t.TempDir(), "deck.pptx"))
	for _, title := range titles {
		p.AddSlide("", memhost.Placeholder("Title 1", host.PlaceholderTitle, title))
	}
	l := ledger.NewMemory()
	reg := NewRegistry(memhost.NewConnector(app), l)
	h, err := reg.Adopt(context.Background(), p)
	require.NoError(t, err)
	return &fixture{
		app:    app,
		pres:   p,
		ledger: l,
		reg:    reg,
		svc:    NewService(reg, NewPlanner(t.TempDir(), 0), nil),
		handle: h,
	}
}

// titles lists the resolved title of every slide in order.
func titles(t *testing.T, p host.Presentation) []string {
	t.Helper()
	n, err := p.Slides().Count()
	require.NoError(t, err)
	out := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		s, err := p.Slides().Item(i)
		require.NoError(t, err)
		out = append(out, ResolveTitle(s))
	}
	return out
}

func ptr[T any](v T) *T { return &v }
