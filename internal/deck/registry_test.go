package deck

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mohammad-safakhou/deckhand/internal/host/memhost"
	"github.com/mohammad-safakhou/deckhand/internal/ledger"
)

func mints(handles ...string) func() string {
	i := 0
	return func() string {
		h := handles[i%len(handles)]
		i++
		return h
	}
}

func TestAdoptIsIdempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t, "a")
	second := f.app.AddPresentation(filepath.Join(t.TempDir(), "second.pptx"))

	first, err := f.reg.List(ctx)
	require.NoError(t, err)
	again, err := f.reg.List(ctx)
	require.NoError(t, err)
	require.Len(t, first, 2)
	require.Equal(t, first, again)
	require.Equal(t, f.handle, first[0].Handle)
	require.Equal(t, 2, f.reg.Len())

	h, _, err := f.reg.Active(ctx)
	require.NoError(t, err)
	require.Equal(t, first[1].Handle, h)
	h2, err := f.reg.Adopt(ctx, second)
	require.NoError(t, err)
	require.Equal(t, h, h2)
}

func TestCloseRetiresHandle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t, "a")

	require.NoError(t, f.reg.Close(ctx, f.handle, false))
	require.True(t, f.pres.Closed())

	_, err := f.reg.Resolve(f.handle)
	require.ErrorIs(t, err, ErrUnknownHandle)
	require.ErrorIs(t, f.reg.Close(ctx, f.handle, false), ErrUnknownHandle)

	state, ok := f.ledger.State(f.handle)
	require.True(t, ok)
	require.Equal(t, ledger.StateRetired, state)
	require.Zero(t, f.reg.Len())
}

func TestCloseWithSaveWritesFile(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t, "a")

	require.NoError(t, f.reg.Close(ctx, f.handle, true))
	_, err := os.Stat(f.pres.Name)
	require.NoError(t, err)
}

func TestCloseFailureKeepsEntry(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t, "a")
	f.app.Fail("presentation.close", errBusy)

	require.ErrorIs(t, f.reg.Close(ctx, f.handle, false), ErrHostFault)
	_, err := f.reg.Resolve(f.handle)
	require.NoError(t, err)
}

func TestAdoptRetriesOnCollision(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	app := memhost.New()
	reg := NewRegistry(memhost.NewConnector(app), ledger.NewMemory(), WithMint(mints("h1", "h1", "h2")))

	h1, err := reg.Adopt(ctx, app.AddPresentation("one.pptx"))
	require.NoError(t, err)
	h2, err := reg.Adopt(ctx, app.AddPresentation("two.pptx"))
	require.NoError(t, err)
	require.Equal(t, "h1", h1)
	require.Equal(t, "h2", h2)
}

func TestAdoptNeverReusesRetiredHandle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	app := memhost.New()
	reg := NewRegistry(memhost.NewConnector(app), ledger.NewMemory(), WithMint(mints("same")))

	h, err := reg.Adopt(ctx, app.AddPresentation("one.pptx"))
	require.NoError(t, err)
	require.NoError(t, reg.Close(ctx, h, false))

	_, err = reg.Adopt(ctx, app.AddPresentation("two.pptx"))
	require.ErrorIs(t, err, ErrHostFault)
	require.Zero(t, reg.Len())
}

func TestOpenMissingFile(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.app.Fail("app.open", errBusy)

	_, _, err := f.reg.Open(context.Background(), filepath.Join(t.TempDir(), "missing.pptx"))
	require.ErrorIs(t, err, ErrNotFound)
	_, _, err = f.reg.Open(context.Background(), "")
	require.ErrorIs(t, err, ErrInvalidFormat)
}

func TestOpenAdoptsDocument(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t, "saved")
	require.NoError(t, f.pres.Save())

	app := memhost.New()
	reg := NewRegistry(memhost.NewConnector(app), ledger.NewMemory())
	var seen []int
	reg.OnChange = func(open int) { seen = append(seen, open) }

	h, p, err := reg.Open(ctx, f.pres.Name)
	require.NoError(t, err)
	require.NotEmpty(t, h)
	require.Equal(t, []string{"saved"}, titles(t, p))
	require.NoError(t, reg.Close(ctx, h, false))
	require.Equal(t, []int{1, 0}, seen)
}
