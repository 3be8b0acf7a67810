package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	testrequire "github.com/stretchr/testify/require"

	"github.com/mohammad-safakhou/deckhand/internal/deck"
	"github.com/mohammad-safakhou/deckhand/internal/host"
)

// sweepConn counts sweeps and closes; it never hands out an App.
type sweepConn struct {
	sweeps int
	closed int
}

func (c *sweepConn) Instance() (host.App, error) { return nil, errors.New("no app") }
func (c *sweepConn) Close() error                { c.closed++; return nil }
func (c *sweepConn) Sweep()                      { c.sweeps++ }

func TestDispatcherRunsAndSweeps(t *testing.T) {
	conn := &sweepConn{}
	d := NewDispatcher(conn, nil)
	d.Start()

	val, err := d.Do(context.Background(), func() (any, error) { return 42, nil })
	testrequire.NoError(t, err)
	assert.Equal(t, 42, val)

	_, err = d.Do(context.Background(), func() (any, error) { return nil, deck.ErrNotFound })
	assert.ErrorIs(t, err, deck.ErrNotFound)

	_, err = d.Do(context.Background(), func() (any, error) { panic("boom") })
	testrequire.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.Equal(t, deck.KindHostFault, deck.KindOf(err))

	d.Stop()
	assert.Equal(t, 3, conn.sweeps)
	assert.Equal(t, 1, conn.closed)

	_, err = d.Do(context.Background(), func() (any, error) { return nil, nil })
	assert.ErrorIs(t, err, ErrStopped)
	d.Stop()
	assert.Equal(t, 1, conn.closed, "stop is idempotent")
}

func TestDispatcherQueueWaitHonoursContext(t *testing.T) {
	d := NewDispatcher(&sweepConn{}, nil)
	d.Start()
	defer d.Stop()

	started := make(chan struct{})
	release := make(chan struct{})
	first := make(chan error, 1)
	go func() {
		_, err := d.Do(context.Background(), func() (any, error) {
			close(started)
			<-release
			return nil, nil
		})
		first <- err
	}()
	<-started

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ran := false
	_, err := d.Do(ctx, func() (any, error) { ran = true; return nil, nil })
	assert.ErrorIs(t, err, context.Canceled)

	close(release)
	testrequire.NoError(t, <-first)
	assert.False(t, ran)
}
