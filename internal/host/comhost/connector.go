// Package comhost drives PowerPoint through COM automation.
//
// Every method must run on the goroutine that called Instance first: COM
// apartments are bound to an OS thread, and the connector initializes COM
// for that thread. The mcp dispatcher guarantees this by locking its
// goroutine to one thread for the whole server lifetime.
//
// On platforms other than Windows go-ole returns E_NOTIMPL for every call,
// which surfaces as a host fault.
package comhost

import (
	"errors"

	ole "github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"

	"github.com/mohammad-safakhou/deckhand/internal/host"
)

// DefaultProgID is the automation server deckhand attaches to.
const DefaultProgID = "PowerPoint.Application"

// sFalse is returned by CoInitializeEx when the thread is already
// initialized.
const sFalse = 0x00000001

// Options configure the connector.
type Options struct {
	ProgID  string
	Visible bool
}

// Connector attaches to a running PowerPoint or starts one.
type Connector struct {
	opts   Options
	inited bool
	app    *ole.IDispatch

	// call-scoped objects, released by Sweep
	scratch []*ole.IDispatch
	// presentations handed out so far, keyed by COM identity
	pinned map[uintptr]*presentation
}

// New returns a connector; nothing touches COM until Instance.
func New(opts Options) *Connector {
	if opts.ProgID == "" {
		opts.ProgID = DefaultProgID
	}
	return &Connector{opts: opts, pinned: map[uintptr]*presentation{}}
}

// Instance returns the application, reconnecting when the previous instance
// went away (e.g. the user quit PowerPoint between calls).
func (c *Connector) Instance() (host.App, error) {
	if c.app != nil {
		v, err := oleutil.GetProperty(c.app, "Version")
		if err == nil {
			v.Clear()
			return &application{c: c, d: c.app}, nil
		}
		c.reset()
	}
	if !c.inited {
		if err := ole.CoInitializeEx(0, ole.COINIT_APARTMENTTHREADED); err != nil {
			var oe *ole.OleError
			if !errors.As(err, &oe) || oe.Code() != sFalse {
				return nil, &host.HostError{Op: "connect", Err: err}
			}
		}
		c.inited = true
	}

	unk, err := oleutil.GetActiveObject(c.opts.ProgID)
	if err != nil {
		unk, err = oleutil.CreateObject(c.opts.ProgID)
		if err != nil {
			return nil, &host.HostError{Op: "connect", Err: err}
		}
	}
	defer unk.Release()
	disp, err := unk.QueryInterface(ole.IID_IDispatch)
	if err != nil {
		return nil, &host.HostError{Op: "connect", Err: err}
	}
	if c.opts.Visible {
		if _, err := oleutil.PutProperty(disp, "Visible", int32(host.TriStateTrue)); err != nil {
			disp.Release()
			return nil, &host.HostError{Op: "connect", Err: err}
		}
	}
	c.app = disp
	return &application{c: c, d: disp}, nil
}

// Sweep releases every object created while serving the last call.
// Presentations stay alive until they are closed or the connector is.
func (c *Connector) Sweep() {
	for i := len(c.scratch) - 1; i >= 0; i-- {
		c.scratch[i].Release()
	}
	c.scratch = c.scratch[:0]
}

// Close releases all references and uninitializes COM. PowerPoint itself
// keeps running.
func (c *Connector) Close() error {
	c.reset()
	if c.inited {
		ole.CoUninitialize()
		c.inited = false
	}
	return nil
}

func (c *Connector) reset() {
	c.Sweep()
	for id, p := range c.pinned {
		p.release()
		delete(c.pinned, id)
	}
	if c.app != nil {
		c.app.Release()
		c.app = nil
	}
}

// pin returns the long-lived wrapper for a presentation dispatch, taking
// ownership of d.
func (c *Connector) pin(d *ole.IDispatch) *presentation {
	id := identity(d)
	if p, ok := c.pinned[id]; ok {
		d.Release()
		return p
	}
	p := &presentation{c: c, d: d, id: id}
	c.pinned[id] = p
	return p
}

func (c *Connector) unpin(p *presentation) {
	if c.pinned[p.id] == p {
		delete(c.pinned, p.id)
		p.release()
	}
}

var (
	_ host.Connector = (*Connector)(nil)
	_ host.Sweeper   = (*Connector)(nil)
)
