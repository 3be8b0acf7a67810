// Package memhost is an in-memory presentation application. It implements
// the host contract closely enough to exercise every deck operation without
// a desktop: 1-based sequences that shift on insert and delete, a shared
// clipboard, two text frame generations, groups, sections, selection and
// raster export. Faults can be injected per operation or per shape.
package memhost

import (
	"errors"
	"fmt"
	"os"

	"github.com/mohammad-safakhou/deckhand/internal/host"
)

// Connector hands out a single App, like attaching to a running instance.
type Connector struct {
	app    *App
	closed bool
}

// NewConnector wraps app, creating a fresh one when app is nil.
func NewConnector(app *App) *Connector {
	if app == nil {
		app = New()
	}
	return &Connector{app: app}
}

func (c *Connector) Instance() (host.App, error) {
	if c.closed {
		return nil, &host.HostError{Op: "connect", Err: errors.New("connector closed")}
	}
	return c.app, nil
}

func (c *Connector) Close() error {
	c.closed = true
	return nil
}

// App is the in-memory application.
type App struct {
	docs      []*Presentation
	active    *Presentation
	clipboard any
	selection *selection
	faults    map[string]error
}

// New returns an empty application.
func New() *App {
	return &App{faults: map[string]error{}}
}

// Fail makes every later call of op fail with err until Heal(op).
// Operation names are "<object>.<method>", e.g. "slides.paste".
func (a *App) Fail(op string, err error) { a.faults[op] = err }

// Heal clears an injected fault.
func (a *App) Heal(op string) { delete(a.faults, op) }

func (a *App) fault(op string) error {
	if err, ok := a.faults[op]; ok {
		return &host.HostError{Op: op, Err: err}
	}
	return nil
}

// AddPresentation registers an open document named fullName with a 16:9
// page and no slides.
func (a *App) AddPresentation(fullName string) *Presentation {
	p := &Presentation{app: a, Name: fullName, Width: 960, Height: 540, saved: true}
	a.docs = append(a.docs, p)
	a.active = p
	return p
}

// Activate makes p the active presentation.
func (a *App) Activate(p *Presentation) { a.active = p }

// Select sets a shape selection on slide.
func (a *App) Select(slide *Slide, shapes ...*Shape) {
	a.selection = &selection{kind: host.SelectionShapes, slide: slide, shapes: shapes}
}

// SelectText sets a text selection inside shape.
func (a *App) SelectText(slide *Slide, shape *Shape, text string) {
	a.selection = &selection{kind: host.SelectionText, slide: slide, shapes: []*Shape{shape}, text: text}
}

// ClearSelection removes any selection.
func (a *App) ClearSelection() { a.selection = nil }

func (a *App) Presentations() ([]host.Presentation, error) {
	if err := a.fault("app.presentations"); err != nil {
		return nil, err
	}
	out := make([]host.Presentation, 0, len(a.docs))
	for _, p := range a.docs {
		out = append(out, p)
	}
	return out, nil
}

func (a *App) Open(path string) (host.Presentation, error) {
	if err := a.fault("app.open"); err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err != nil {
		return nil, &host.HostError{Op: "app.open", Err: err}
	}
	p, err := load(path)
	if err != nil {
		// Not a memhost snapshot: open it as an empty document.
		p = &Presentation{Name: path, Width: 960, Height: 540}
	}
	p.app = a
	p.saved = true
	for _, s := range p.slides {
		s.pres = p
	}
	a.docs = append(a.docs, p)
	a.active = p
	return p, nil
}

func (a *App) Create() (host.Presentation, error) {
	if err := a.fault("app.create"); err != nil {
		return nil, err
	}
	p := a.AddPresentation("")
	p.saved = false
	return p, nil
}

func (a *App) ActivePresentation() (host.Presentation, error) {
	if err := a.fault("app.active_presentation"); err != nil {
		return nil, err
	}
	if a.active == nil || a.active.closed {
		return nil, &host.HostError{Op: "app.active_presentation", Err: errors.New("no active presentation")}
	}
	return a.active, nil
}

func (a *App) ActiveSelection() (host.Selection, error) {
	if err := a.fault("app.active_selection"); err != nil {
		return nil, err
	}
	if a.selection == nil {
		return nil, nil
	}
	return a.selection, nil
}

func (a *App) remove(p *Presentation) {
	for i, d := range a.docs {
		if d == p {
			a.docs = append(a.docs[:i], a.docs[i+1:]...)
			break
		}
	}
	if a.active == p {
		a.active = nil
		if len(a.docs) > 0 {
			a.active = a.docs[len(a.docs)-1]
		}
	}
}

type selection struct {
	kind   host.SelectionKind
	slide  *Slide
	shapes []*Shape
	text   string
}

func (s *selection) Kind() (host.SelectionKind, error) { return s.kind, nil }

func (s *selection) Slide() (host.Slide, error) {
	if s.slide == nil {
		return nil, &host.HostError{Op: "selection.slide", Err: errors.New("no slide in view")}
	}
	return s.slide, nil
}

func (s *selection) Shapes() ([]host.Shape, error) {
	if s.kind != host.SelectionShapes {
		return nil, &host.HostError{Op: "selection.shapes", Err: errors.New("selection has no shape range")}
	}
	out := make([]host.Shape, 0, len(s.shapes))
	for _, sh := range s.shapes {
		out = append(out, sh.view())
	}
	return out, nil
}

func (s *selection) TextRange() (string, host.Shape, error) {
	if s.kind != host.SelectionText || len(s.shapes) == 0 {
		return "", nil, &host.HostError{Op: "selection.text_range", Err: errors.New("selection has no text range")}
	}
	return s.text, s.shapes[0].view(), nil
}

func outOfRange(op string, pos, max int) error {
	return &host.HostError{Op: op, Err: fmt.Errorf("index %d out of range 1-%d", pos, max)}
}
