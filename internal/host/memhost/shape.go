package memhost

import (
	"errors"
	"fmt"

	"github.com/mohammad-safakhou/deckhand/internal/host"
)

// Capability selects which text frame generations a shape exposes.
type Capability uint8

const (
	CapLegacy Capability = 1 << iota
	CapModern

	CapNone Capability = 0
	CapBoth            = CapLegacy | CapModern
)

// Shape is an in-memory shape. Faults maps an operation name ("name",
// "type", "placeholder", "bounds", "frame", "frame2", "text", "set_text",
// "font", "copy") to the error it should raise.
type Shape struct {
	slide  *Slide
	parent *Shape

	Label       string
	Kind        host.ShapeType
	Placeholder host.PlaceholderType
	Rect        host.Rect
	Caps        Capability
	Text        string
	Font        host.Font
	Children    []*Shape
	Faults      map[string]error `json:"-"`
}

// NewShape builds a shape of any kind.
func NewShape(name string, kind host.ShapeType, caps Capability, text string) *Shape {
	return &Shape{
		Label: name,
		Kind:  kind,
		Caps:  caps,
		Text:  text,
		Rect:  host.Rect{Left: 100, Top: 100, Width: 400, Height: 200},
		Font:  host.Font{Name: "Calibri", Size: 18},
	}
}

// Placeholder builds a layout placeholder with both text frames.
func Placeholder(name string, kind host.PlaceholderType, text string) *Shape {
	s := NewShape(name, host.ShapePlaceholder, CapBoth, text)
	s.Placeholder = kind
	return s
}

// TextBox builds a text box with both text frames.
func TextBox(name, text string) *Shape {
	return NewShape(name, host.ShapeTextBox, CapBoth, text)
}

// Picture builds a picture, which has no text frame.
func Picture(name string) *Shape {
	return NewShape(name, host.ShapePicture, CapNone, "")
}

// Group builds a group of children. Groups expose no text frame themselves.
func Group(name string, children ...*Shape) *Shape {
	g := NewShape(name, host.ShapeGroup, CapNone, "")
	for _, c := range children {
		c.parent = g
	}
	g.Children = children
	return g
}

// WithFault makes op fail with err on this shape.
func (s *Shape) WithFault(op string, err error) *Shape {
	if s.Faults == nil {
		s.Faults = map[string]error{}
	}
	s.Faults[op] = err
	return s
}

func (s *Shape) fault(op string) error {
	if err, ok := s.Faults[op]; ok {
		return &host.HostError{Op: "shape." + op, Err: err}
	}
	return nil
}

func (s *Shape) root() *Slide {
	for x := s; x != nil; x = x.parent {
		if x.slide != nil {
			return x.slide
		}
	}
	return nil
}

func (s *Shape) touch() {
	if sl := s.root(); sl != nil && sl.pres != nil {
		sl.pres.touch()
	}
}

// view returns the shape wrapped so that its static type exposes exactly
// the text capabilities it has.
func (s *Shape) view() host.Shape {
	switch s.Caps {
	case CapLegacy:
		return legacyShape{s}
	case CapModern:
		return modernShape{s}
	case CapBoth:
		return dualShape{s}
	default:
		return s
	}
}

func (s *Shape) Identity() any { return s }

func (s *Shape) Name() (string, error) {
	if err := s.fault("name"); err != nil {
		return "", err
	}
	return s.Label, nil
}

func (s *Shape) Type() (host.ShapeType, error) {
	if err := s.fault("type"); err != nil {
		return 0, err
	}
	return s.Kind, nil
}

func (s *Shape) PlaceholderType() (host.PlaceholderType, error) {
	if err := s.fault("placeholder"); err != nil {
		return 0, err
	}
	if s.Kind != host.ShapePlaceholder {
		return 0, &host.HostError{Op: "shape.placeholder", Err: errors.New("shape is not a placeholder")}
	}
	return s.Placeholder, nil
}

func (s *Shape) Bounds() (host.Rect, error) {
	if err := s.fault("bounds"); err != nil {
		return host.Rect{}, err
	}
	return s.Rect, nil
}

func (s *Shape) SetLeft(v float64) error   { return s.setBound(func(r *host.Rect) { r.Left = v }) }
func (s *Shape) SetTop(v float64) error    { return s.setBound(func(r *host.Rect) { r.Top = v }) }
func (s *Shape) SetWidth(v float64) error  { return s.setBound(func(r *host.Rect) { r.Width = v }) }
func (s *Shape) SetHeight(v float64) error { return s.setBound(func(r *host.Rect) { r.Height = v }) }

func (s *Shape) setBound(apply func(*host.Rect)) error {
	if err := s.fault("bounds"); err != nil {
		return err
	}
	apply(&s.Rect)
	s.touch()
	return nil
}

func (s *Shape) Copy() error {
	if err := s.fault("copy"); err != nil {
		return err
	}
	sl := s.root()
	if sl == nil || sl.pres == nil {
		return &host.HostError{Op: "shape.copy", Err: errors.New("shape is detached")}
	}
	sl.pres.app.clipboard = s.clone()
	return nil
}

func (s *Shape) GroupItems() ([]host.Shape, error) {
	if s.Kind != host.ShapeGroup {
		return nil, &host.HostError{Op: "shape.group_items", Err: fmt.Errorf("%s is not a group", s.Kind)}
	}
	out := make([]host.Shape, 0, len(s.Children))
	for _, c := range s.Children {
		out = append(out, c.view())
	}
	return out, nil
}

func (s *Shape) clone() *Shape {
	c := *s
	c.slide, c.parent = nil, nil
	if s.Faults != nil {
		c.Faults = make(map[string]error, len(s.Faults))
		for k, v := range s.Faults {
			c.Faults[k] = v
		}
	}
	c.Children = nil
	for _, child := range s.Children {
		cc := child.clone()
		cc.parent = &c
		c.Children = append(c.Children, cc)
	}
	return &c
}

type legacyShape struct{ *Shape }

func (v legacyShape) TextFrame() (host.TextFrame, error) { return v.frame("frame") }

type modernShape struct{ *Shape }

func (v modernShape) TextFrame2() (host.TextFrame, error) { return v.frame("frame2") }

type dualShape struct{ *Shape }

func (v dualShape) TextFrame() (host.TextFrame, error)  { return v.frame("frame") }
func (v dualShape) TextFrame2() (host.TextFrame, error) { return v.frame("frame2") }

func (s *Shape) frame(op string) (host.TextFrame, error) {
	if err := s.fault(op); err != nil {
		return nil, err
	}
	return textFrame{s}, nil
}

type textFrame struct{ s *Shape }

func (f textFrame) HasText() (bool, error) {
	if err := f.s.fault("text"); err != nil {
		return false, err
	}
	return f.s.Text != "", nil
}

func (f textFrame) Text() (string, error) {
	if err := f.s.fault("text"); err != nil {
		return "", err
	}
	return f.s.Text, nil
}

func (f textFrame) SetText(text string) error {
	if err := f.s.fault("set_text"); err != nil {
		return err
	}
	f.s.Text = text
	f.s.touch()
	return nil
}

func (f textFrame) Font() (host.Font, error) {
	if err := f.s.fault("font"); err != nil {
		return host.Font{}, err
	}
	return f.s.Font, nil
}

func (f textFrame) SetFontSize(size float64) error {
	if err := f.s.fault("font"); err != nil {
		return err
	}
	f.s.Font.Size = size
	f.s.touch()
	return nil
}

func (f textFrame) SetFontName(name string) error {
	if err := f.s.fault("font"); err != nil {
		return err
	}
	f.s.Font.Name = name
	f.s.touch()
	return nil
}

func (f textFrame) SetBold(bold bool) error {
	if err := f.s.fault("font"); err != nil {
		return err
	}
	f.s.Font.Bold = bold
	f.s.touch()
	return nil
}
