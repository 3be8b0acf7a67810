package comhost

import (
	ole "github.com/go-ole/go-ole"

	"github.com/mohammad-safakhou/deckhand/internal/host"
)

type shapes struct {
	c     *Connector
	slide *slide
}

func (s *shapes) col(op string) (*ole.IDispatch, error) {
	return s.c.object(s.slide.d, propGet, op, "Shapes")
}

func (s *shapes) Count() (int, error) {
	col, err := s.col("shapes.count")
	if err != nil {
		return 0, err
	}
	return s.c.integer(col, propGet, "shapes.count", "Count")
}

func (s *shapes) Item(pos int) (host.Shape, error) {
	col, err := s.col("shapes.item")
	if err != nil {
		return nil, err
	}
	d, err := s.c.object(col, method, "shapes.item", "Item", int32(pos))
	if err != nil {
		return nil, err
	}
	return &shape{c: s.c, d: d}, nil
}

func (s *shapes) AddTextbox(orientation int, left, top, width, height float64) (host.Shape, error) {
	col, err := s.col("shapes.add_textbox")
	if err != nil {
		return nil, err
	}
	d, err := s.c.object(col, method, "shapes.add_textbox", "AddTextbox",
		int32(orientation), float32(left), float32(top), float32(width), float32(height))
	if err != nil {
		return nil, err
	}
	return &shape{c: s.c, d: d}, nil
}

func (s *shapes) Paste() error {
	col, err := s.col("shapes.paste")
	if err != nil {
		return err
	}
	_, err = s.c.object(col, method, "shapes.paste", "Paste")
	return err
}

// shape exposes both text frame generations; whether either works is only
// known once it is asked for.
type shape struct {
	c *Connector
	d *ole.IDispatch
}

// shapeKey identifies a shape by its Id, which is unique within a slide.
// ShapeRange items and Shapes items are distinct COM objects for the same
// shape, so pointer identity cannot be used.
type shapeKey struct{ id int }

func (s *shape) Identity() any {
	id, err := s.c.integer(s.d, propGet, "shape.id", "Id")
	if err != nil {
		return identity(s.d)
	}
	return shapeKey{id}
}

func (s *shape) Name() (string, error) { return s.c.str(s.d, "shape.name", "Name") }

func (s *shape) Type() (host.ShapeType, error) {
	n, err := s.c.integer(s.d, propGet, "shape.type", "Type")
	return host.ShapeType(n), err
}

func (s *shape) PlaceholderType() (host.PlaceholderType, error) {
	pf, err := s.c.object(s.d, propGet, "shape.placeholder", "PlaceholderFormat")
	if err != nil {
		return 0, err
	}
	n, err := s.c.integer(pf, propGet, "shape.placeholder", "Type")
	return host.PlaceholderType(n), err
}

func (s *shape) Bounds() (host.Rect, error) {
	const op = "shape.bounds"
	var (
		r   host.Rect
		err error
	)
	if r.Left, err = s.c.float(s.d, op, "Left"); err != nil {
		return r, err
	}
	if r.Top, err = s.c.float(s.d, op, "Top"); err != nil {
		return r, err
	}
	if r.Width, err = s.c.float(s.d, op, "Width"); err != nil {
		return r, err
	}
	if r.Height, err = s.c.float(s.d, op, "Height"); err != nil {
		return r, err
	}
	return r, nil
}

func (s *shape) SetLeft(v float64) error   { return s.c.put(s.d, "shape.set_left", "Left", float32(v)) }
func (s *shape) SetTop(v float64) error    { return s.c.put(s.d, "shape.set_top", "Top", float32(v)) }
func (s *shape) SetWidth(v float64) error  { return s.c.put(s.d, "shape.set_width", "Width", float32(v)) }
func (s *shape) SetHeight(v float64) error { return s.c.put(s.d, "shape.set_height", "Height", float32(v)) }

func (s *shape) Copy() error { return s.c.do(s.d, "shape.copy", "Copy") }

func (s *shape) GroupItems() ([]host.Shape, error) {
	const op = "shape.group_items"
	items, err := s.c.object(s.d, propGet, op, "GroupItems")
	if err != nil {
		return nil, err
	}
	n, err := s.c.integer(items, propGet, op, "Count")
	if err != nil {
		return nil, err
	}
	out := make([]host.Shape, 0, n)
	for i := 1; i <= n; i++ {
		d, err := s.c.object(items, method, op, "Item", int32(i))
		if err != nil {
			return nil, err
		}
		out = append(out, &shape{c: s.c, d: d})
	}
	return out, nil
}

func (s *shape) TextFrame() (host.TextFrame, error) {
	d, err := s.c.object(s.d, propGet, "shape.text_frame", "TextFrame")
	if err != nil {
		return nil, err
	}
	return &textFrame{c: s.c, d: d, op: "text_frame"}, nil
}

func (s *shape) TextFrame2() (host.TextFrame, error) {
	d, err := s.c.object(s.d, propGet, "shape.text_frame2", "TextFrame2")
	if err != nil {
		return nil, err
	}
	return &textFrame{c: s.c, d: d, op: "text_frame2"}, nil
}

// textFrame covers TextFrame and TextFrame2; both expose HasText and a
// TextRange with Text and Font.
type textFrame struct {
	c  *Connector
	d  *ole.IDispatch
	op string
}

func (f *textFrame) HasText() (bool, error) {
	return f.c.tristate(f.d, f.op+".has_text", "HasText")
}

func (f *textFrame) rng(op string) (*ole.IDispatch, error) {
	return f.c.object(f.d, propGet, op, "TextRange")
}

func (f *textFrame) Text() (string, error) {
	op := f.op + ".text"
	r, err := f.rng(op)
	if err != nil {
		return "", err
	}
	return f.c.str(r, op, "Text")
}

func (f *textFrame) SetText(text string) error {
	op := f.op + ".set_text"
	r, err := f.rng(op)
	if err != nil {
		return err
	}
	return f.c.put(r, op, "Text", text)
}

func (f *textFrame) font(op string) (*ole.IDispatch, error) {
	r, err := f.rng(op)
	if err != nil {
		return nil, err
	}
	return f.c.object(r, propGet, op, "Font")
}

func (f *textFrame) Font() (host.Font, error) {
	op := f.op + ".font"
	d, err := f.font(op)
	if err != nil {
		return host.Font{}, err
	}
	var out host.Font
	if out.Name, err = f.c.str(d, op, "Name"); err != nil {
		return out, err
	}
	if out.Size, err = f.c.float(d, op, "Size"); err != nil {
		return out, err
	}
	if out.Bold, err = f.c.tristate(d, op, "Bold"); err != nil {
		return out, err
	}
	return out, nil
}

func (f *textFrame) SetFontSize(size float64) error {
	op := f.op + ".set_font_size"
	d, err := f.font(op)
	if err != nil {
		return err
	}
	return f.c.put(d, op, "Size", float32(size))
}

func (f *textFrame) SetFontName(name string) error {
	op := f.op + ".set_font_name"
	d, err := f.font(op)
	if err != nil {
		return err
	}
	return f.c.put(d, op, "Name", name)
}

func (f *textFrame) SetBold(bold bool) error {
	op := f.op + ".set_bold"
	d, err := f.font(op)
	if err != nil {
		return err
	}
	v := int32(host.TriStateFalse)
	if bold {
		v = host.TriStateTrue
	}
	return f.c.put(d, op, "Bold", v)
}
