package comhost

import (
	ole "github.com/go-ole/go-ole"

	"github.com/mohammad-safakhou/deckhand/internal/host"
)

type selection struct {
	c   *Connector
	win *ole.IDispatch
	d   *ole.IDispatch
}

func (s *selection) Kind() (host.SelectionKind, error) {
	n, err := s.c.integer(s.d, propGet, "selection.kind", "Type")
	return host.SelectionKind(n), err
}

func (s *selection) Slide() (host.Slide, error) {
	view, err := s.c.object(s.win, propGet, "selection.slide", "View")
	if err != nil {
		return nil, err
	}
	d, err := s.c.object(view, propGet, "selection.slide", "Slide")
	if err != nil {
		return nil, err
	}
	return &slide{c: s.c, d: d}, nil
}

func (s *selection) Shapes() ([]host.Shape, error) {
	const op = "selection.shapes"
	rng, err := s.c.object(s.d, propGet, op, "ShapeRange")
	if err != nil {
		return nil, err
	}
	n, err := s.c.integer(rng, propGet, op, "Count")
	if err != nil {
		return nil, err
	}
	out := make([]host.Shape, 0, n)
	for i := 1; i <= n; i++ {
		d, err := s.c.object(rng, method, op, "Item", int32(i))
		if err != nil {
			return nil, err
		}
		out = append(out, &shape{c: s.c, d: d})
	}
	return out, nil
}

// TextRange walks TextRange.Parent (the text frame) to its Parent (the
// shape).
func (s *selection) TextRange() (string, host.Shape, error) {
	const op = "selection.text_range"
	rng, err := s.c.object(s.d, propGet, op, "TextRange")
	if err != nil {
		return "", nil, err
	}
	text, err := s.c.str(rng, op, "Text")
	if err != nil {
		return "", nil, err
	}
	frame, err := s.c.object(rng, propGet, op, "Parent")
	if err != nil {
		return text, nil, err
	}
	d, err := s.c.object(frame, propGet, op, "Parent")
	if err != nil {
		return text, nil, err
	}
	return text, &shape{c: s.c, d: d}, nil
}
