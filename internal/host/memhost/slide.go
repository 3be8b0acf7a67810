package memhost

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"os"
	"strings"

	"github.com/mohammad-safakhou/deckhand/internal/host"
)

// Slide is an in-memory slide.
type Slide struct {
	pres    *Presentation
	Layout  int
	Section string
	shapes  []*Shape
}

// AddShape appends sh to the slide and returns it.
func (s *Slide) AddShape(sh *Shape) *Shape {
	s.attach(sh)
	return sh
}

// ShapeAt returns the shape at 1-based pos, or nil.
func (s *Slide) ShapeAt(pos int) *Shape {
	if pos < 1 || pos > len(s.shapes) {
		return nil
	}
	return s.shapes[pos-1]
}

// Len is the current shape count.
func (s *Slide) Len() int { return len(s.shapes) }

func (s *Slide) Identity() any { return s }

func (s *Slide) attach(sh *Shape) {
	sh.slide = s
	s.shapes = append(s.shapes, sh)
}

func (s *Slide) check(op string) (int, error) {
	if s.pres == nil {
		return 0, &host.HostError{Op: op, Err: errors.New("slide is detached")}
	}
	if err := s.pres.check(op); err != nil {
		return 0, err
	}
	idx := s.pres.indexOf(s)
	if idx == 0 {
		return 0, &host.HostError{Op: op, Err: errors.New("slide was deleted")}
	}
	return idx, nil
}

func (s *Slide) Index() (int, error) { return s.check("slide.index") }

func (s *Slide) Shapes() host.Shapes { return shapes{s} }

func (s *Slide) Duplicate() (host.Slide, error) {
	idx, err := s.check("slide.duplicate")
	if err != nil {
		return nil, err
	}
	dup := s.clone()
	s.pres.insert(idx+1, dup)
	return dup, nil
}

func (s *Slide) MoveTo(pos int) error {
	idx, err := s.check("slide.move_to")
	if err != nil {
		return err
	}
	n := len(s.pres.slides)
	if pos < 1 || pos > n {
		return outOfRange("slide.move_to", pos, n)
	}
	s.pres.removeAt(idx)
	s.pres.insert(pos, s)
	return nil
}

func (s *Slide) Copy() error {
	if _, err := s.check("slide.copy"); err != nil {
		return err
	}
	s.pres.app.clipboard = s.clone()
	return nil
}

func (s *Slide) Delete() error {
	idx, err := s.check("slide.delete")
	if err != nil {
		return err
	}
	s.pres.removeAt(idx)
	return nil
}

// Export renders a blank canvas of the requested size. memhost has no
// renderer; the file exists so callers can verify paths and dimensions.
func (s *Slide) Export(path, filter string, width, height int) error {
	if _, err := s.check("slide.export"); err != nil {
		return err
	}
	if width <= 0 || height <= 0 {
		return &host.HostError{Op: "slide.export", Err: fmt.Errorf("invalid size %dx%d", width, height)}
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)

	f, err := os.Create(path)
	if err != nil {
		return &host.HostError{Op: "slide.export", Err: err}
	}
	defer f.Close()
	switch strings.ToUpper(filter) {
	case "PNG":
		err = png.Encode(f, img)
	case "JPG", "JPEG":
		err = jpeg.Encode(f, img, nil)
	default:
		err = fmt.Errorf("unsupported filter %q", filter)
	}
	if err != nil {
		return &host.HostError{Op: "slide.export", Err: err}
	}
	return nil
}

func (s *Slide) clone() *Slide {
	c := &Slide{pres: s.pres, Layout: s.Layout, Section: s.Section}
	for _, sh := range s.shapes {
		c.attach(sh.clone())
	}
	return c
}

type shapes struct{ s *Slide }

func (x shapes) Count() (int, error) {
	if _, err := x.s.check("shapes.count"); err != nil {
		return 0, err
	}
	return len(x.s.shapes), nil
}

func (x shapes) Item(pos int) (host.Shape, error) {
	if _, err := x.s.check("shapes.item"); err != nil {
		return nil, err
	}
	if pos < 1 || pos > len(x.s.shapes) {
		return nil, outOfRange("shapes.item", pos, len(x.s.shapes))
	}
	return x.s.shapes[pos-1].view(), nil
}

func (x shapes) AddTextbox(orientation int, left, top, width, height float64) (host.Shape, error) {
	if _, err := x.s.check("shapes.add_textbox"); err != nil {
		return nil, err
	}
	sh := TextBox(fmt.Sprintf("TextBox %d", len(x.s.shapes)+1), "")
	sh.Rect = host.Rect{Left: left, Top: top, Width: width, Height: height}
	x.s.attach(sh)
	x.s.pres.touch()
	return sh.view(), nil
}

func (x shapes) Paste() error {
	if _, err := x.s.check("shapes.paste"); err != nil {
		return err
	}
	src, ok := x.s.pres.app.clipboard.(*Shape)
	if !ok {
		return &host.HostError{Op: "shapes.paste", Err: errors.New("clipboard does not hold a shape")}
	}
	x.s.attach(src.clone())
	x.s.pres.touch()
	return nil
}
