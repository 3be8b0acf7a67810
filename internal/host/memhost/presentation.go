package memhost

import (
	"errors"
	"fmt"

	"github.com/mohammad-safakhou/deckhand/internal/host"
)

// Presentation is an in-memory document.
type Presentation struct {
	app    *App
	Name   string
	Width  float64
	Height float64
	slides []*Slide
	saved  bool
	closed bool
}

// AddSlide appends a blank slide in section (may be empty) and returns it.
func (p *Presentation) AddSlide(section string, shapes ...*Shape) *Slide {
	s := &Slide{pres: p, Section: section, Layout: host.LayoutBlank}
	for _, sh := range shapes {
		s.attach(sh)
	}
	p.slides = append(p.slides, s)
	return s
}

// SlideAt returns the slide at 1-based pos, or nil.
func (p *Presentation) SlideAt(pos int) *Slide {
	if pos < 1 || pos > len(p.slides) {
		return nil
	}
	return p.slides[pos-1]
}

// Len is the current slide count.
func (p *Presentation) Len() int { return len(p.slides) }

// Closed reports whether Close was called.
func (p *Presentation) Closed() bool { return p.closed }

func (p *Presentation) Identity() any { return p }

func (p *Presentation) check(op string) error {
	if p.closed {
		return &host.HostError{Op: op, Err: errors.New("presentation was closed")}
	}
	return p.app.fault(op)
}

func (p *Presentation) FullName() (string, error) {
	if err := p.check("presentation.full_name"); err != nil {
		return "", err
	}
	return p.Name, nil
}

func (p *Presentation) Saved() (bool, error) {
	if err := p.check("presentation.saved"); err != nil {
		return false, err
	}
	return p.saved, nil
}

func (p *Presentation) Save() error {
	if err := p.check("presentation.save"); err != nil {
		return err
	}
	if p.Name == "" {
		return &host.HostError{Op: "presentation.save", Err: errors.New("presentation has no file name")}
	}
	if err := store(p, p.Name); err != nil {
		return &host.HostError{Op: "presentation.save", Err: err}
	}
	p.saved = true
	return nil
}

func (p *Presentation) SaveAs(path string) error {
	if err := p.check("presentation.save_as"); err != nil {
		return err
	}
	if err := store(p, path); err != nil {
		return &host.HostError{Op: "presentation.save_as", Err: err}
	}
	p.Name = path
	p.saved = true
	return nil
}

func (p *Presentation) SaveCopyAs(path string) error {
	if err := p.check("presentation.save_copy_as"); err != nil {
		return err
	}
	if err := store(p, path); err != nil {
		return &host.HostError{Op: "presentation.save_copy_as", Err: err}
	}
	return nil
}

func (p *Presentation) Close() error {
	if err := p.check("presentation.close"); err != nil {
		return err
	}
	p.closed = true
	p.app.remove(p)
	return nil
}

func (p *Presentation) Slides() host.Slides { return slides{p} }

func (p *Presentation) PageSize() (float64, float64, error) {
	if err := p.check("presentation.page_setup"); err != nil {
		return 0, 0, err
	}
	return p.Width, p.Height, nil
}

// Sections groups contiguous slides that share a section name.
func (p *Presentation) Sections() ([]host.Section, error) {
	if err := p.check("presentation.sections"); err != nil {
		return nil, err
	}
	var out []host.Section
	for i, s := range p.slides {
		if s.Section == "" {
			continue
		}
		if n := len(out); n > 0 && out[n-1].Name == s.Section && out[n-1].FirstSlide+out[n-1].SlideCount == i+1 {
			out[n-1].SlideCount++
			continue
		}
		out = append(out, host.Section{
			ID:         fmt.Sprintf("{section-%d}", len(out)+1),
			Name:       s.Section,
			FirstSlide: i + 1,
			SlideCount: 1,
		})
	}
	return out, nil
}

func (p *Presentation) touch() { p.saved = false }

func (p *Presentation) indexOf(s *Slide) int {
	for i, x := range p.slides {
		if x == s {
			return i + 1
		}
	}
	return 0
}

func (p *Presentation) insert(pos int, s *Slide) {
	s.pres = p
	p.slides = append(p.slides, nil)
	copy(p.slides[pos:], p.slides[pos-1:])
	p.slides[pos-1] = s
	p.touch()
}

func (p *Presentation) removeAt(pos int) {
	p.slides = append(p.slides[:pos-1], p.slides[pos:]...)
	p.touch()
}

type slides struct{ p *Presentation }

func (s slides) Count() (int, error) {
	if err := s.p.check("slides.count"); err != nil {
		return 0, err
	}
	return len(s.p.slides), nil
}

func (s slides) Item(pos int) (host.Slide, error) {
	if err := s.p.check("slides.item"); err != nil {
		return nil, err
	}
	if pos < 1 || pos > len(s.p.slides) {
		return nil, outOfRange("slides.item", pos, len(s.p.slides))
	}
	return s.p.slides[pos-1], nil
}

func (s slides) Add(pos int, layout int) (host.Slide, error) {
	if err := s.p.check("slides.add"); err != nil {
		return nil, err
	}
	if pos < 1 || pos > len(s.p.slides)+1 {
		return nil, outOfRange("slides.add", pos, len(s.p.slides)+1)
	}
	sl := &Slide{Layout: layout}
	for _, sh := range layoutShapes(layout) {
		sl.attach(sh)
	}
	s.p.insert(pos, sl)
	return sl, nil
}

func (s slides) Paste(pos int) error {
	if err := s.p.check("slides.paste"); err != nil {
		return err
	}
	src, ok := s.p.app.clipboard.(*Slide)
	if !ok {
		return &host.HostError{Op: "slides.paste", Err: errors.New("clipboard does not hold a slide")}
	}
	if pos < 1 || pos > len(s.p.slides)+1 {
		return outOfRange("slides.paste", pos, len(s.p.slides)+1)
	}
	s.p.insert(pos, src.clone())
	return nil
}

func layoutShapes(layout int) []*Shape {
	switch layout {
	case host.LayoutBlank:
		return nil
	case host.LayoutTitle:
		return []*Shape{
			Placeholder("Title 1", host.PlaceholderCenterTitle, ""),
			Placeholder("Subtitle 2", host.PlaceholderSubtitle, ""),
		}
	case 11: // title only
		return []*Shape{Placeholder("Title 1", host.PlaceholderTitle, "")}
	default:
		return []*Shape{
			Placeholder("Title 1", host.PlaceholderTitle, ""),
			Placeholder("Content Placeholder 2", host.PlaceholderBody, ""),
		}
	}
}
