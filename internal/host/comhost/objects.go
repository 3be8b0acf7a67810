package comhost

import (
	"errors"

	ole "github.com/go-ole/go-ole"

	"github.com/mohammad-safakhou/deckhand/internal/host"
)

type application struct {
	c *Connector
	d *ole.IDispatch
}

func (a *application) Presentations() ([]host.Presentation, error) {
	col, err := a.c.object(a.d, propGet, "app.presentations", "Presentations")
	if err != nil {
		return nil, err
	}
	n, err := a.c.integer(col, propGet, "app.presentations", "Count")
	if err != nil {
		return nil, err
	}
	out := make([]host.Presentation, 0, n)
	for i := 1; i <= n; i++ {
		d, err := a.c.owned(col, method, "app.presentations", "Item", int32(i))
		if err != nil {
			return nil, err
		}
		out = append(out, a.c.pin(d))
	}
	return out, nil
}

func (a *application) Open(path string) (host.Presentation, error) {
	col, err := a.c.object(a.d, propGet, "app.open", "Presentations")
	if err != nil {
		return nil, err
	}
	d, err := a.c.owned(col, method, "app.open", "Open", path)
	if err != nil {
		return nil, err
	}
	return a.c.pin(d), nil
}

func (a *application) Create() (host.Presentation, error) {
	col, err := a.c.object(a.d, propGet, "app.create", "Presentations")
	if err != nil {
		return nil, err
	}
	d, err := a.c.owned(col, method, "app.create", "Add")
	if err != nil {
		return nil, err
	}
	return a.c.pin(d), nil
}

func (a *application) ActivePresentation() (host.Presentation, error) {
	d, err := a.c.owned(a.d, propGet, "app.active_presentation", "ActivePresentation")
	if err != nil {
		return nil, err
	}
	return a.c.pin(d), nil
}

func (a *application) ActiveSelection() (host.Selection, error) {
	win, err := a.c.object(a.d, propGet, "app.active_selection", "ActiveWindow")
	if err != nil {
		return nil, err
	}
	sel, err := a.c.object(win, propGet, "app.active_selection", "Selection")
	if err != nil {
		return nil, err
	}
	return &selection{c: a.c, win: win, d: sel}, nil
}

type presentation struct {
	c  *Connector
	d  *ole.IDispatch
	id uintptr
}

// Identity is nil once the wrapper is released, so a stale handle never
// matches a new document that reuses the same address.
func (p *presentation) Identity() any {
	if p.d == nil {
		return nil
	}
	return p.id
}

func (p *presentation) release() {
	if p.d != nil {
		p.d.Release()
		p.d = nil
	}
}

func (p *presentation) FullName() (string, error) {
	return p.c.str(p.d, "presentation.full_name", "FullName")
}

func (p *presentation) Saved() (bool, error) {
	return p.c.tristate(p.d, "presentation.saved", "Saved")
}

func (p *presentation) Save() error { return p.c.do(p.d, "presentation.save", "Save") }

func (p *presentation) SaveAs(path string) error {
	return p.c.do(p.d, "presentation.save_as", "SaveAs", path)
}

// SaveCopyAs prefers SaveCopyAs2, which newer hosts expose with better
// handling of read-only sources.
func (p *presentation) SaveCopyAs(path string) error {
	if err := p.c.do(p.d, "presentation.save_copy_as", "SaveCopyAs2", path); err == nil {
		return nil
	}
	return p.c.do(p.d, "presentation.save_copy_as", "SaveCopyAs", path)
}

func (p *presentation) Close() error {
	if err := p.c.do(p.d, "presentation.close", "Close"); err != nil {
		return err
	}
	p.c.unpin(p)
	return nil
}

func (p *presentation) Slides() host.Slides { return &slides{c: p.c, pres: p} }

func (p *presentation) PageSize() (float64, float64, error) {
	const op = "presentation.page_setup"
	ps, err := p.c.object(p.d, propGet, op, "PageSetup")
	if err != nil {
		return 0, 0, err
	}
	w, err := p.c.float(ps, op, "SlideWidth")
	if err != nil {
		return 0, 0, err
	}
	h, err := p.c.float(ps, op, "SlideHeight")
	if err != nil {
		return 0, 0, err
	}
	return w, h, nil
}

func (p *presentation) Sections() ([]host.Section, error) {
	const op = "presentation.sections"
	sp, err := p.c.object(p.d, propGet, op, "SectionProperties")
	if err != nil {
		return nil, err
	}
	n, err := p.c.integer(sp, propGet, op, "Count")
	if err != nil {
		return nil, err
	}
	var out []host.Section
	for i := 1; i <= n; i++ {
		idx := int32(i)
		s := host.Section{}
		name, err := p.c.value(sp, method, op, "Name", idx)
		if err != nil {
			continue
		}
		s.Name, _ = name.(string)
		if s.FirstSlide, err = p.c.integer(sp, method, op, "FirstSlide", idx); err != nil {
			continue
		}
		if s.SlideCount, err = p.c.integer(sp, method, op, "SlidesCount", idx); err != nil {
			continue
		}
		if id, err := p.c.value(sp, method, op, "SectionID", idx); err == nil {
			s.ID, _ = id.(string)
		}
		out = append(out, s)
	}
	return out, nil
}

type slides struct {
	c    *Connector
	pres *presentation
}

func (s *slides) col(op string) (*ole.IDispatch, error) {
	return s.c.object(s.pres.d, propGet, op, "Slides")
}

func (s *slides) Count() (int, error) {
	col, err := s.col("slides.count")
	if err != nil {
		return 0, err
	}
	return s.c.integer(col, propGet, "slides.count", "Count")
}

func (s *slides) Item(pos int) (host.Slide, error) {
	col, err := s.col("slides.item")
	if err != nil {
		return nil, err
	}
	d, err := s.c.object(col, method, "slides.item", "Item", int32(pos))
	if err != nil {
		return nil, err
	}
	return &slide{c: s.c, d: d}, nil
}

func (s *slides) Add(pos int, layout int) (host.Slide, error) {
	col, err := s.col("slides.add")
	if err != nil {
		return nil, err
	}
	d, err := s.c.object(col, method, "slides.add", "Add", int32(pos), int32(layout))
	if err != nil {
		return nil, err
	}
	return &slide{c: s.c, d: d}, nil
}

func (s *slides) Paste(pos int) error {
	col, err := s.col("slides.paste")
	if err != nil {
		return err
	}
	_, err = s.c.object(col, method, "slides.paste", "Paste", int32(pos))
	return err
}

type slide struct {
	c *Connector
	d *ole.IDispatch
}

type slideKey struct{ id int }

func (s *slide) Identity() any {
	id, err := s.c.integer(s.d, propGet, "slide.id", "SlideID")
	if err != nil {
		return identity(s.d)
	}
	return slideKey{id}
}

func (s *slide) Index() (int, error) {
	return s.c.integer(s.d, propGet, "slide.index", "SlideIndex")
}

func (s *slide) Shapes() host.Shapes { return &shapes{c: s.c, slide: s} }

func (s *slide) Duplicate() (host.Slide, error) {
	rng, err := s.c.object(s.d, method, "slide.duplicate", "Duplicate")
	if err != nil {
		return nil, err
	}
	d, err := s.c.object(rng, method, "slide.duplicate", "Item", int32(1))
	if err != nil {
		return nil, err
	}
	return &slide{c: s.c, d: d}, nil
}

func (s *slide) MoveTo(pos int) error {
	return s.c.do(s.d, "slide.move_to", "MoveTo", int32(pos))
}

func (s *slide) Copy() error   { return s.c.do(s.d, "slide.copy", "Copy") }
func (s *slide) Delete() error { return s.c.do(s.d, "slide.delete", "Delete") }

func (s *slide) Export(path, filter string, width, height int) error {
	if width <= 0 || height <= 0 {
		return &host.HostError{Op: "slide.export", Err: errors.New("export size must be positive")}
	}
	return s.c.do(s.d, "slide.export", "Export", path, filter, int32(width), int32(height))
}
