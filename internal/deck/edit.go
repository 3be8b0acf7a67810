package deck

import (
	"github.com/mohammad-safakhou/deckhand/internal/host"
)

// Structural edits. Every function re-reads counts from the host, validates
// before the first mutation and does not roll back when a later step
// faults: callers must re-query after a failure.

// Layout bounds accepted by AddSlide (PpSlideLayout).
const (
	minLayout = 1
	maxLayout = 36
)

// Title text box geometry used when a slide has no title placeholder.
const (
	titleBoxLeft     = 50
	titleBoxTop      = 50
	titleBoxWidth    = 600
	titleBoxHeight   = 50
	titleBoxFontSize = 44
)

// Duplicate copies the slide at slidePos, keeping its layout and design,
// and returns the copy's final position. With insertAfter the copy lands at
// insertAfter+1 (0 puts it first); without it the copy goes to the end.
func Duplicate(p host.Presentation, slideRaw any, insertAfter *int) (int, error) {
	src, slidePos, err := slideAt(p, slideRaw, "slide")
	if err != nil {
		return 0, err
	}
	count, err := p.Slides().Count()
	if err != nil {
		return 0, hostFault(err)
	}
	if insertAfter != nil {
		if err := ValidateInsertAfter(*insertAfter, count); err != nil {
			return 0, err
		}
	}

	dup, err := src.Duplicate()
	if err != nil {
		return 0, hostFault(err)
	}
	pos := slidePos + 1
	switch {
	case insertAfter != nil && *insertAfter != slidePos:
		pos = *insertAfter + 1
		if err := dup.MoveTo(pos); err != nil {
			return 0, hostFault(err)
		}
	case insertAfter == nil && pos != count+1:
		pos = count + 1
		if err := dup.MoveTo(pos); err != nil {
			return 0, hostFault(err)
		}
	}
	if idx, err := dup.Index(); err == nil {
		pos = idx
	}
	return pos, nil
}

// Delete removes the slide and returns the new slide count.
func Delete(p host.Presentation, slideRaw any) (int, error) {
	s, _, err := slideAt(p, slideRaw, "slide")
	if err != nil {
		return 0, err
	}
	if err := s.Delete(); err != nil {
		return 0, hostFault(err)
	}
	n, err := p.Slides().Count()
	if err != nil {
		return 0, hostFault(err)
	}
	return n, nil
}

// Move relocates a slide by copy, paste and delete. Moving forward pastes
// one past the target because the original still occupies its slot, then
// deletes the original at its unchanged position; moving backward pastes
// at the target, which pushes the original one slot later.
func Move(p host.Presentation, slideRaw, newRaw any) (int, error) {
	src, slidePos, err := slideAt(p, slideRaw, "slide")
	if err != nil {
		return 0, err
	}
	newPos, err := ToPosition(newRaw)
	if err != nil {
		return 0, err
	}
	slides := p.Slides()
	count, err := slides.Count()
	if err != nil {
		return 0, hostFault(err)
	}
	if err := ValidateRange(newPos, count, "position"); err != nil {
		return 0, err
	}

	if err := src.Copy(); err != nil {
		return 0, hostFault(err)
	}
	pastePos, deletePos := newPos, slidePos+1
	if newPos > slidePos {
		pastePos, deletePos = newPos+1, slidePos
	}
	if err := slides.Paste(pastePos); err != nil {
		return 0, hostFault(err)
	}
	orig, err := slides.Item(deletePos)
	if err != nil {
		return 0, hostFault(err)
	}
	if err := orig.Delete(); err != nil {
		return 0, hostFault(err)
	}
	n, err := slides.Count()
	if err != nil {
		return 0, hostFault(err)
	}
	return n, nil
}

// CopyShape copies one shape onto the target slide, where it becomes the
// last shape. left and top, when set, are applied independently.
func CopyShape(p host.Presentation, srcSlideRaw, srcShapeRaw, dstSlideRaw any, left, top *float64) (int, host.Shape, error) {
	srcSlide, _, err := slideAt(p, srcSlideRaw, "source slide")
	if err != nil {
		return 0, nil, err
	}
	dstSlide, _, err := slideAt(p, dstSlideRaw, "target slide")
	if err != nil {
		return 0, nil, err
	}
	sh, _, err := shapeAt(srcSlide, srcShapeRaw)
	if err != nil {
		return 0, nil, err
	}

	if err := sh.Copy(); err != nil {
		return 0, nil, hostFault(err)
	}
	shapes := dstSlide.Shapes()
	if err := shapes.Paste(); err != nil {
		return 0, nil, hostFault(err)
	}
	n, err := shapes.Count()
	if err != nil {
		return 0, nil, hostFault(err)
	}
	pasted, err := shapes.Item(n)
	if err != nil {
		return 0, nil, hostFault(err)
	}
	if left != nil {
		if err := pasted.SetLeft(*left); err != nil {
			return n, pasted, hostFault(err)
		}
	}
	if top != nil {
		if err := pasted.SetTop(*top); err != nil {
			return n, pasted, hostFault(err)
		}
	}
	return n, pasted, nil
}

// AddSlide appends a slide with the given layout.
func AddSlide(p host.Presentation, layout int) (int, host.Slide, error) {
	if layout < minLayout || layout > maxLayout {
		return 0, nil, outOfRange("layout", layout, minLayout, maxLayout)
	}
	slides := p.Slides()
	count, err := slides.Count()
	if err != nil {
		return 0, nil, hostFault(err)
	}
	s, err := slides.Add(count+1, layout)
	if err != nil {
		return 0, nil, hostFault(err)
	}
	return count + 1, s, nil
}

// AddTextBox adds a horizontal text box holding text and returns its shape
// position, found by identity. A position of 0 means the host no longer
// lists the new shape.
func AddTextBox(p host.Presentation, slideRaw any, text string, r host.Rect) (int, error) {
	if r.Width <= 0 || r.Height <= 0 {
		return 0, errorf(KindOutOfRange, "text box size %vx%v must be positive", r.Width, r.Height)
	}
	s, _, err := slideAt(p, slideRaw, "slide")
	if err != nil {
		return 0, err
	}
	shapes := s.Shapes()
	sh, err := shapes.AddTextbox(host.OrientationHorizontal, r.Left, r.Top, r.Width, r.Height)
	if err != nil {
		return 0, hostFault(err)
	}
	if err := setNewText(sh, text); err != nil {
		return 0, err
	}
	pos, err := PositionOf(shapes, sh)
	if err != nil {
		if KindOf(err) == KindNotFound {
			return 0, nil
		}
		return 0, err
	}
	return pos, nil
}

// SetSlideTitle writes title into the title placeholder. Slides without one
// get a bold 44pt text box at the top instead; created reports that case.
func SetSlideTitle(p host.Presentation, slideRaw any, title string) (created bool, err error) {
	s, _, err := slideAt(p, slideRaw, "slide")
	if err != nil {
		return false, err
	}
	shapes := s.Shapes()
	n, err := shapes.Count()
	if err != nil {
		return false, hostFault(err)
	}
	for i := 1; i <= n; i++ {
		sh, err := shapes.Item(i)
		if err != nil || !isTitle(sh) {
			continue
		}
		if _, err := writeText(sh, false, func(tf host.TextFrame) error { return tf.SetText(title) }); err != nil {
			return false, err
		}
		return false, nil
	}

	sh, err := shapes.AddTextbox(host.OrientationHorizontal, titleBoxLeft, titleBoxTop, titleBoxWidth, titleBoxHeight)
	if err != nil {
		return false, hostFault(err)
	}
	tf, err := newFrame(sh)
	if err != nil {
		return true, err
	}
	for _, step := range []func() error{
		func() error { return tf.SetText(title) },
		func() error { return tf.SetFontSize(titleBoxFontSize) },
		func() error { return tf.SetBold(true) },
	} {
		if err := step(); err != nil {
			return true, hostFault(err)
		}
	}
	return true, nil
}

// newFrame returns the legacy frame of a freshly added text box; the newer
// frame reports no text yet and is not needed.
func newFrame(sh host.Shape) (host.TextFrame, error) {
	if l, ok := sh.(host.LegacyText); ok {
		tf, err := l.TextFrame()
		if err != nil {
			return nil, hostFault(err)
		}
		return tf, nil
	}
	if m, ok := sh.(host.ModernText); ok {
		tf, err := m.TextFrame2()
		if err != nil {
			return nil, hostFault(err)
		}
		return tf, nil
	}
	return nil, errorf(KindUnsupported, "new text box exposes no text frame")
}

func setNewText(sh host.Shape, text string) error {
	tf, err := newFrame(sh)
	if err != nil {
		return err
	}
	if err := tf.SetText(text); err != nil {
		return hostFault(err)
	}
	return nil
}
