package deck

import "github.com/mohammad-safakhou/deckhand/internal/host"

// UntitledSlide is the title of a slide with no text at all.
const UntitledSlide = "Untitled Slide"

// ResolveTitle infers a display title: the title placeholder's text (even
// when empty), else the first text box with text, else the first other
// shape with text. Shapes that fault are skipped.
func ResolveTitle(s host.Slide) string {
	shapes := s.Shapes()
	n, err := shapes.Count()
	if err != nil {
		return UntitledSlide
	}
	items := make([]host.Shape, 0, n)
	for i := 1; i <= n; i++ {
		if sh, err := shapes.Item(i); err == nil {
			items = append(items, sh)
		}
	}

	for _, sh := range items {
		if !isTitle(sh) {
			continue
		}
		if text, ok := titleText(sh); ok {
			return text
		}
	}
	for _, sh := range items {
		if t, err := sh.Type(); err != nil || t != host.ShapeTextBox {
			continue
		}
		if text, _ := ReadText(sh); hasContent(text) {
			return text
		}
	}
	for _, sh := range items {
		if isTitle(sh) {
			continue
		}
		if _, err := sh.Type(); err != nil {
			continue
		}
		if text, _ := ReadText(sh); hasContent(text) {
			return text
		}
	}
	return UntitledSlide
}

// titleText reads a title placeholder. Unlike ReadText, a modern frame that
// answers without fault is trusted even when it holds no text.
func titleText(sh host.Shape) (string, bool) {
	if text, ok := ReadText(sh); ok {
		return text, true
	}
	m, isModern := sh.(host.ModernText)
	if !isModern {
		return "", false
	}
	tf, err := m.TextFrame2()
	if err != nil {
		return "", false
	}
	has, err := tf.HasText()
	if err != nil {
		return "", false
	}
	if !has {
		return "", true
	}
	text, err := tf.Text()
	if err != nil {
		return "", false
	}
	return text, true
}
