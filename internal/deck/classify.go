package deck

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mohammad-safakhou/deckhand/internal/host"
)

// Category is the semantic role inferred for a shape.
type Category string

const (
	CategoryTitle       Category = "title"
	CategoryPlaceholder Category = "placeholder"
	CategoryTextBox     Category = "text_box"
	CategoryGroup       Category = "group"
	CategoryPicture     Category = "picture"
	CategoryIcon        Category = "icon"
	CategoryTable       Category = "table"
	CategoryChart       Category = "chart"
	CategoryMedia       Category = "media"
	CategoryOther       Category = "other"
)

// UnknownType is reported when the host refuses to tell a shape's type.
const UnknownType host.ShapeType = -1

// Classification is derived from a shape on every query and never cached.
type Classification struct {
	Name        string
	Type        host.ShapeType
	TypeName    string
	Category    Category
	TextCapable bool
	Text        string
	Children    int
}

// Classify inspects sh. It never fails: a property the host refuses to
// report falls back to its zero value.
func Classify(sh host.Shape) Classification {
	c := Classification{Name: "Unnamed", Type: UnknownType}
	if name, err := sh.Name(); err == nil {
		c.Name = name
	}
	if t, err := sh.Type(); err == nil {
		c.Type = t
	}
	c.TypeName = c.Type.String()
	c.Text, _ = ReadText(sh)
	c.TextCapable = hasContent(c.Text) || c.Type == host.ShapeTextBox
	c.Category = categorize(sh, c.Type, c.TextCapable)
	if c.Type == host.ShapeGroup {
		if items, err := sh.GroupItems(); err == nil {
			c.Children = len(items)
		}
	}
	return c
}

func categorize(sh host.Shape, t host.ShapeType, textCapable bool) Category {
	switch t {
	case host.ShapePlaceholder:
		if isTitle(sh) {
			return CategoryTitle
		}
		return CategoryPlaceholder
	case host.ShapeTextBox:
		return CategoryTextBox
	case host.ShapeGroup:
		return CategoryGroup
	case host.ShapePicture, host.ShapeLinkedPicture:
		return CategoryPicture
	case host.ShapeAutoShape, host.ShapeFreeform, host.ShapeGraphic, host.ShapeLinkedGraphic:
		// Shapes carrying text are layout boxes, not icons.
		if textCapable {
			return CategoryOther
		}
		return CategoryIcon
	case host.ShapeTable:
		return CategoryTable
	case host.ShapeChart:
		return CategoryChart
	case host.ShapeMedia, host.ShapeWebVideo:
		return CategoryMedia
	default:
		return CategoryOther
	}
}

// isTitle reports whether sh is a placeholder of a title sub-type. Faults
// answer false.
func isTitle(sh host.Shape) bool {
	t, err := sh.Type()
	if err != nil || t != host.ShapePlaceholder {
		return false
	}
	pt, err := sh.PlaceholderType()
	return err == nil && pt.IsTitle()
}

func hasContent(s string) bool { return strings.TrimSpace(s) != "" }

// ReadText extracts a shape's text. The newer text frame wins when it
// reports text; the legacy frame is used next and is trusted even when it
// cannot say whether it has text. Groups report nothing. ok is false when
// no step produced a readable frame.
func ReadText(sh host.Shape) (text string, ok bool) {
	if m, isModern := sh.(host.ModernText); isModern {
		if tf, err := m.TextFrame2(); err == nil {
			if has, err := tf.HasText(); err == nil && has {
				if s, err := tf.Text(); err == nil && hasContent(s) {
					return s, true
				}
			}
		}
	}
	if l, isLegacy := sh.(host.LegacyText); isLegacy {
		if tf, err := l.TextFrame(); err == nil {
			if s, err := tf.Text(); err == nil {
				return s, true
			}
		}
	}
	return "", false
}

// textWriter applies one change to a text frame.
type textWriter func(tf host.TextFrame) error

// writeText finds a frame for apply: the newer frame first (which, when
// requireText is set, must already hold text), then the legacy frame.
// Groups have no frame of their own; the first item that accepts the change
// is written instead. via names the frame that was written.
func writeText(sh host.Shape, requireText bool, apply textWriter) (string, error) {
	if t, err := sh.Type(); err == nil && t == host.ShapeGroup {
		return writeGroup(sh, requireText, apply)
	}
	var faults []error
	if m, ok := sh.(host.ModernText); ok {
		tf, err := m.TextFrame2()
		if err == nil && requireText {
			var has bool
			if has, err = tf.HasText(); err == nil && !has {
				tf = nil
			}
		}
		if err == nil && tf != nil {
			err = apply(tf)
			if err == nil {
				return "text_frame2", nil
			}
		}
		if err != nil {
			faults = append(faults, err)
		}
	}
	if l, ok := sh.(host.LegacyText); ok {
		tf, err := l.TextFrame()
		if err == nil {
			err = apply(tf)
		}
		if err == nil {
			return "text_frame", nil
		}
		faults = append(faults, err)
	}
	if len(faults) > 0 {
		return "", hostFault(errors.Join(faults...))
	}
	return "", errorf(KindUnsupported, "shape does not contain editable text")
}

func writeGroup(sh host.Shape, requireText bool, apply textWriter) (string, error) {
	items, err := sh.GroupItems()
	if err != nil {
		return "", hostFault(err)
	}
	var faults []error
	for i, item := range items {
		via, err := writeText(item, requireText, apply)
		if err == nil {
			return fmt.Sprintf("group_item_%d.%s", i+1, via), nil
		}
		if !errors.Is(err, ErrUnsupported) {
			faults = append(faults, err)
		}
	}
	if len(faults) > 0 {
		return "", hostFault(errors.Join(faults...))
	}
	return "", errorf(KindUnsupported, "group contains no editable text")
}

// WriteText replaces the text of sh.
func WriteText(sh host.Shape, text string) (string, error) {
	return writeText(sh, true, func(tf host.TextFrame) error { return tf.SetText(text) })
}

// SetFontSize sets the font size of all text in sh.
func SetFontSize(sh host.Shape, size float64) (string, error) {
	if size <= 0 {
		return "", errorf(KindOutOfRange, "invalid font size %v: must be positive", size)
	}
	return writeText(sh, false, func(tf host.TextFrame) error { return tf.SetFontSize(size) })
}

// SetFontName sets the font family of all text in sh.
func SetFontName(sh host.Shape, name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", errorf(KindInvalidFormat, "font name is empty")
	}
	return writeText(sh, false, func(tf host.TextFrame) error { return tf.SetFontName(name) })
}

// FontOf reads the font of the first readable frame, newer frame first.
func FontOf(sh host.Shape) (host.Font, bool) {
	if m, ok := sh.(host.ModernText); ok {
		if tf, err := m.TextFrame2(); err == nil {
			if f, err := tf.Font(); err == nil {
				return f, true
			}
		}
	}
	if l, ok := sh.(host.LegacyText); ok {
		if tf, err := l.TextFrame(); err == nil {
			if f, err := tf.Font(); err == nil {
				return f, true
			}
		}
	}
	return host.Font{}, false
}
