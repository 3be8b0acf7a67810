// Package host defines the contract deckhand expects from a presentation
// application. Drivers (comhost, memhost) implement it; the deck package
// only ever talks to these interfaces.
//
// All positions are 1-based and reflect the host's state at the moment of
// the call. Nothing here caches counts or positions.
package host

import "fmt"

// Connector attaches to (or starts) the host application. It is the
// process-scoped context object: one per server, created at startup and
// closed at shutdown.
type Connector interface {
	Instance() (App, error)
	Close() error
}

// Sweeper is implemented by drivers that hold native references created
// while serving a call. The dispatcher calls Sweep after every call.
type Sweeper interface {
	Sweep()
}

// App is a running presentation application.
type App interface {
	Presentations() ([]Presentation, error)
	Open(path string) (Presentation, error)
	Create() (Presentation, error)
	ActivePresentation() (Presentation, error)
	ActiveSelection() (Selection, error)
}

// Presentation is a live document owned by the host.
type Presentation interface {
	Identifiable
	FullName() (string, error)
	Saved() (bool, error)
	Save() error
	SaveAs(path string) error
	SaveCopyAs(path string) error
	Close() error
	Slides() Slides
	PageSize() (width, height float64, err error)
	Sections() ([]Section, error)
}

// Slides is a presentation's ordered slide sequence.
type Slides interface {
	Count() (int, error)
	Item(pos int) (Slide, error)
	// Add inserts a new slide with the given layout so that it ends up at pos.
	Add(pos int, layout int) (Slide, error)
	// Paste inserts the clipboard slide so that it ends up at pos. pos may be
	// Count()+1 to append.
	Paste(pos int) error
}

// Slide is one slide.
type Slide interface {
	Identifiable
	Index() (int, error)
	Shapes() Shapes
	// Duplicate places a copy immediately after the receiver and returns it.
	Duplicate() (Slide, error)
	// MoveTo relocates the slide so that its index becomes pos.
	MoveTo(pos int) error
	Copy() error
	Delete() error
	Export(path, filter string, width, height int) error
}

// Shapes is a slide's ordered shape sequence.
type Shapes interface {
	Count() (int, error)
	Item(pos int) (Shape, error)
	AddTextbox(orientation int, left, top, width, height float64) (Shape, error)
	// Paste appends the clipboard shape as the last shape.
	Paste() error
}

// Shape is any drawable on a slide. Text capabilities are exposed through
// the optional ModernText and LegacyText interfaces.
type Shape interface {
	Identifiable
	Name() (string, error)
	Type() (ShapeType, error)
	// PlaceholderType fails for shapes that are not placeholders.
	PlaceholderType() (PlaceholderType, error)
	Bounds() (Rect, error)
	SetLeft(v float64) error
	SetTop(v float64) error
	SetWidth(v float64) error
	SetHeight(v float64) error
	Copy() error
	// GroupItems fails for shapes that are not groups.
	GroupItems() ([]Shape, error)
}

// ModernText is implemented by shapes that may expose the newer text frame.
type ModernText interface {
	TextFrame2() (TextFrame, error)
}

// LegacyText is implemented by shapes that may expose the original text frame.
type LegacyText interface {
	TextFrame() (TextFrame, error)
}

// TextFrame is the common surface of both text frame generations.
type TextFrame interface {
	HasText() (bool, error)
	Text() (string, error)
	SetText(text string) error
	Font() (Font, error)
	SetFontSize(size float64) error
	SetFontName(name string) error
	SetBold(bold bool) error
}

// Selection is the active window's selection.
type Selection interface {
	Kind() (SelectionKind, error)
	// Slide is the slide shown in the active view.
	Slide() (Slide, error)
	// Shapes is the selected shape range (SelectionShapes).
	Shapes() ([]Shape, error)
	// TextRange returns the selected text and the shape that holds it
	// (SelectionText).
	TextRange() (string, Shape, error)
}

// Identifiable exposes a comparable identity for reference equality.
type Identifiable interface {
	Identity() any
}

// SameObject reports whether a and b refer to the same host object.
func SameObject(a, b Identifiable) bool {
	if a == nil || b == nil {
		return false
	}
	ia, ib := a.Identity(), b.Identity()
	return ia != nil && ia == ib
}

// Rect is a shape's position and size in points.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Font holds the font properties of a text range.
type Font struct {
	Name string  `json:"name"`
	Size float64 `json:"size"`
	Bold bool    `json:"bold"`
}

// Section is a named contiguous slide range as reported by the host.
type Section struct {
	ID         string
	Name       string
	FirstSlide int
	SlideCount int
}

// SelectionKind mirrors PpSelectionType.
type SelectionKind int

const (
	SelectionNone   SelectionKind = 0
	SelectionSlides SelectionKind = 1
	SelectionShapes SelectionKind = 2
	SelectionText   SelectionKind = 3
)

// Text orientation for AddTextbox.
const OrientationHorizontal = 1

// Tri-state values used by the host for boolean properties.
const (
	TriStateTrue  = -1
	TriStateFalse = 0
)

// Layout values for Slides.Add.
const (
	LayoutTitle      = 1
	LayoutText       = 2
	LayoutTwoColumns = 3
	LayoutBlank      = 12
)

// HostError is returned by drivers when the host application rejects a
// call. Drivers may return other errors; deck treats every driver error as
// a host fault.
type HostError struct {
	Op  string
	Err error
}

func (e *HostError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e *HostError) Unwrap() error { return e.Err }
