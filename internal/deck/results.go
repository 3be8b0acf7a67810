package deck

import "github.com/mohammad-safakhou/deckhand/internal/host"

// Results returned by Service. Slide and shape ids are decimal positions
// rendered as strings; they are snapshots and go stale on the next edit.

type ConnectResult struct {
	Connected bool `json:"connected"`
}

type PresentationSummary struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Path       string `json:"path"`
	SlideCount int    `json:"slide_count"`
}

type PresentationInfo struct {
	PresentationSummary
	IsSaved bool `json:"is_saved"`
}

type SaveResult struct {
	Path string `json:"path"`
}

type SaveCopyResult struct {
	Path         string `json:"path"`
	OriginalPath string `json:"original_path"`
}

type CloseResult struct {
	Closed bool `json:"closed"`
}

type SlideSummary struct {
	ID         string `json:"id"`
	Index      int    `json:"index"`
	Title      string `json:"title"`
	ShapeCount int    `json:"shape_count"`
}

type SlideCountResult struct {
	NewSlideCount int `json:"new_slide_count"`
}

type ShapeText struct {
	ShapeName string `json:"shape_name"`
	Text      string `json:"text"`
}

type SlideText struct {
	SlideID    string               `json:"slide_id"`
	SlideCount int                  `json:"slide_count"`
	ShapeCount int                  `json:"shape_count"`
	Content    map[string]ShapeText `json:"content"`
}

type ShapeInfo struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Type     host.ShapeType `json:"type"`
	TypeName string         `json:"type_name"`
	Category Category       `json:"category"`
	HasText  bool           `json:"has_text"`
	Text     string         `json:"text,omitempty"`
	Children int            `json:"children,omitempty"`
}

type ShapeList struct {
	SlideID    string      `json:"slide_id"`
	ShapeCount int         `json:"shape_count"`
	Shapes     []ShapeInfo `json:"shapes"`
}

type ShapeProperties struct {
	ShapeInfo
	Position host.Rect  `json:"position"`
	Font     *host.Font `json:"font,omitempty"`
}

type ShapePropertiesResult struct {
	Properties ShapeProperties `json:"properties"`
}

// Geometry holds optional position and size changes.
type Geometry struct {
	Left, Top, Width, Height *float64
}

type PositionResult struct {
	NewPosition host.Rect `json:"new_position"`
}

type WriteResult struct {
	Via string `json:"via"`
}

type TextBoxResult struct {
	ShapeID string `json:"shape_id"`
}

type TitleResult struct {
	Created bool `json:"created"`
}

type CopyShapeResult struct {
	NewShapeID   string    `json:"new_shape_id"`
	NewShapeName string    `json:"new_shape_name"`
	Position     host.Rect `json:"position"`
}

type SlideRef struct {
	ID    string `json:"id"`
	Index int    `json:"index"`
}

type SelectedShape struct {
	ShapeID      string         `json:"shape_id"`
	ShapeName    string         `json:"shape_name"`
	ShapeType    host.ShapeType `json:"shape_type"`
	TypeName     string         `json:"shape_type_name"`
	Category     Category       `json:"category"`
	IsTextBox    bool           `json:"is_text_box"`
	Text         string         `json:"text"`
	SelectedText *string        `json:"selected_text,omitempty"`
}

type SelectionResult struct {
	PresentationID string          `json:"presentation_id"`
	Slide          *SlideRef       `json:"slide"`
	Message        string          `json:"message,omitempty"`
	SelectedShapes []SelectedShape `json:"selected_shapes"`
}

type SlideRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
	Count int `json:"count"`
}

type SectionInfo struct {
	Index      int        `json:"index"`
	Name       string     `json:"name"`
	ID         string     `json:"id"`
	SlideRange SlideRange `json:"slide_range"`
}

type SectionsResult struct {
	TotalSlides  int           `json:"total_slides"`
	HasSections  bool          `json:"has_sections"`
	SectionCount int           `json:"section_count"`
	Sections     []SectionInfo `json:"sections"`
}

type Dimensions struct {
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	AspectRatio float64 `json:"aspect_ratio"`
	SlideSize   string  `json:"slide_size"`
}

type ExportResult struct {
	Path        string     `json:"path"`
	SlideID     string     `json:"slide_id"`
	ImageFormat string     `json:"image_format"`
	Dimensions  Dimensions `json:"dimensions"`
}

type SearchHit struct {
	SlideID   string  `json:"slide_id"`
	ShapeID   string  `json:"shape_id"`
	ShapeName string  `json:"shape_name"`
	Text      string  `json:"text"`
	Score     float64 `json:"score"`
}

type SearchResult struct {
	Hits []SearchHit `json:"hits"`
}
