package deck

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/mohammad-safakhou/deckhand/internal/host"
	"github.com/mohammad-safakhou/deckhand/internal/search"
)

// Untitled names documents that were never saved.
const Untitled = "Untitled"

const unknownID = "unknown"

// Service implements the tool operations on top of a Registry. It is not
// safe for concurrent use: every call must come from the goroutine that
// owns the host connection.
type Service struct {
	reg     *Registry
	planner *Planner
	log     *zap.Logger
}

func NewService(reg *Registry, planner *Planner, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	if planner == nil {
		planner = NewPlanner("", DefaultExportWidth)
	}
	return &Service{reg: reg, planner: planner, log: log}
}

// Registry exposes the session registry.
func (s *Service) Registry() *Registry { return s.reg }

// Connect attaches to the host application.
func (s *Service) Connect(ctx context.Context) (ConnectResult, error) {
	if _, err := s.reg.App(); err != nil {
		return ConnectResult{}, err
	}
	return ConnectResult{Connected: true}, nil
}

func (s *Service) Presentations(ctx context.Context) ([]PresentationSummary, error) {
	entries, err := s.reg.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]PresentationSummary, 0, len(entries))
	for _, e := range entries {
		sum, err := summarize(e.Handle, e.Pres)
		if err != nil {
			s.log.Warn("skip unreadable presentation", zap.String("handle", e.Handle), zap.Error(err))
			continue
		}
		out = append(out, sum)
	}
	return out, nil
}

func (s *Service) Open(ctx context.Context, path string) (PresentationSummary, error) {
	h, p, err := s.reg.Open(ctx, path)
	if err != nil {
		return PresentationSummary{}, err
	}
	return summarize(h, p)
}

func (s *Service) Create(ctx context.Context) (PresentationSummary, error) {
	h, p, err := s.reg.Create(ctx)
	if err != nil {
		return PresentationSummary{}, err
	}
	return summarize(h, p)
}

func (s *Service) Info(ctx context.Context, handle string) (PresentationInfo, error) {
	p, err := s.reg.Resolve(handle)
	if err != nil {
		return PresentationInfo{}, err
	}
	sum, err := summarize(handle, p)
	if err != nil {
		return PresentationInfo{}, err
	}
	saved, err := p.Saved()
	if err != nil {
		return PresentationInfo{}, hostFault(err)
	}
	return PresentationInfo{PresentationSummary: sum, IsSaved: saved}, nil
}

// Save saves in place, or under path when one is given.
func (s *Service) Save(ctx context.Context, handle, path string) (SaveResult, error) {
	p, err := s.reg.Resolve(handle)
	if err != nil {
		return SaveResult{}, err
	}
	if path == "" {
		if err := p.Save(); err != nil {
			return SaveResult{}, hostFault(err)
		}
		name, err := p.FullName()
		if err != nil {
			return SaveResult{}, hostFault(err)
		}
		return SaveResult{Path: name}, nil
	}
	abs, err := prepareTarget(path)
	if err != nil {
		return SaveResult{}, err
	}
	if err := p.SaveAs(abs); err != nil {
		return SaveResult{}, hostFault(err)
	}
	return SaveResult{Path: abs}, nil
}

// SaveCopy writes a copy to path; the open document keeps its own path.
func (s *Service) SaveCopy(ctx context.Context, handle, path string) (SaveCopyResult, error) {
	p, err := s.reg.Resolve(handle)
	if err != nil {
		return SaveCopyResult{}, err
	}
	if path == "" {
		return SaveCopyResult{}, errorf(KindInvalidFormat, "path is required")
	}
	abs, err := prepareTarget(path)
	if err != nil {
		return SaveCopyResult{}, err
	}
	if err := p.SaveCopyAs(abs); err != nil {
		return SaveCopyResult{}, hostFault(err)
	}
	orig, _ := p.FullName()
	return SaveCopyResult{Path: abs, OriginalPath: orig}, nil
}

func (s *Service) Close(ctx context.Context, handle string, save bool) (CloseResult, error) {
	if err := s.reg.Close(ctx, handle, save); err != nil {
		return CloseResult{}, err
	}
	return CloseResult{Closed: true}, nil
}

// Slides summarizes every slide. Slides the host refuses to hand out are
// left out.
func (s *Service) Slides(ctx context.Context, handle string) ([]SlideSummary, error) {
	p, err := s.reg.Resolve(handle)
	if err != nil {
		return nil, err
	}
	slides := p.Slides()
	n, err := slides.Count()
	if err != nil {
		return nil, hostFault(err)
	}
	out := make([]SlideSummary, 0, n)
	for i := 1; i <= n; i++ {
		sl, err := slides.Item(i)
		if err != nil {
			s.log.Debug("skip slide", zap.Int("slide", i), zap.Error(err))
			continue
		}
		out = append(out, slideSummary(sl, i))
	}
	return out, nil
}

func (s *Service) AddSlide(ctx context.Context, handle string, layout int) (SlideSummary, error) {
	p, err := s.reg.Resolve(handle)
	if err != nil {
		return SlideSummary{}, err
	}
	pos, sl, err := AddSlide(p, layout)
	if err != nil {
		return SlideSummary{}, err
	}
	return slideSummary(sl, pos), nil
}

func (s *Service) DeleteSlide(ctx context.Context, handle string, slide any) (SlideCountResult, error) {
	p, err := s.reg.Resolve(handle)
	if err != nil {
		return SlideCountResult{}, err
	}
	n, err := Delete(p, slide)
	if err != nil {
		return SlideCountResult{}, err
	}
	return SlideCountResult{NewSlideCount: n}, nil
}

func (s *Service) MoveSlide(ctx context.Context, handle string, slide, newPos any) (SlideCountResult, error) {
	p, err := s.reg.Resolve(handle)
	if err != nil {
		return SlideCountResult{}, err
	}
	n, err := Move(p, slide, newPos)
	if err != nil {
		return SlideCountResult{}, err
	}
	return SlideCountResult{NewSlideCount: n}, nil
}

// CopySlide duplicates a slide. insertAfter may be nil to append.
func (s *Service) CopySlide(ctx context.Context, handle string, slide, insertAfter any) (SlideSummary, error) {
	p, err := s.reg.Resolve(handle)
	if err != nil {
		return SlideSummary{}, err
	}
	var after *int
	if insertAfter != nil {
		v, err := ToPosition(insertAfter)
		if err != nil {
			return SlideSummary{}, err
		}
		after = &v
	}
	pos, err := Duplicate(p, slide, after)
	if err != nil {
		return SlideSummary{}, err
	}
	sl, err := p.Slides().Item(pos)
	if err != nil {
		return SlideSummary{}, hostFault(err)
	}
	return slideSummary(sl, pos), nil
}

// SlideText collects the non-empty text of every shape on a slide.
func (s *Service) SlideText(ctx context.Context, handle string, slide any) (SlideText, error) {
	p, err := s.reg.Resolve(handle)
	if err != nil {
		return SlideText{}, err
	}
	sl, pos, err := slideAt(p, slide, "slide")
	if err != nil {
		return SlideText{}, err
	}
	count, _ := p.Slides().Count()
	shapes := sl.Shapes()
	n, err := shapes.Count()
	if err != nil {
		return SlideText{}, hostFault(err)
	}
	out := SlideText{
		SlideID:    strconv.Itoa(pos),
		SlideCount: count,
		ShapeCount: n,
		Content:    make(map[string]ShapeText),
	}
	for i := 1; i <= n; i++ {
		sh, err := shapes.Item(i)
		if err != nil {
			continue
		}
		text, _ := ReadText(sh)
		if !hasContent(text) {
			continue
		}
		name, err := sh.Name()
		if err != nil {
			name = "Unnamed"
		}
		out.Content[strconv.Itoa(i)] = ShapeText{ShapeName: name, Text: text}
	}
	return out, nil
}

func (s *Service) ListShapes(ctx context.Context, handle string, slide any) (ShapeList, error) {
	p, err := s.reg.Resolve(handle)
	if err != nil {
		return ShapeList{}, err
	}
	sl, pos, err := slideAt(p, slide, "slide")
	if err != nil {
		return ShapeList{}, err
	}
	shapes := sl.Shapes()
	n, err := shapes.Count()
	if err != nil {
		return ShapeList{}, hostFault(err)
	}
	out := ShapeList{SlideID: strconv.Itoa(pos), ShapeCount: n, Shapes: make([]ShapeInfo, 0, n)}
	for i := 1; i <= n; i++ {
		sh, err := shapes.Item(i)
		if err != nil {
			s.log.Debug("skip shape", zap.Int("slide", pos), zap.Int("shape", i), zap.Error(err))
			continue
		}
		out.Shapes = append(out.Shapes, shapeInfo(strconv.Itoa(i), Classify(sh)))
	}
	return out, nil
}

func (s *Service) ShapeProperties(ctx context.Context, handle string, slide, shape any) (ShapePropertiesResult, error) {
	sh, pos, err := s.shape(handle, slide, shape)
	if err != nil {
		return ShapePropertiesResult{}, err
	}
	r, err := sh.Bounds()
	if err != nil {
		return ShapePropertiesResult{}, hostFault(err)
	}
	c := Classify(sh)
	props := ShapeProperties{ShapeInfo: shapeInfo(strconv.Itoa(pos), c), Position: r}
	if c.TextCapable {
		if f, ok := FontOf(sh); ok {
			props.Font = &f
		}
	}
	return ShapePropertiesResult{Properties: props}, nil
}

// SetShapePosition applies the set fields of g and reports the resulting
// bounds.
func (s *Service) SetShapePosition(ctx context.Context, handle string, slide, shape any, g Geometry) (PositionResult, error) {
	sh, _, err := s.shape(handle, slide, shape)
	if err != nil {
		return PositionResult{}, err
	}
	for _, f := range []struct {
		v   *float64
		set func(float64) error
	}{
		{g.Left, sh.SetLeft},
		{g.Top, sh.SetTop},
		{g.Width, sh.SetWidth},
		{g.Height, sh.SetHeight},
	} {
		if f.v == nil {
			continue
		}
		if err := f.set(*f.v); err != nil {
			return PositionResult{}, hostFault(err)
		}
	}
	r, err := sh.Bounds()
	if err != nil {
		return PositionResult{}, hostFault(err)
	}
	return PositionResult{NewPosition: r}, nil
}

func (s *Service) UpdateText(ctx context.Context, handle string, slide, shape any, text string) (WriteResult, error) {
	sh, _, err := s.shape(handle, slide, shape)
	if err != nil {
		return WriteResult{}, err
	}
	via, err := WriteText(sh, text)
	if err != nil {
		return WriteResult{}, err
	}
	return WriteResult{Via: via}, nil
}

func (s *Service) SetFontSize(ctx context.Context, handle string, slide, shape any, size float64) (WriteResult, error) {
	sh, _, err := s.shape(handle, slide, shape)
	if err != nil {
		return WriteResult{}, err
	}
	via, err := SetFontSize(sh, size)
	if err != nil {
		return WriteResult{}, err
	}
	return WriteResult{Via: via}, nil
}

func (s *Service) SetFontName(ctx context.Context, handle string, slide, shape any, name string) (WriteResult, error) {
	sh, _, err := s.shape(handle, slide, shape)
	if err != nil {
		return WriteResult{}, err
	}
	via, err := SetFontName(sh, name)
	if err != nil {
		return WriteResult{}, err
	}
	return WriteResult{Via: via}, nil
}

func (s *Service) AddTextBox(ctx context.Context, handle string, slide any, text string, r host.Rect) (TextBoxResult, error) {
	p, err := s.reg.Resolve(handle)
	if err != nil {
		return TextBoxResult{}, err
	}
	pos, err := AddTextBox(p, slide, text, r)
	if err != nil {
		return TextBoxResult{}, err
	}
	return TextBoxResult{ShapeID: positionID(pos)}, nil
}

func (s *Service) SetSlideTitle(ctx context.Context, handle string, slide any, title string) (TitleResult, error) {
	p, err := s.reg.Resolve(handle)
	if err != nil {
		return TitleResult{}, err
	}
	created, err := SetSlideTitle(p, slide, title)
	if err != nil {
		return TitleResult{}, err
	}
	return TitleResult{Created: created}, nil
}

func (s *Service) CopyShape(ctx context.Context, handle string, srcSlide, srcShape, dstSlide any, left, top *float64) (CopyShapeResult, error) {
	p, err := s.reg.Resolve(handle)
	if err != nil {
		return CopyShapeResult{}, err
	}
	n, sh, err := CopyShape(p, srcSlide, srcShape, dstSlide, left, top)
	if err != nil {
		return CopyShapeResult{}, err
	}
	out := CopyShapeResult{NewShapeID: strconv.Itoa(n), NewShapeName: "Unnamed"}
	if name, err := sh.Name(); err == nil {
		out.NewShapeName = name
	}
	if r, err := sh.Bounds(); err == nil {
		out.Position = r
	}
	return out, nil
}

const notActiveMessage = "Presentation is not shown in the active window"

// Selection reports what is selected in the active window. With an empty
// handle the active document is adopted.
func (s *Service) Selection(ctx context.Context, handle string) (SelectionResult, error) {
	app, err := s.reg.App()
	if err != nil {
		return SelectionResult{}, err
	}
	if handle == "" {
		h, _, err := s.reg.Active(ctx)
		if err != nil {
			return SelectionResult{}, err
		}
		handle = h
	} else {
		p, err := s.reg.Resolve(handle)
		if err != nil {
			return SelectionResult{}, err
		}
		active, err := app.ActivePresentation()
		if err != nil {
			return SelectionResult{}, hostFault(err)
		}
		// The selection belongs to the active window; positions read from
		// another document would address the wrong deck.
		if !host.SameObject(active, p) {
			return SelectionResult{
				PresentationID: handle,
				SelectedShapes: []SelectedShape{},
				Message:        notActiveMessage,
			}, nil
		}
	}
	out := SelectionResult{PresentationID: handle, SelectedShapes: []SelectedShape{}}

	sel, err := app.ActiveSelection()
	if err != nil {
		return SelectionResult{}, hostFault(err)
	}
	if sel == nil {
		out.Message = "No selection"
		return out, nil
	}

	var shapes host.Shapes
	if sl, err := sel.Slide(); err == nil {
		shapes = sl.Shapes()
		if idx, err := sl.Index(); err == nil {
			out.Slide = &SlideRef{ID: strconv.Itoa(idx), Index: idx}
		}
	}
	locate := func(sh host.Shape) string {
		if shapes == nil {
			return unknownID
		}
		pos, err := PositionOf(shapes, sh)
		if err != nil {
			return unknownID
		}
		return strconv.Itoa(pos)
	}

	kind, err := sel.Kind()
	if err != nil {
		return SelectionResult{}, hostFault(err)
	}
	switch kind {
	case host.SelectionShapes:
		items, err := sel.Shapes()
		if err != nil {
			return SelectionResult{}, hostFault(err)
		}
		for _, sh := range items {
			out.SelectedShapes = append(out.SelectedShapes, selectedShape(locate(sh), Classify(sh)))
		}
	case host.SelectionText:
		text, parent, err := sel.TextRange()
		if err != nil {
			return SelectionResult{}, hostFault(err)
		}
		ss := selectedShape(locate(parent), Classify(parent))
		ss.SelectedText = &text
		out.SelectedShapes = append(out.SelectedShapes, ss)
	default:
		out.Message = "No shapes or text selected"
	}
	return out, nil
}

// Sections lists the document's sections. A host that cannot report
// sections yields an empty list rather than an error.
func (s *Service) Sections(ctx context.Context, handle string) (SectionsResult, error) {
	p, err := s.reg.Resolve(handle)
	if err != nil {
		return SectionsResult{}, err
	}
	total, err := p.Slides().Count()
	if err != nil {
		return SectionsResult{}, hostFault(err)
	}
	out := SectionsResult{TotalSlides: total, Sections: []SectionInfo{}}
	secs, err := p.Sections()
	if err != nil {
		s.log.Debug("sections unavailable", zap.String("handle", handle), zap.Error(err))
		return out, nil
	}
	for i, sec := range secs {
		end := sec.FirstSlide + sec.SlideCount - 1
		if sec.SlideCount == 0 {
			end = sec.FirstSlide
		}
		out.Sections = append(out.Sections, SectionInfo{
			Index: i + 1,
			Name:  sec.Name,
			ID:    sec.ID,
			SlideRange: SlideRange{
				Start: sec.FirstSlide,
				End:   end,
				Count: sec.SlideCount,
			},
		})
	}
	out.SectionCount = len(out.Sections)
	out.HasSections = out.SectionCount > 0
	return out, nil
}

// Export renders one slide to an image file. Width and height of 0 mean
// "not given".
func (s *Service) Export(ctx context.Context, handle string, slide any, format string, width, height int) (ExportResult, error) {
	p, err := s.reg.Resolve(handle)
	if err != nil {
		return ExportResult{}, err
	}
	f, err := ParseImageFormat(format)
	if err != nil {
		return ExportResult{}, err
	}
	sl, pos, err := slideAt(p, slide, "slide")
	if err != nil {
		return ExportResult{}, err
	}
	docW, docH, err := p.PageSize()
	if err != nil {
		return ExportResult{}, hostFault(err)
	}
	w, h, err := s.planner.Size(docW, docH, width, height)
	if err != nil {
		return ExportResult{}, err
	}
	path, err := s.planner.Path(pos, f)
	if err != nil {
		return ExportResult{}, err
	}
	if err := sl.Export(path, f.Filter, w, h); err != nil {
		return ExportResult{}, hostFault(err)
	}
	s.log.Info("slide exported", zap.String("handle", handle), zap.Int("slide", pos),
		zap.String("path", path), zap.Int("width", w), zap.Int("height", h))
	return ExportResult{
		Path:        path,
		SlideID:     strconv.Itoa(pos),
		ImageFormat: f.Name,
		Dimensions: Dimensions{
			Width:       w,
			Height:      h,
			AspectRatio: math.Round(float64(w)/float64(h)*100) / 100,
			SlideSize:   fmt.Sprintf("%.0fx%.0f points", docW, docH),
		},
	}, nil
}

// Search ranks the shapes of a document by how well their text matches
// query.
func (s *Service) Search(ctx context.Context, handle, query string, limit int) (SearchResult, error) {
	p, err := s.reg.Resolve(handle)
	if err != nil {
		return SearchResult{}, err
	}
	if strings.TrimSpace(query) == "" {
		return SearchResult{}, errorf(KindInvalidFormat, "query is empty")
	}
	docs, err := collect(p)
	if err != nil {
		return SearchResult{}, err
	}
	hits, err := search.Run(docs, query, limit)
	if errors.Is(err, search.ErrQuery) {
		return SearchResult{}, &Error{Kind: KindInvalidFormat, Msg: fmt.Sprintf("invalid query %q", query), Err: err}
	}
	if err != nil {
		return SearchResult{}, &Error{Kind: KindHostFault, Msg: "search index failed", Err: err}
	}
	out := SearchResult{Hits: make([]SearchHit, 0, len(hits))}
	for _, h := range hits {
		out.Hits = append(out.Hits, SearchHit{
			SlideID:   strconv.Itoa(h.Slide),
			ShapeID:   strconv.Itoa(h.Shape),
			ShapeName: h.ShapeName,
			Text:      h.Text,
			Score:     h.Score,
		})
	}
	return out, nil
}

func collect(p host.Presentation) ([]search.Doc, error) {
	slides := p.Slides()
	n, err := slides.Count()
	if err != nil {
		return nil, hostFault(err)
	}
	var docs []search.Doc
	for i := 1; i <= n; i++ {
		sl, err := slides.Item(i)
		if err != nil {
			continue
		}
		shapes := sl.Shapes()
		m, err := shapes.Count()
		if err != nil {
			continue
		}
		for j := 1; j <= m; j++ {
			sh, err := shapes.Item(j)
			if err != nil {
				continue
			}
			c := Classify(sh)
			if !hasContent(c.Text) {
				continue
			}
			docs = append(docs, search.Doc{Slide: i, Shape: j, ShapeName: c.Name, Text: c.Text})
		}
	}
	return docs, nil
}

func (s *Service) shape(handle string, slide, shape any) (host.Shape, int, error) {
	p, err := s.reg.Resolve(handle)
	if err != nil {
		return nil, 0, err
	}
	sl, _, err := slideAt(p, slide, "slide")
	if err != nil {
		return nil, 0, err
	}
	return shapeAt(sl, shape)
}

func summarize(handle string, p host.Presentation) (PresentationSummary, error) {
	full, err := p.FullName()
	if err != nil {
		return PresentationSummary{}, hostFault(err)
	}
	n, err := p.Slides().Count()
	if err != nil {
		return PresentationSummary{}, hostFault(err)
	}
	return PresentationSummary{ID: handle, Name: baseName(full), Path: full, SlideCount: n}, nil
}

// baseName splits on both separators: host paths may come from Windows.
func baseName(full string) string {
	if i := strings.LastIndexAny(full, `/\`); i >= 0 {
		full = full[i+1:]
	}
	if full == "" {
		return Untitled
	}
	return full
}

func slideSummary(sl host.Slide, pos int) SlideSummary {
	if idx, err := sl.Index(); err == nil {
		pos = idx
	}
	out := SlideSummary{ID: strconv.Itoa(pos), Index: pos, Title: ResolveTitle(sl)}
	if n, err := sl.Shapes().Count(); err == nil {
		out.ShapeCount = n
	}
	return out
}

func shapeInfo(id string, c Classification) ShapeInfo {
	info := ShapeInfo{
		ID:       id,
		Name:     c.Name,
		Type:     c.Type,
		TypeName: c.TypeName,
		Category: c.Category,
		HasText:  c.TextCapable,
		Children: c.Children,
	}
	if c.TextCapable {
		info.Text = c.Text
	}
	return info
}

func selectedShape(id string, c Classification) SelectedShape {
	return SelectedShape{
		ShapeID:   id,
		ShapeName: c.Name,
		ShapeType: c.Type,
		TypeName:  c.TypeName,
		Category:  c.Category,
		IsTextBox: c.Type == host.ShapeTextBox,
		Text:      c.Text,
	}
}

func positionID(pos int) string {
	if pos <= 0 {
		return unknownID
	}
	return strconv.Itoa(pos)
}

// prepareTarget makes path absolute and creates its directory.
func prepareTarget(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errorf(KindInvalidFormat, "invalid path %q: %v", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", &Error{Kind: KindHostFault, Msg: fmt.Sprintf("create directory for %s", abs), Err: err}
	}
	return abs, nil
}
