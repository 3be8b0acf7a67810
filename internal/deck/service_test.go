package deck

import (
	"context"
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/mohammad-safakhou/deckhand/internal/host"
	"github.com/mohammad-safakhou/deckhand/internal/host/memhost"
	"github.com/mohammad-safakhou/deckhand/internal/search"
)

func TestServicePresentations(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t, "a", "b")

	created, err := f.svc.Create(ctx)
	require.NoError(t, err)
	require.Equal(t, Untitled, created.Name)
	require.Zero(t, created.SlideCount)

	list, err := f.svc.Presentations(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, PresentationSummary{ID: f.handle, Name: "deck.pptx", Path: f.pres.Name, SlideCount: 2}, list[0])
	require.Equal(t, created, list[1])

	info, err := f.svc.Info(ctx, f.handle)
	require.NoError(t, err)
	require.True(t, info.IsSaved)

	_, err = f.svc.AddSlide(ctx, f.handle, host.LayoutBlank)
	require.NoError(t, err)
	info, err = f.svc.Info(ctx, f.handle)
	require.NoError(t, err)
	require.False(t, info.IsSaved)
	require.Equal(t, 3, info.SlideCount)

	_, err = f.svc.Info(ctx, "nope")
	require.ErrorIs(t, err, ErrUnknownHandle)
}

func TestServiceSaveCopyKeepsOriginalPath(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t, "a")
	target := filepath.Join(t.TempDir(), "backups", "2024", "copy.pptx")

	res, err := f.svc.SaveCopy(ctx, f.handle, target)
	require.NoError(t, err)
	require.Equal(t, SaveCopyResult{Path: target, OriginalPath: f.pres.Name}, res)
	_, err = os.Stat(target)
	require.NoError(t, err)

	info, err := f.svc.Info(ctx, f.handle)
	require.NoError(t, err)
	require.Equal(t, f.pres.Name, info.Path)

	_, err = f.svc.SaveCopy(ctx, f.handle, "")
	require.ErrorIs(t, err, ErrInvalidFormat)
}

func TestServiceSaveAs(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t, "a")
	target := filepath.Join(t.TempDir(), "renamed.pptx")

	res, err := f.svc.Save(ctx, f.handle, target)
	require.NoError(t, err)
	require.Equal(t, target, res.Path)

	res, err = f.svc.Save(ctx, f.handle, "")
	require.NoError(t, err)
	require.Equal(t, target, res.Path)
}

func TestServiceSlides(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t, "Intro", "Plan")
	f.pres.SlideAt(2).AddShape(memhost.TextBox("TextBox 2", "details"))

	slides, err := f.svc.Slides(ctx, f.handle)
	require.NoError(t, err)
	want := []SlideSummary{
		{ID: "1", Index: 1, Title: "Intro", ShapeCount: 1},
		{ID: "2", Index: 2, Title: "Plan", ShapeCount: 2},
	}
	if diff := cmp.Diff(want, slides); diff != "" {
		t.Fatalf("slides mismatch (-want +got):\n%s", diff)
	}

	added, err := f.svc.AddSlide(ctx, f.handle, host.LayoutTitle)
	require.NoError(t, err)
	require.Equal(t, SlideSummary{ID: "3", Index: 3, Title: "", ShapeCount: 2}, added)

	copied, err := f.svc.CopySlide(ctx, f.handle, 1, nil)
	require.NoError(t, err)
	require.Equal(t, SlideSummary{ID: "4", Index: 4, Title: "Intro", ShapeCount: 1}, copied)

	copied, err = f.svc.CopySlide(ctx, f.handle, "2", "0")
	require.NoError(t, err)
	require.Equal(t, 1, copied.Index)
	require.Equal(t, "Plan", copied.Title)

	moved, err := f.svc.MoveSlide(ctx, f.handle, 1, 5)
	require.NoError(t, err)
	require.Equal(t, 5, moved.NewSlideCount)

	deleted, err := f.svc.DeleteSlide(ctx, f.handle, 5)
	require.NoError(t, err)
	require.Equal(t, 4, deleted.NewSlideCount)
	require.Equal(t, []string{"Intro", "Plan", "", "Intro"}, titles(t, f.pres))
}

func TestServiceSlideTextSkipsFaults(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t, "Title")
	s := f.pres.SlideAt(1)
	s.AddShape(memhost.TextBox("Broken", "secret").WithFault("text", errBusy).WithFault("frame", errBusy))
	s.AddShape(memhost.TextBox("Blank", "   "))
	s.AddShape(memhost.NewShape("Rect", host.ShapeAutoShape, memhost.CapLegacy, "legacy"))

	got, err := f.svc.SlideText(ctx, f.handle, 1)
	require.NoError(t, err)
	want := SlideText{
		SlideID:    "1",
		SlideCount: 1,
		ShapeCount: 4,
		Content: map[string]ShapeText{
			"1": {ShapeName: "Title 1", Text: "Title"},
			"4": {ShapeName: "Rect", Text: "legacy"},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("slide text mismatch (-want +got):\n%s", diff)
	}
}

func TestServiceShapes(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t, "Title")
	s := f.pres.SlideAt(1)
	s.AddShape(memhost.Picture("Logo"))
	s.AddShape(memhost.Group("Badge", memhost.TextBox("Label", "new"), memhost.Picture("Star")))

	list, err := f.svc.ListShapes(ctx, f.handle, "1")
	require.NoError(t, err)
	require.Equal(t, 3, list.ShapeCount)
	want := []ShapeInfo{
		{ID: "1", Name: "Title 1", Type: host.ShapePlaceholder, TypeName: "msoPlaceholder", Category: CategoryTitle, HasText: true, Text: "Title"},
		{ID: "2", Name: "Logo", Type: host.ShapePicture, TypeName: "msoPicture", Category: CategoryPicture},
		{ID: "3", Name: "Badge", Type: host.ShapeGroup, TypeName: "msoGroup", Category: CategoryGroup, Children: 2},
	}
	if diff := cmp.Diff(want, list.Shapes); diff != "" {
		t.Fatalf("shapes mismatch (-want +got):\n%s", diff)
	}

	props, err := f.svc.ShapeProperties(ctx, f.handle, 1, 1)
	require.NoError(t, err)
	require.NotNil(t, props.Properties.Font)
	require.Equal(t, "Calibri", props.Properties.Font.Name)
	props, err = f.svc.ShapeProperties(ctx, f.handle, 1, 2)
	require.NoError(t, err)
	require.Nil(t, props.Properties.Font)

	pos, err := f.svc.SetShapePosition(ctx, f.handle, 1, 2, Geometry{Left: ptr(5.0), Height: ptr(80.0)})
	require.NoError(t, err)
	require.Equal(t, host.Rect{Left: 5, Top: 100, Width: 400, Height: 80}, pos.NewPosition)

	via, err := f.svc.UpdateText(ctx, f.handle, 1, 3, "updated")
	require.NoError(t, err)
	require.Equal(t, "group_item_1.text_frame2", via.Via)

	_, err = f.svc.UpdateText(ctx, f.handle, 1, 2, "x")
	require.ErrorIs(t, err, ErrUnsupported)

	via, err = f.svc.SetFontSize(ctx, f.handle, 1, 1, 40)
	require.NoError(t, err)
	require.Equal(t, "text_frame2", via.Via)
	_, err = f.svc.SetFontName(ctx, f.handle, 1, 1, "Georgia")
	require.NoError(t, err)
	require.Equal(t, host.Font{Name: "Georgia", Size: 40}, s.ShapeAt(1).Font)

	box, err := f.svc.AddTextBox(ctx, f.handle, 1, "note", host.Rect{Left: 100, Top: 100, Width: 400, Height: 200})
	require.NoError(t, err)
	require.Equal(t, "4", box.ShapeID)

	title, err := f.svc.SetSlideTitle(ctx, f.handle, 1, "Renamed")
	require.NoError(t, err)
	require.False(t, title.Created)

	f.pres.AddSlide("")
	cp, err := f.svc.CopyShape(ctx, f.handle, 1, 2, 2, nil, ptr(20.0))
	require.NoError(t, err)
	require.Equal(t, CopyShapeResult{
		NewShapeID:   "1",
		NewShapeName: "Logo",
		Position:     host.Rect{Left: 5, Top: 20, Width: 400, Height: 80},
	}, cp)
}

func TestServiceSelection(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t, "Title")
	s := f.pres.SlideAt(1)
	logo := s.AddShape(memhost.Picture("Logo"))
	stray := memhost.TextBox("Stray", "elsewhere")

	res, err := f.svc.Selection(ctx, "")
	require.NoError(t, err)
	require.Equal(t, f.handle, res.PresentationID)
	require.Equal(t, "No selection", res.Message)
	require.Empty(t, res.SelectedShapes)

	f.app.Select(s, logo, stray)
	res, err = f.svc.Selection(ctx, f.handle)
	require.NoError(t, err)
	require.Equal(t, &SlideRef{ID: "1", Index: 1}, res.Slide)
	require.Len(t, res.SelectedShapes, 2)
	require.Equal(t, "2", res.SelectedShapes[0].ShapeID)
	require.Equal(t, CategoryPicture, res.SelectedShapes[0].Category)
	require.Equal(t, unknownID, res.SelectedShapes[1].ShapeID)
	require.True(t, res.SelectedShapes[1].IsTextBox)

	f.app.SelectText(s, s.ShapeAt(1), "Tit")
	res, err = f.svc.Selection(ctx, f.handle)
	require.NoError(t, err)
	require.Len(t, res.SelectedShapes, 1)
	sel := res.SelectedShapes[0]
	require.Equal(t, "1", sel.ShapeID)
	require.Equal(t, "Title", sel.Text)
	require.NotNil(t, sel.SelectedText)
	require.Equal(t, "Tit", *sel.SelectedText)

	_, err = f.svc.Selection(ctx, "missing")
	require.ErrorIs(t, err, ErrUnknownHandle)
}

func TestServiceSelectionInOtherWindow(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t, "A")

	other := f.app.AddPresentation(filepath.Join(t.TempDir(), "other.pptx"))
	s := other.AddSlide("", memhost.Picture("OnlyInOther"))
	f.app.Activate(other)
	f.app.Select(s, s.ShapeAt(1))

	res, err := f.svc.Selection(ctx, f.handle)
	require.NoError(t, err)
	require.Equal(t, f.handle, res.PresentationID)
	require.Nil(t, res.Slide)
	require.Empty(t, res.SelectedShapes)
	require.Equal(t, notActiveMessage, res.Message)

	// Without a handle the active document is adopted and reported.
	res, err = f.svc.Selection(ctx, "")
	require.NoError(t, err)
	require.NotEqual(t, f.handle, res.PresentationID)
	require.Len(t, res.SelectedShapes, 1)
	require.Equal(t, "OnlyInOther", res.SelectedShapes[0].ShapeName)
}

func TestServiceSections(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	f.pres.AddSlide("Intro")
	f.pres.AddSlide("Intro")
	f.pres.AddSlide("Body")

	res, err := f.svc.Sections(ctx, f.handle)
	require.NoError(t, err)
	require.True(t, res.HasSections)
	require.Equal(t, 3, res.TotalSlides)
	require.Equal(t, []SectionInfo{
		{Index: 1, Name: "Intro", ID: "{section-1}", SlideRange: SlideRange{Start: 1, End: 2, Count: 2}},
		{Index: 2, Name: "Body", ID: "{section-2}", SlideRange: SlideRange{Start: 3, End: 3, Count: 1}},
	}, res.Sections)

	f.app.Fail("presentation.sections", errBusy)
	res, err = f.svc.Sections(ctx, f.handle)
	require.NoError(t, err)
	require.False(t, res.HasSections)
	require.Zero(t, res.SectionCount)
	require.Empty(t, res.Sections)
}

func TestServiceExport(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t, "a", "b")

	res, err := f.svc.Export(ctx, f.handle, 2, "", 0, 0)
	require.NoError(t, err)
	require.Equal(t, "PNG", res.ImageFormat)
	require.Equal(t, "2", res.SlideID)
	require.Equal(t, Dimensions{Width: 1920, Height: 1080, AspectRatio: 1.78, SlideSize: "960x540 points"}, res.Dimensions)
	require.True(t, strings.HasPrefix(filepath.Base(res.Path), "slide_2_"))

	res, err = f.svc.Export(ctx, f.handle, 1, "jpeg", 640, 0)
	require.NoError(t, err)
	require.Equal(t, "JPG", res.ImageFormat)
	require.Equal(t, ".jpg", filepath.Ext(res.Path))
	file, err := os.Open(res.Path)
	require.NoError(t, err)
	defer file.Close()
	cfg, err := jpeg.DecodeConfig(file)
	require.NoError(t, err)
	require.Equal(t, 640, cfg.Width)
	require.Equal(t, 360, cfg.Height)

	f.app.Fail("slide.export", errBusy)
	_, err = f.svc.Export(ctx, f.handle, 1, "bmp", 0, 0)
	require.ErrorIs(t, err, ErrInvalidFormat)
	_, err = f.svc.Export(ctx, f.handle, 9, "png", 0, 0)
	require.ErrorIs(t, err, ErrOutOfRange)
	_, err = f.svc.Export(ctx, f.handle, 1, "png", 0, 0)
	require.ErrorIs(t, err, ErrHostFault)
}

func TestServiceSearch(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t, "Quarterly revenue", "Hiring plan")
	f.pres.SlideAt(2).AddShape(memhost.TextBox("Notes", "revenue grew in the north region"))

	res, err := f.svc.Search(ctx, f.handle, "revenue", 0)
	require.NoError(t, err)
	require.Len(t, res.Hits, 2)
	got := map[string]string{}
	for _, h := range res.Hits {
		got[h.SlideID+"/"+h.ShapeID] = h.ShapeName
		require.Positive(t, h.Score)
	}
	require.Equal(t, map[string]string{"1/1": "Title 1", "2/2": "Notes"}, got)

	res, err = f.svc.Search(ctx, f.handle, "hiring", 1)
	require.NoError(t, err)
	require.Len(t, res.Hits, 1)
	require.Equal(t, "2", res.Hits[0].SlideID)

	_, err = f.svc.Search(ctx, f.handle, " ", 5)
	require.ErrorIs(t, err, ErrInvalidFormat)

	_, err = f.svc.Search(ctx, f.handle, `"revenue grew`, 5)
	require.ErrorIs(t, err, ErrInvalidFormat)
	require.ErrorIs(t, err, search.ErrQuery)
}

func TestServiceClose(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t, "a")

	res, err := f.svc.Close(ctx, f.handle, false)
	require.NoError(t, err)
	require.True(t, res.Closed)
	_, err = f.svc.Slides(ctx, f.handle)
	require.ErrorIs(t, err, ErrUnknownHandle)
}

func TestServiceConnectFailure(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	res, err := f.svc.Connect(ctx)
	require.NoError(t, err)
	require.True(t, res.Connected)

	f.app.Fail("app.presentations", errBusy)
	_, err = f.svc.Presentations(ctx)
	require.ErrorIs(t, err, ErrHostFault)
}
