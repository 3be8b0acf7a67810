package mcp

import (
	"context"
	"fmt"

	"github.com/mohammad-safakhou/deckhand/internal/deck"
	"github.com/mohammad-safakhou/deckhand/internal/host"
)

// Defaults applied when optional arguments are absent.
const (
	defaultLayout      = 1
	defaultSearchLimit = 10
	maxSearchLimit     = 100
)

var defaultTextBox = host.Rect{Left: 100, Top: 100, Width: 400, Height: 200}

// callTool dispatches to handler functions. It runs on the dispatcher
// goroutine.
func (srv *Server) callTool(ctx context.Context, name string, args map[string]any) (any, error) {
	switch name {
	case "initialize_powerpoint":
		return srv.svc.Connect(ctx)
	case "get_presentations":
		return srv.svc.Presentations(ctx)
	case "open_presentation":
		return srv.tOpenPresentation(ctx, args)
	case "create_presentation":
		return srv.svc.Create(ctx)
	case "get_presentation_info":
		return srv.withHandle(args, func(h string) (any, error) { return srv.svc.Info(ctx, h) })
	case "save_presentation":
		return srv.withHandle(args, func(h string) (any, error) { return srv.svc.Save(ctx, h, str(args["path"])) })
	case "save_copy":
		return srv.tSaveCopy(ctx, args)
	case "close_presentation":
		return srv.withHandle(args, func(h string) (any, error) {
			return srv.svc.Close(ctx, h, boolOr(args["save"], true))
		})
	case "get_slides":
		return srv.withHandle(args, func(h string) (any, error) { return srv.svc.Slides(ctx, h) })
	case "add_slide":
		return srv.tAddSlide(ctx, args)
	case "delete_slide":
		return srv.tDeleteSlide(ctx, args)
	case "move_slide":
		return srv.tMoveSlide(ctx, args)
	case "copy_slide":
		return srv.tCopySlide(ctx, args)
	case "get_slide_text":
		return srv.tGetSlideText(ctx, args)
	case "list_all_shapes_in_slide":
		return srv.tListShapes(ctx, args)
	case "get_shape_properties":
		return srv.tShapeProperties(ctx, args)
	case "set_shape_position":
		return srv.tSetShapePosition(ctx, args)
	case "update_text":
		return srv.tUpdateText(ctx, args)
	case "set_text_font_size":
		return srv.tSetFontSize(ctx, args)
	case "set_text_font_name":
		return srv.tSetFontName(ctx, args)
	case "add_text_box":
		return srv.tAddTextBox(ctx, args)
	case "set_slide_title":
		return srv.tSetSlideTitle(ctx, args)
	case "copy_shape":
		return srv.tCopyShape(ctx, args)
	case "get_selected_shapes":
		return srv.svc.Selection(ctx, str(args["presentation_id"]))
	case "get_presentation_sections":
		return srv.withHandle(args, func(h string) (any, error) { return srv.svc.Sections(ctx, h) })
	case "export_slide_as_image":
		return srv.tExportSlide(ctx, args)
	case "search_slide_text":
		return srv.tSearchSlideText(ctx, args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// withHandle checks for presentation_id and hands it to fn.
func (srv *Server) withHandle(args map[string]any, fn func(handle string) (any, error)) (any, error) {
	if err := require(args, "presentation_id"); err != nil {
		return nil, err
	}
	return fn(str(args["presentation_id"]))
}

// ---------- Tool handlers ----------

func (srv *Server) tOpenPresentation(ctx context.Context, args map[string]any) (any, error) {
	if err := require(args, "path"); err != nil {
		return nil, err
	}
	return srv.svc.Open(ctx, str(args["path"]))
}

func (srv *Server) tSaveCopy(ctx context.Context, args map[string]any) (any, error) {
	if err := require(args, "presentation_id", "path"); err != nil {
		return nil, err
	}
	return srv.svc.SaveCopy(ctx, str(args["presentation_id"]), str(args["path"]))
}

// tAddSlide appends a slide. Input: presentation_id, layout_type (default 1).
func (srv *Server) tAddSlide(ctx context.Context, args map[string]any) (any, error) {
	if err := require(args, "presentation_id"); err != nil {
		return nil, err
	}
	layout, err := intArg(args, "layout_type", defaultLayout)
	if err != nil {
		return nil, err
	}
	return srv.svc.AddSlide(ctx, str(args["presentation_id"]), layout)
}

func (srv *Server) tDeleteSlide(ctx context.Context, args map[string]any) (any, error) {
	if err := require(args, "presentation_id", "slide_id"); err != nil {
		return nil, err
	}
	return srv.svc.DeleteSlide(ctx, str(args["presentation_id"]), args["slide_id"])
}

func (srv *Server) tMoveSlide(ctx context.Context, args map[string]any) (any, error) {
	if err := require(args, "presentation_id", "slide_id", "new_position"); err != nil {
		return nil, err
	}
	return srv.svc.MoveSlide(ctx, str(args["presentation_id"]), args["slide_id"], args["new_position"])
}

// tCopySlide duplicates a slide. An absent or null insert_after appends.
func (srv *Server) tCopySlide(ctx context.Context, args map[string]any) (any, error) {
	if err := require(args, "presentation_id", "slide_id"); err != nil {
		return nil, err
	}
	return srv.svc.CopySlide(ctx, str(args["presentation_id"]), args["slide_id"], args["insert_after"])
}

func (srv *Server) tGetSlideText(ctx context.Context, args map[string]any) (any, error) {
	if err := require(args, "presentation_id", "slide_id"); err != nil {
		return nil, err
	}
	return srv.svc.SlideText(ctx, str(args["presentation_id"]), args["slide_id"])
}

func (srv *Server) tListShapes(ctx context.Context, args map[string]any) (any, error) {
	if err := require(args, "presentation_id", "slide_id"); err != nil {
		return nil, err
	}
	return srv.svc.ListShapes(ctx, str(args["presentation_id"]), args["slide_id"])
}

func (srv *Server) tShapeProperties(ctx context.Context, args map[string]any) (any, error) {
	if err := require(args, "presentation_id", "slide_id", "shape_id"); err != nil {
		return nil, err
	}
	return srv.svc.ShapeProperties(ctx, str(args["presentation_id"]), args["slide_id"], args["shape_id"])
}

// tSetShapePosition changes only the geometry fields that were given.
func (srv *Server) tSetShapePosition(ctx context.Context, args map[string]any) (any, error) {
	if err := require(args, "presentation_id", "slide_id", "shape_id"); err != nil {
		return nil, err
	}
	var g deck.Geometry
	for key, dst := range map[string]**float64{"left": &g.Left, "top": &g.Top, "width": &g.Width, "height": &g.Height} {
		v, err := floatArg(args, key)
		if err != nil {
			return nil, err
		}
		*dst = v
	}
	return srv.svc.SetShapePosition(ctx, str(args["presentation_id"]), args["slide_id"], args["shape_id"], g)
}

func (srv *Server) tUpdateText(ctx context.Context, args map[string]any) (any, error) {
	if err := require(args, "presentation_id", "slide_id", "shape_id", "text"); err != nil {
		return nil, err
	}
	return srv.svc.UpdateText(ctx, str(args["presentation_id"]), args["slide_id"], args["shape_id"], str(args["text"]))
}

func (srv *Server) tSetFontSize(ctx context.Context, args map[string]any) (any, error) {
	if err := require(args, "presentation_id", "slide_id", "shape_id", "font_size"); err != nil {
		return nil, err
	}
	size, ok := asFloat(args["font_size"])
	if !ok {
		return nil, &deck.Error{Kind: deck.KindInvalidFormat, Msg: "font_size must be a number"}
	}
	return srv.svc.SetFontSize(ctx, str(args["presentation_id"]), args["slide_id"], args["shape_id"], size)
}

func (srv *Server) tSetFontName(ctx context.Context, args map[string]any) (any, error) {
	if err := require(args, "presentation_id", "slide_id", "shape_id", "font_name"); err != nil {
		return nil, err
	}
	return srv.svc.SetFontName(ctx, str(args["presentation_id"]), args["slide_id"], args["shape_id"], str(args["font_name"]))
}

// tAddTextBox adds a text box. Input: presentation_id, slide_id, text and
// optional left/top/width/height (100/100/400/200).
func (srv *Server) tAddTextBox(ctx context.Context, args map[string]any) (any, error) {
	if err := require(args, "presentation_id", "slide_id", "text"); err != nil {
		return nil, err
	}
	r := defaultTextBox
	var err error
	if r.Left, err = floatOr(args, "left", r.Left); err != nil {
		return nil, err
	}
	if r.Top, err = floatOr(args, "top", r.Top); err != nil {
		return nil, err
	}
	if r.Width, err = floatOr(args, "width", r.Width); err != nil {
		return nil, err
	}
	if r.Height, err = floatOr(args, "height", r.Height); err != nil {
		return nil, err
	}
	return srv.svc.AddTextBox(ctx, str(args["presentation_id"]), args["slide_id"], str(args["text"]), r)
}

func (srv *Server) tSetSlideTitle(ctx context.Context, args map[string]any) (any, error) {
	if err := require(args, "presentation_id", "slide_id", "title"); err != nil {
		return nil, err
	}
	return srv.svc.SetSlideTitle(ctx, str(args["presentation_id"]), args["slide_id"], str(args["title"]))
}

func (srv *Server) tCopyShape(ctx context.Context, args map[string]any) (any, error) {
	if err := require(args, "presentation_id", "source_slide_id", "source_shape_id", "target_slide_id"); err != nil {
		return nil, err
	}
	left, err := floatArg(args, "left")
	if err != nil {
		return nil, err
	}
	top, err := floatArg(args, "top")
	if err != nil {
		return nil, err
	}
	return srv.svc.CopyShape(ctx, str(args["presentation_id"]),
		args["source_slide_id"], args["source_shape_id"], args["target_slide_id"], left, top)
}

// tExportSlide renders a slide. Input: presentation_id, slide_id,
// image_format (default PNG), width and height (0 or absent = derive).
func (srv *Server) tExportSlide(ctx context.Context, args map[string]any) (any, error) {
	if err := require(args, "presentation_id", "slide_id"); err != nil {
		return nil, err
	}
	width, err := intArg(args, "width", 0)
	if err != nil {
		return nil, err
	}
	height, err := intArg(args, "height", 0)
	if err != nil {
		return nil, err
	}
	return srv.svc.Export(ctx, str(args["presentation_id"]), args["slide_id"],
		str(args["image_format"]), width, height)
}

// tSearchSlideText runs a full-text query. Input: presentation_id, query,
// limit (1-100, default 10).
func (srv *Server) tSearchSlideText(ctx context.Context, args map[string]any) (any, error) {
	if err := require(args, "presentation_id", "query"); err != nil {
		return nil, err
	}
	limit, err := intArg(args, "limit", defaultSearchLimit)
	if err != nil {
		return nil, err
	}
	if limit == 0 {
		limit = defaultSearchLimit
	}
	limit = clampInt(limit, 1, maxSearchLimit)
	return srv.svc.Search(ctx, str(args["presentation_id"]), str(args["query"]), limit)
}
