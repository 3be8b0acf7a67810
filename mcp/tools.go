package mcp

// ToolDesc describes a single MCP tool, including input schema.
type ToolDesc struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	InputSchema map[string]any   `json:"inputSchema"`
	Annotations *toolAnnotations `json:"annotations,omitempty"`
}

// Identifiers are 1-based positions. Clients send them as numbers or as
// strings, sometimes quoted.
var (
	presentationID = map[string]any{"type": "string", "description": "Presentation handle returned by open/create/get_presentations."}
	slideID        = map[string]any{"type": []string{"integer", "string"}, "description": "1-based slide position."}
	shapeID        = map[string]any{"type": []string{"integer", "string"}, "description": "1-based shape position on the slide."}
	number         = map[string]any{"type": "number"}
)

func object(props map[string]any, required ...string) map[string]any {
	s := map[string]any{"type": "object", "properties": props}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

func boolPtr(v bool) *bool { return &v }

var (
	readOnly    = &toolAnnotations{ReadOnlyHint: boolPtr(true), OpenWorldHint: boolPtr(false)}
	mutating    = &toolAnnotations{ReadOnlyHint: boolPtr(false), DestructiveHint: boolPtr(false), OpenWorldHint: boolPtr(false)}
	idempotent  = &toolAnnotations{ReadOnlyHint: boolPtr(false), DestructiveHint: boolPtr(false), IdempotentHint: boolPtr(true), OpenWorldHint: boolPtr(false)}
	destructive = &toolAnnotations{ReadOnlyHint: boolPtr(false), DestructiveHint: boolPtr(true), OpenWorldHint: boolPtr(false)}
)

// initTools defines schemas and descriptions surfaced to MCP clients.
func (srv *Server) initTools() {
	srv.tools = []ToolDesc{
		{
			Name:        "initialize_powerpoint",
			Description: "Attach to a running PowerPoint instance, starting one if needed.",
			InputSchema: object(map[string]any{}),
			Annotations: idempotent,
		},
		{
			Name:        "get_presentations",
			Description: "List every open presentation with its handle, name, path and slide count.",
			InputSchema: object(map[string]any{}),
			Annotations: readOnly,
		},
		{
			Name:        "open_presentation",
			Description: "Open a presentation file and return its handle.",
			InputSchema: object(map[string]any{
				"path": map[string]any{"type": "string"},
			}, "path"),
			Annotations: mutating,
		},
		{
			Name:        "create_presentation",
			Description: "Create an empty presentation and return its handle.",
			InputSchema: object(map[string]any{}),
			Annotations: mutating,
		},
		{
			Name:        "get_presentation_info",
			Description: "Describe one presentation, including whether it has unsaved changes.",
			InputSchema: object(map[string]any{
				"presentation_id": presentationID,
			}, "presentation_id"),
			Annotations: readOnly,
		},
		{
			Name:        "save_presentation",
			Description: "Save a presentation in place, or to path when given.",
			InputSchema: object(map[string]any{
				"presentation_id": presentationID,
				"path":            map[string]any{"type": "string"},
			}, "presentation_id"),
			Annotations: idempotent,
		},
		{
			Name:        "save_copy",
			Description: "Write a copy of a presentation to path without changing the open document.",
			InputSchema: object(map[string]any{
				"presentation_id": presentationID,
				"path":            map[string]any{"type": "string"},
			}, "presentation_id", "path"),
			Annotations: idempotent,
		},
		{
			Name:        "close_presentation",
			Description: "Close a presentation, saving it first unless save is false. The handle is retired.",
			InputSchema: object(map[string]any{
				"presentation_id": presentationID,
				"save":            map[string]any{"type": "boolean", "default": true},
			}, "presentation_id"),
			Annotations: destructive,
		},
		{
			Name:        "get_slides",
			Description: "List the slides of a presentation with their titles and shape counts.",
			InputSchema: object(map[string]any{
				"presentation_id": presentationID,
			}, "presentation_id"),
			Annotations: readOnly,
		},
		{
			Name:        "add_slide",
			Description: "Append a slide using a layout (1 = title slide, 2 = title and content, ...).",
			InputSchema: object(map[string]any{
				"presentation_id": presentationID,
				"layout_type":     map[string]any{"type": "integer", "minimum": 1, "default": 1},
			}, "presentation_id"),
			Annotations: mutating,
		},
		{
			Name:        "delete_slide",
			Description: "Delete a slide. Later slides shift down by one.",
			InputSchema: object(map[string]any{
				"presentation_id": presentationID,
				"slide_id":        slideID,
			}, "presentation_id", "slide_id"),
			Annotations: destructive,
		},
		{
			Name:        "move_slide",
			Description: "Move a slide so that it ends up at new_position.",
			InputSchema: object(map[string]any{
				"presentation_id": presentationID,
				"slide_id":        slideID,
				"new_position":    slideID,
			}, "presentation_id", "slide_id", "new_position"),
			Annotations: mutating,
		},
		{
			Name:        "copy_slide",
			Description: "Duplicate a slide. The copy is placed after insert_after (0 = first) or appended when omitted.",
			InputSchema: object(map[string]any{
				"presentation_id": presentationID,
				"slide_id":        slideID,
				"insert_after":    map[string]any{"type": []string{"integer", "string"}, "minimum": 0},
			}, "presentation_id", "slide_id"),
			Annotations: mutating,
		},
		{
			Name:        "get_slide_text",
			Description: "Return the non-empty text of every shape on a slide keyed by shape position.",
			InputSchema: object(map[string]any{
				"presentation_id": presentationID,
				"slide_id":        slideID,
			}, "presentation_id", "slide_id"),
			Annotations: readOnly,
		},
		{
			Name:        "list_all_shapes_in_slide",
			Description: "List the shapes on a slide with their type, category and text. Groups include their children.",
			InputSchema: object(map[string]any{
				"presentation_id": presentationID,
				"slide_id":        slideID,
			}, "presentation_id", "slide_id"),
			Annotations: readOnly,
		},
		{
			Name:        "get_shape_properties",
			Description: "Describe one shape, including its position and font.",
			InputSchema: object(map[string]any{
				"presentation_id": presentationID,
				"slide_id":        slideID,
				"shape_id":        shapeID,
			}, "presentation_id", "slide_id", "shape_id"),
			Annotations: readOnly,
		},
		{
			Name:        "set_shape_position",
			Description: "Change any of a shape's left, top, width and height (points).",
			InputSchema: object(map[string]any{
				"presentation_id": presentationID,
				"slide_id":        slideID,
				"shape_id":        shapeID,
				"left":            number,
				"top":             number,
				"width":           number,
				"height":          number,
			}, "presentation_id", "slide_id", "shape_id"),
			Annotations: idempotent,
		},
		{
			Name:        "update_text",
			Description: "Replace the text of a shape. Groups write to their first text-bearing child.",
			InputSchema: object(map[string]any{
				"presentation_id": presentationID,
				"slide_id":        slideID,
				"shape_id":        shapeID,
				"text":            map[string]any{"type": "string"},
			}, "presentation_id", "slide_id", "shape_id", "text"),
			Annotations: idempotent,
		},
		{
			Name:        "set_text_font_size",
			Description: "Set the font size of a shape's text.",
			InputSchema: object(map[string]any{
				"presentation_id": presentationID,
				"slide_id":        slideID,
				"shape_id":        shapeID,
				"font_size":       map[string]any{"type": "number", "exclusiveMinimum": 0},
			}, "presentation_id", "slide_id", "shape_id", "font_size"),
			Annotations: idempotent,
		},
		{
			Name:        "set_text_font_name",
			Description: "Set the font family of a shape's text.",
			InputSchema: object(map[string]any{
				"presentation_id": presentationID,
				"slide_id":        slideID,
				"shape_id":        shapeID,
				"font_name":       map[string]any{"type": "string"},
			}, "presentation_id", "slide_id", "shape_id", "font_name"),
			Annotations: idempotent,
		},
		{
			Name:        "add_text_box",
			Description: "Add a text box to a slide.",
			InputSchema: object(map[string]any{
				"presentation_id": presentationID,
				"slide_id":        slideID,
				"text":            map[string]any{"type": "string"},
				"left":            map[string]any{"type": "number", "default": 100},
				"top":             map[string]any{"type": "number", "default": 100},
				"width":           map[string]any{"type": "number", "default": 400},
				"height":          map[string]any{"type": "number", "default": 200},
			}, "presentation_id", "slide_id", "text"),
			Annotations: mutating,
		},
		{
			Name:        "set_slide_title",
			Description: "Set a slide's title, creating a title box when the slide has none.",
			InputSchema: object(map[string]any{
				"presentation_id": presentationID,
				"slide_id":        slideID,
				"title":           map[string]any{"type": "string"},
			}, "presentation_id", "slide_id", "title"),
			Annotations: idempotent,
		},
		{
			Name:        "copy_shape",
			Description: "Copy a shape onto another (or the same) slide, optionally moving the copy.",
			InputSchema: object(map[string]any{
				"presentation_id": presentationID,
				"source_slide_id": slideID,
				"source_shape_id": shapeID,
				"target_slide_id": slideID,
				"left":            number,
				"top":             number,
			}, "presentation_id", "source_slide_id", "source_shape_id", "target_slide_id"),
			Annotations: mutating,
		},
		{
			Name:        "get_selected_shapes",
			Description: "Describe the current selection in the PowerPoint window. Uses the active presentation when presentation_id is omitted.",
			InputSchema: object(map[string]any{
				"presentation_id": presentationID,
			}),
			Annotations: readOnly,
		},
		{
			Name:        "get_presentation_sections",
			Description: "List a presentation's sections with the slide range of each.",
			InputSchema: object(map[string]any{
				"presentation_id": presentationID,
			}, "presentation_id"),
			Annotations: readOnly,
		},
		{
			Name:        "export_slide_as_image",
			Description: "Render a slide to an image file. Missing dimensions are derived from the slide's aspect ratio.",
			InputSchema: object(map[string]any{
				"presentation_id": presentationID,
				"slide_id":        slideID,
				"image_format":    map[string]any{"type": "string", "description": "PNG or JPG, any case.", "default": "PNG"},
				"width":           map[string]any{"type": "integer", "minimum": 1},
				"height":          map[string]any{"type": "integer", "minimum": 1},
			}, "presentation_id", "slide_id"),
			Annotations: idempotent,
		},
		{
			Name:        "search_slide_text",
			Description: "Full-text search over the shape text of a presentation.",
			InputSchema: object(map[string]any{
				"presentation_id": presentationID,
				"query":           map[string]any{"type": "string"},
				"limit":           map[string]any{"type": "integer", "minimum": 1, "maximum": 100, "default": 10},
			}, "presentation_id", "query"),
			Annotations: readOnly,
		},
	}
	srv.byName = make(map[string]*ToolDesc, len(srv.tools))
	for i := range srv.tools {
		srv.byName[srv.tools[i].Name] = &srv.tools[i]
	}
}
