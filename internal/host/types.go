package host

import "fmt"

// ShapeType mirrors MsoShapeType.
type ShapeType int

const (
	ShapeAutoShape         ShapeType = 1
	ShapeCallout           ShapeType = 2
	ShapeChart             ShapeType = 3
	ShapeComment           ShapeType = 4
	ShapeFreeform          ShapeType = 5
	ShapeGroup             ShapeType = 6
	ShapeEmbeddedOLEObject ShapeType = 7
	ShapeFormControl       ShapeType = 8
	ShapeLine              ShapeType = 9
	ShapeLinkedOLEObject   ShapeType = 10
	ShapeLinkedPicture     ShapeType = 11
	ShapeOLEControlObject  ShapeType = 12
	ShapePicture           ShapeType = 13
	ShapePlaceholder       ShapeType = 14
	ShapeScriptAnchor      ShapeType = 15
	ShapeMixed             ShapeType = 16
	ShapeTextBox           ShapeType = 17
	ShapeMedia             ShapeType = 18
	ShapeTable             ShapeType = 19
	ShapeCanvas            ShapeType = 20
	ShapeDiagram           ShapeType = 21
	ShapeInk               ShapeType = 22
	ShapeInkComment        ShapeType = 23
	ShapeSmartArt          ShapeType = 24
	ShapeSlicer            ShapeType = 25
	ShapeWebVideo          ShapeType = 26
	ShapeContentApp        ShapeType = 27
	ShapeGraphic           ShapeType = 28
	ShapeLinkedGraphic     ShapeType = 29
	Shape3DModel           ShapeType = 30
)

var shapeTypeNames = map[ShapeType]string{
	ShapeAutoShape:         "msoAutoShape",
	ShapeCallout:           "msoCallout",
	ShapeChart:             "msoChart",
	ShapeComment:           "msoComment",
	ShapeFreeform:          "msoFreeform",
	ShapeGroup:             "msoGroup",
	ShapeEmbeddedOLEObject: "msoEmbeddedOLEObject",
	ShapeFormControl:       "msoFormControl",
	ShapeLine:              "msoLine",
	ShapeLinkedOLEObject:   "msoLinkedOLEObject",
	ShapeLinkedPicture:     "msoLinkedPicture",
	ShapeOLEControlObject:  "msoOLEControlObject",
	ShapePicture:           "msoPicture",
	ShapePlaceholder:       "msoPlaceholder",
	ShapeScriptAnchor:      "msoScriptAnchor",
	ShapeMixed:             "msoShapeTypeMixed",
	ShapeTextBox:           "msoTextBox",
	ShapeMedia:             "msoMedia",
	ShapeTable:             "msoTable",
	ShapeCanvas:            "msoCanvas",
	ShapeDiagram:           "msoDiagram",
	ShapeInk:               "msoInk",
	ShapeInkComment:        "msoInkComment",
	ShapeSmartArt:          "msoSmartArt",
	ShapeSlicer:            "msoSlicer",
	ShapeWebVideo:          "msoWebVideo",
	ShapeContentApp:        "msoContentApp",
	ShapeGraphic:           "msoGraphic",
	ShapeLinkedGraphic:     "msoLinkedGraphic",
	Shape3DModel:           "mso3DModel",
}

// String returns the mso constant name, or "Unknown Type (n)".
func (t ShapeType) String() string {
	if name, ok := shapeTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Unknown Type (%d)", int(t))
}

// PlaceholderType mirrors PpPlaceholderType.
type PlaceholderType int

const (
	PlaceholderTitle       PlaceholderType = 1
	PlaceholderBody        PlaceholderType = 2
	PlaceholderCenterTitle PlaceholderType = 3
	PlaceholderSubtitle    PlaceholderType = 4
	PlaceholderObject      PlaceholderType = 7
	PlaceholderPicture     PlaceholderType = 18
)

// IsTitle reports whether the placeholder holds a slide title.
func (p PlaceholderType) IsTitle() bool {
	return p == PlaceholderTitle || p == PlaceholderCenterTitle
}
