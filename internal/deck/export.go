package deck

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"
)

// DefaultExportWidth is the pixel width used when the caller gives no size.
const DefaultExportWidth = 1920

// ImageFormat is a validated export format.
type ImageFormat struct {
	Name   string // as reported back: PNG or JPG
	Filter string // host filter name
	Ext    string
}

// ParseImageFormat accepts PNG, JPG and JPEG in any case.
func ParseImageFormat(s string) (ImageFormat, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "PNG":
		return ImageFormat{Name: "PNG", Filter: "PNG", Ext: "png"}, nil
	case "JPG", "JPEG":
		return ImageFormat{Name: "JPG", Filter: "JPG", Ext: "jpg"}, nil
	default:
		return ImageFormat{}, errorf(KindInvalidFormat, "invalid image format: %s. Supported formats: PNG, JPG", s)
	}
}

// Plan computes raster dimensions that keep the document's aspect ratio.
// A zero want means "not given"; when both are given they are used as is.
func Plan(docW, docH float64, wantW, wantH int) (int, int, error) {
	return planWith(DefaultExportWidth, docW, docH, wantW, wantH)
}

func planWith(defaultW int, docW, docH float64, wantW, wantH int) (int, int, error) {
	if docW <= 0 || docH <= 0 {
		return 0, 0, errorf(KindUnsupported, "document reports page size %vx%v", docW, docH)
	}
	if wantW < 0 {
		return 0, 0, outOfRange("width", wantW, 1, math.MaxInt32)
	}
	if wantH < 0 {
		return 0, 0, outOfRange("height", wantH, 1, math.MaxInt32)
	}
	ratio := docW / docH
	switch {
	case wantW == 0 && wantH == 0:
		return defaultW, int(math.Round(float64(defaultW) / ratio)), nil
	case wantH == 0:
		return wantW, int(math.Round(float64(wantW) / ratio)), nil
	case wantW == 0:
		return int(math.Round(float64(wantH) * ratio)), wantH, nil
	default:
		return wantW, wantH, nil
	}
}

// Planner sizes exports and allocates their output paths.
type Planner struct {
	Dir          string
	DefaultWidth int

	now func() time.Time
	seq atomic.Uint64
}

func NewPlanner(dir string, defaultWidth int) *Planner {
	if defaultWidth <= 0 {
		defaultWidth = DefaultExportWidth
	}
	return &Planner{Dir: dir, DefaultWidth: defaultWidth, now: time.Now}
}

// Size is Plan with the planner's default width.
func (p *Planner) Size(docW, docH float64, wantW, wantH int) (int, int, error) {
	return planWith(p.DefaultWidth, docW, docH, wantW, wantH)
}

// Path returns a fresh path for slide n, creating the export directory.
// The sequence number keeps two exports within one second apart.
func (p *Planner) Path(n int, f ImageFormat) (string, error) {
	dir := p.Dir
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &Error{Kind: KindHostFault, Msg: fmt.Sprintf("create export dir %s", dir), Err: err}
	}
	name := fmt.Sprintf("slide_%d_%s_%d.%s", n, p.now().Format("20060102_150405"), p.seq.Add(1), f.Ext)
	return filepath.Join(dir, name), nil
}
