package deck

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/mohammad-safakhou/deckhand/internal/host"
)

// quoteChars are stripped from both ends of string identifiers. Clients
// routinely send `"3"` or '3' where 3 was meant.
const quoteChars = "\"'`"

// ToPosition converts a caller-supplied identifier into an integer. It does
// not range-check.
func ToPosition(raw any) (int, error) {
	switch v := raw.(type) {
	case int:
		return v, nil
	case int32:
		return int(v), nil
	case int64:
		return int(v), nil
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return 0, errorf(KindInvalidFormat, "invalid identifier %v: not an integer", v)
		}
		return int(v), nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, errorf(KindInvalidFormat, "invalid identifier %q: not an integer", v.String())
		}
		return int(n), nil
	case string:
		s := strings.TrimSpace(strings.Trim(strings.TrimSpace(v), quoteChars))
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, errorf(KindInvalidFormat, "invalid identifier %q: not an integer", v)
		}
		return n, nil
	case nil:
		return 0, errorf(KindInvalidFormat, "missing identifier")
	default:
		return 0, errorf(KindInvalidFormat, "invalid identifier of type %T", raw)
	}
}

// ValidateRange checks 1 <= pos <= count.
func ValidateRange(pos, count int, what string) error {
	if pos < 1 || pos > count {
		return outOfRange(what, pos, 1, count)
	}
	return nil
}

// ValidateInsertAfter checks 0 <= pos <= count; 0 means before the first
// slide.
func ValidateInsertAfter(pos, count int) error {
	if pos < 0 || pos > count {
		return outOfRange("insert position", pos, 0, count)
	}
	return nil
}

// PositionOf finds target in shapes by identity. The count is read fresh;
// items that fault are skipped.
func PositionOf(shapes host.Shapes, target host.Identifiable) (int, error) {
	n, err := shapes.Count()
	if err != nil {
		return 0, hostFault(err)
	}
	for i := 1; i <= n; i++ {
		sh, err := shapes.Item(i)
		if err != nil {
			continue
		}
		if host.SameObject(sh, target) {
			return i, nil
		}
	}
	return 0, errorf(KindNotFound, "shape is not on this slide")
}

// slideAt resolves raw against the live slide count.
func slideAt(p host.Presentation, raw any, what string) (host.Slide, int, error) {
	pos, err := ToPosition(raw)
	if err != nil {
		return nil, 0, err
	}
	slides := p.Slides()
	n, err := slides.Count()
	if err != nil {
		return nil, 0, hostFault(err)
	}
	if err := ValidateRange(pos, n, what); err != nil {
		return nil, 0, err
	}
	s, err := slides.Item(pos)
	if err != nil {
		return nil, 0, hostFault(err)
	}
	return s, pos, nil
}

// shapeAt resolves raw against the live shape count of s.
func shapeAt(s host.Slide, raw any) (host.Shape, int, error) {
	pos, err := ToPosition(raw)
	if err != nil {
		return nil, 0, err
	}
	shapes := s.Shapes()
	n, err := shapes.Count()
	if err != nil {
		return nil, 0, hostFault(err)
	}
	if err := ValidateRange(pos, n, "shape"); err != nil {
		return nil, 0, err
	}
	sh, err := shapes.Item(pos)
	if err != nil {
		return nil, 0, hostFault(err)
	}
	return sh, pos, nil
}
