package comhost

import (
	"errors"
	"fmt"
	"unsafe"

	ole "github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"

	"github.com/mohammad-safakhou/deckhand/internal/host"
)

type invokeKind int

const (
	propGet invokeKind = iota
	method
)

// errReleased is reported for wrappers whose object was dropped when the
// host went away.
var errReleased = errors.New("object is no longer available")

func (c *Connector) invoke(d *ole.IDispatch, kind invokeKind, op, name string, args ...any) (*ole.VARIANT, error) {
	if d == nil {
		return nil, &host.HostError{Op: op, Err: fmt.Errorf("%s: %w", name, errReleased)}
	}
	var (
		v   *ole.VARIANT
		err error
	)
	switch kind {
	case method:
		v, err = oleutil.CallMethod(d, name, args...)
	default:
		v, err = oleutil.GetProperty(d, name, args...)
	}
	if err != nil {
		return nil, &host.HostError{Op: op, Err: fmt.Errorf("%s: %w", name, err)}
	}
	return v, nil
}

// object fetches a sub-object that is released by the next Sweep.
func (c *Connector) object(d *ole.IDispatch, kind invokeKind, op, name string, args ...any) (*ole.IDispatch, error) {
	o, err := c.owned(d, kind, op, name, args...)
	if err != nil {
		return nil, err
	}
	c.scratch = append(c.scratch, o)
	return o, nil
}

// owned fetches a sub-object the caller must release.
func (c *Connector) owned(d *ole.IDispatch, kind invokeKind, op, name string, args ...any) (*ole.IDispatch, error) {
	v, err := c.invoke(d, kind, op, name, args...)
	if err != nil {
		return nil, err
	}
	o := v.ToIDispatch()
	if o == nil {
		v.Clear()
		return nil, &host.HostError{Op: op, Err: fmt.Errorf("%s: not an object", name)}
	}
	return o, nil
}

// do calls a method and discards its result.
func (c *Connector) do(d *ole.IDispatch, op, name string, args ...any) error {
	v, err := c.invoke(d, method, op, name, args...)
	if err != nil {
		return err
	}
	v.Clear()
	return nil
}

func (c *Connector) put(d *ole.IDispatch, op, name string, value any) error {
	if _, err := oleutil.PutProperty(d, name, value); err != nil {
		return &host.HostError{Op: op, Err: fmt.Errorf("%s: %w", name, err)}
	}
	return nil
}

func (c *Connector) value(d *ole.IDispatch, kind invokeKind, op, name string, args ...any) (any, error) {
	v, err := c.invoke(d, kind, op, name, args...)
	if err != nil {
		return nil, err
	}
	defer v.Clear()
	return v.Value(), nil
}

func (c *Connector) str(d *ole.IDispatch, op, name string, args ...any) (string, error) {
	x, err := c.value(d, propGet, op, name, args...)
	if err != nil {
		return "", err
	}
	switch s := x.(type) {
	case string:
		return s, nil
	case nil:
		return "", nil
	default:
		return fmt.Sprint(s), nil
	}
}

func (c *Connector) integer(d *ole.IDispatch, kind invokeKind, op, name string, args ...any) (int, error) {
	x, err := c.value(d, kind, op, name, args...)
	if err != nil {
		return 0, err
	}
	n, ok := toInt(x)
	if !ok {
		return 0, &host.HostError{Op: op, Err: fmt.Errorf("%s: unexpected %T", name, x)}
	}
	return n, nil
}

func (c *Connector) float(d *ole.IDispatch, op, name string) (float64, error) {
	x, err := c.value(d, propGet, op, name)
	if err != nil {
		return 0, err
	}
	f, ok := toFloat(x)
	if !ok {
		return 0, &host.HostError{Op: op, Err: fmt.Errorf("%s: unexpected %T", name, x)}
	}
	return f, nil
}

// tristate reads an MsoTriState property.
func (c *Connector) tristate(d *ole.IDispatch, op, name string) (bool, error) {
	x, err := c.value(d, propGet, op, name)
	if err != nil {
		return false, err
	}
	if b, ok := x.(bool); ok {
		return b, nil
	}
	n, ok := toInt(x)
	if !ok {
		return false, &host.HostError{Op: op, Err: fmt.Errorf("%s: unexpected %T", name, x)}
	}
	return n != host.TriStateFalse, nil
}

func toInt(x any) (int, bool) {
	switch n := x.(type) {
	case int:
		return n, true
	case int8:
		return int(n), true
	case int16:
		return int(n), true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case uint8:
		return int(n), true
	case uint16:
		return int(n), true
	case uint32:
		return int(n), true
	case uint64:
		return int(n), true
	case float32:
		return int(n), true
	case float64:
		return int(n), true
	case bool:
		if n {
			return host.TriStateTrue, true
		}
		return host.TriStateFalse, true
	}
	return 0, false
}

func toFloat(x any) (float64, bool) {
	switch n := x.(type) {
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	if i, ok := toInt(x); ok {
		return float64(i), true
	}
	return 0, false
}

// identity is the canonical IUnknown pointer, which COM guarantees to be
// the same for every interface pointer to one object.
func identity(d *ole.IDispatch) uintptr {
	unk, err := d.QueryInterface(ole.IID_IUnknown)
	if err != nil {
		return uintptr(unsafe.Pointer(d))
	}
	id := uintptr(unsafe.Pointer(unk))
	unk.Release()
	return id
}
