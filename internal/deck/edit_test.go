package deck

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mohammad-safakhou/deckhand/internal/host"
	"github.com/mohammad-safakhou/deckhand/internal/host/memhost"
)

func TestDuplicate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		slide       any
		insertAfter *int
		wantPos     int
		wantTitles  []string
	}{
		{"append by default", 1, nil, 4, []string{"a", "b", "c", "a"}},
		{"last slide stays put", "3", nil, 4, []string{"a", "b", "c", "c"}},
		{"before first", 2, ptr(0), 1, []string{"b", "a", "b", "c"}},
		{"right after source", 2, ptr(2), 3, []string{"a", "b", "b", "c"}},
		{"after a later slide", 1, ptr(2), 3, []string{"a", "b", "a", "c"}},
		{"after last", 1, ptr(3), 4, []string{"a", "b", "c", "a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, "a", "b", "c")
			pos, err := Duplicate(f.pres, tt.slide, tt.insertAfter)
			require.NoError(t, err)
			require.Equal(t, tt.wantPos, pos)
			require.Equal(t, tt.wantTitles, titles(t, f.pres))
		})
	}
}

func TestDuplicateValidatesBeforeCopying(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "a", "b", "c")

	_, err := Duplicate(f.pres, 1, ptr(4))
	require.ErrorIs(t, err, ErrOutOfRange)
	_, err = Duplicate(f.pres, 1, ptr(-1))
	require.ErrorIs(t, err, ErrOutOfRange)
	_, err = Duplicate(f.pres, 0, nil)
	require.ErrorIs(t, err, ErrOutOfRange)
	require.Equal(t, 3, f.pres.Len())
}

func TestDeleteShiftsFollowingSlides(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "a", "b", "c")

	n, err := Delete(f.pres, "1")
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, []string{"b", "c"}, titles(t, f.pres))

	_, err = Delete(f.pres, 3)
	require.ErrorIs(t, err, ErrOutOfRange)
}

func TestMove(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name       string
		from, to   any
		wantTitles []string
	}{
		{"forward", 1, 3, []string{"b", "c", "a", "d"}},
		{"backward", 4, 2, []string{"a", "d", "b", "c"}},
		{"to last", "2", "4", []string{"a", "c", "d", "b"}},
		{"to first", 3, 1, []string{"c", "a", "b", "d"}},
		{"in place", 2, 2, []string{"a", "b", "c", "d"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, "a", "b", "c", "d")
			n, err := Move(f.pres, tt.from, tt.to)
			require.NoError(t, err)
			require.Equal(t, 4, n)
			require.Equal(t, tt.wantTitles, titles(t, f.pres))
		})
	}
}

func TestMoveRoundTrip(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "a", "b", "c")

	_, err := Move(f.pres, 1, 3)
	require.NoError(t, err)
	_, err = Move(f.pres, 3, 1)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b", "c"}, titles(t, f.pres))
}

func TestMoveRejectsBeforeTouchingHost(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "a", "b", "c")
	f.app.Fail("slides.paste", errBusy)

	_, err := Move(f.pres, 1, 0)
	require.ErrorIs(t, err, ErrOutOfRange)
	_, err = Move(f.pres, 1, 4)
	require.ErrorIs(t, err, ErrOutOfRange)
	_, err = Move(f.pres, "first", 2)
	require.ErrorIs(t, err, ErrInvalidFormat)

	_, err = Move(f.pres, 1, 2)
	require.ErrorIs(t, err, ErrHostFault)
	var de *Error
	require.ErrorAs(t, err, &de)
	require.True(t, de.Retryable())
	require.Equal(t, []string{"a", "b", "c"}, titles(t, f.pres))
}

func TestCopyShape(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "a", "b")
	src := f.pres.SlideAt(1).AddShape(memhost.TextBox("Callout", "note"))

	n, sh, err := CopyShape(f.pres, 1, 2, 2, ptr(10.0), nil)
	require.NoError(t, err)
	require.Equal(t, 2, n)
	name, err := sh.Name()
	require.NoError(t, err)
	require.Equal(t, "Callout", name)

	r, err := sh.Bounds()
	require.NoError(t, err)
	require.Equal(t, host.Rect{Left: 10, Top: src.Rect.Top, Width: src.Rect.Width, Height: src.Rect.Height}, r)
	require.Equal(t, 100.0, src.Rect.Left)

	_, _, err = CopyShape(f.pres, 1, 3, 2, nil, nil)
	require.ErrorIs(t, err, ErrOutOfRange)
	_, _, err = CopyShape(f.pres, 1, 1, 5, nil, nil)
	require.ErrorIs(t, err, ErrOutOfRange)
}

func TestAddSlide(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "a")

	_, _, err := AddSlide(f.pres, 0)
	require.ErrorIs(t, err, ErrOutOfRange)
	_, _, err = AddSlide(f.pres, 37)
	require.ErrorIs(t, err, ErrOutOfRange)

	pos, s, err := AddSlide(f.pres, host.LayoutText)
	require.NoError(t, err)
	require.Equal(t, 2, pos)
	n, err := s.Shapes().Count()
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, "", ResolveTitle(s))
}

func TestAddTextBox(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "a")

	pos, err := AddTextBox(f.pres, 1, "hello", host.Rect{Left: 1, Top: 2, Width: 300, Height: 40})
	require.NoError(t, err)
	require.Equal(t, 2, pos)
	sh := f.pres.SlideAt(1).ShapeAt(2)
	require.Equal(t, "hello", sh.Text)
	require.Equal(t, host.Rect{Left: 1, Top: 2, Width: 300, Height: 40}, sh.Rect)

	_, err = AddTextBox(f.pres, 1, "x", host.Rect{Width: 0, Height: 10})
	require.ErrorIs(t, err, ErrOutOfRange)
}

func TestSetSlideTitle(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "old")
	blank := f.pres.AddSlide("")

	created, err := SetSlideTitle(f.pres, 1, "new")
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, "new", f.pres.SlideAt(1).ShapeAt(1).Text)

	created, err = SetSlideTitle(f.pres, 2, "Fresh")
	require.NoError(t, err)
	require.True(t, created)
	require.Equal(t, 1, blank.Len())
	box := blank.ShapeAt(1)
	require.Equal(t, "Fresh", box.Text)
	require.Equal(t, host.Font{Name: "Calibri", Size: 44, Bold: true}, box.Font)
	require.Equal(t, host.Rect{Left: 50, Top: 50, Width: 600, Height: 50}, box.Rect)
	require.Equal(t, "Fresh", ResolveTitle(blank))
}

func TestSetSlideTitleOnEmptyPlaceholder(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "")

	created, err := SetSlideTitle(f.pres, 1, "Filled")
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, "Filled", ResolveTitle(f.pres.SlideAt(1)))
}
