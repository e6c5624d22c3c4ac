package vtscreen

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScreen_FeedRendersBytesIntoGrid(t *testing.T) {
	s := New(5, 20, 100, io.Discard)
	s.Feed([]byte("hello"))

	rows := s.VisibleRows(0, 5)
	assert.Equal(t, "h", rows[0][0].Text())
	assert.Equal(t, "e", rows[0][1].Text())
	assert.Equal(t, "o", rows[0][4].Text())
}

func TestScreen_FeedIsSplitInvariant(t *testing.T) {
	whole := New(5, 20, 100, io.Discard)
	whole.Feed([]byte("\x1b[31mhi\x1b[0m"))

	split := New(5, 20, 100, io.Discard)
	split.Feed([]byte("\x1b[3"))
	split.Feed([]byte("1mhi\x1b"))
	split.Feed([]byte("[0m"))

	wantRows := whole.VisibleRows(0, 1)
	gotRows := split.VisibleRows(0, 1)
	assert.Equal(t, wantRows[0][0].Text(), gotRows[0][0].Text())
	assert.Equal(t, wantRows[0][1].Text(), gotRows[0][1].Text())
}

func TestScreen_ResizeIsNoopWhenUnchanged(t *testing.T) {
	s := New(10, 30, 100, io.Discard)
	s.Feed([]byte("unchanged"))
	before := s.VisibleRows(0, 1)

	s.Resize(10, 30)

	after := s.VisibleRows(0, 1)
	assert.Equal(t, before, after)
}

func TestScreen_ResizeUpdatesSize(t *testing.T) {
	s := New(10, 30, 100, io.Discard)
	s.Resize(20, 40)

	rows, cols := s.Size()
	assert.Equal(t, 20, rows)
	assert.Equal(t, 40, cols)
}

func TestScreen_VisibleRowsAboveHistoryAreBlank(t *testing.T) {
	s := New(3, 10, 100, io.Discard)
	rows := s.VisibleRows(50, 3)

	for _, row := range rows {
		for _, c := range row {
			assert.Equal(t, " ", c.Text())
		}
	}
}

func TestScreen_ResetScrollZeroesOffset(t *testing.T) {
	s := New(3, 10, 100, io.Discard)
	s.offset = 7
	s.ResetScroll()

	assert.Equal(t, 0, s.Offset())
}

func TestScreen_ScrollByClampsToZeroAndScrollbackLen(t *testing.T) {
	s := New(3, 10, 100, io.Discard)
	assert.Equal(t, 0, s.ScrollBy(-5))
	assert.Equal(t, 0, s.ScrollBy(0))

	got := s.ScrollBy(1000)
	assert.Equal(t, s.ScrollbackLen(), got)
}

func TestScreen_ExtractRangeEmptySelection(t *testing.T) {
	s := New(3, 10, 100, io.Discard)
	assert.Equal(t, "", s.ExtractRange(Selection{}))
}

func TestScreen_ExtractRangeRestoresSpacesForBlankCells(t *testing.T) {
	s := New(3, 10, 100, io.Discard)
	s.Feed([]byte("ab"))

	text := s.ExtractRange(Selection{
		Anchor: Pos{Row: 0, Col: 0},
		Active: Pos{Row: 0, Col: 9},
	})
	assert.Equal(t, "ab       ", text)
}

func TestScreen_ClearScrollbackResetsOffsetAndHistory(t *testing.T) {
	s := New(3, 10, 100, io.Discard)
	s.back.push([]Cell{{Ch: 'x'}})
	s.offset = 2

	s.ClearScrollback()

	assert.Equal(t, 0, s.ScrollbackLen())
	assert.Equal(t, 0, s.Offset())
}
