package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSize(t *testing.T) {
	assert.Equal(t, DefaultSize, Pagination{}.Size())
	assert.Equal(t, 10, Pagination{PageSize: 10}.Size())
	assert.Equal(t, MaxSize, Pagination{PageSize: 10_000}.Size())
}

func TestCursorRoundTrip(t *testing.T) {
	in := Cursor{ID: "1790000000000000000", CreatedAt: time.Date(2024, 2, 1, 9, 30, 0, 0, time.UTC)}
	out, err := DecodeCursor(EncodeCursor(in))
	require.NoError(t, err)
	assert.Equal(t, in.ID, out.ID)
	assert.True(t, in.CreatedAt.Equal(out.CreatedAt))

	_, err = DecodeCursor("%%%")
	assert.Error(t, err)
}

func TestTrim(t *testing.T) {
	byID := func(id int) Cursor { return Cursor{ID: string(rune('a' + id))} }

	rows, info := Trim([]int{1, 2}, 2, byID)
	assert.Equal(t, []int{1, 2}, rows)
	assert.False(t, info.HasMore)
	assert.Empty(t, info.NextPageToken)

	rows, info = Trim([]int{1, 2, 3}, 2, byID)
	assert.Equal(t, []int{1, 2}, rows)
	assert.True(t, info.HasMore)
	next, err := DecodeCursor(info.NextPageToken)
	require.NoError(t, err)
	assert.Equal(t, "c", next.ID)
}
