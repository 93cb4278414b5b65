// Package pagination implements keyset paging over (created_at, id).
package pagination

import (
	"encoding/base64"
	"encoding/json"
	"time"
)

const (
	DefaultSize = 50
	MaxSize     = 250
)

// Pagination is bound from the page_token and page_size query parameters.
type Pagination struct {
	PageToken string `form:"page_token"`
	PageSize  int    `form:"page_size"`
}

// Size clamps PageSize into [1, MaxSize]; zero or negative means DefaultSize.
func (p Pagination) Size() int {
	switch {
	case p.PageSize <= 0:
		return DefaultSize
	case p.PageSize > MaxSize:
		return MaxSize
	}
	return p.PageSize
}

// Cursor is the last row of a page.
type Cursor struct {
	ID        string    `json:"i"`
	CreatedAt time.Time `json:"t"`
}

type PageInfo struct {
	NextPageToken string `json:"next_page_token,omitempty"`
	HasMore       bool   `json:"has_more"`
}

func EncodeCursor(c Cursor) string {
	b, _ := json.Marshal(c)
	return base64.RawURLEncoding.EncodeToString(b)
}

func DecodeCursor(token string) (Cursor, error) {
	var c Cursor
	b, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return c, err
	}
	err = json.Unmarshal(b, &c)
	return c, err
}

// Trim cuts rows fetched with a limit of size+1 back to size and reports
// whether another page exists.
func Trim[T any](rows []T, size int, cursor func(T) Cursor) ([]T, PageInfo) {
	if len(rows) <= size {
		return rows, PageInfo{}
	}
	rows = rows[:size]
	return rows, PageInfo{
		HasMore:       true,
		NextPageToken: EncodeCursor(cursor(rows[size-1])),
	}
}
