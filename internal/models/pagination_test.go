package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginationRequestNormalize(t *testing.T) {
	tests := []struct {
		name      string
		in        PaginationRequest
		wantIndex int
		wantSize  int
	}{
		{"defaults", PaginationRequest{}, 1, DefaultPageSize},
		{"clamped to max", PaginationRequest{PageIndex: 2, PageSize: 150}, 2, MaxPageSize},
		{"negative index", PaginationRequest{PageIndex: -3, PageSize: 10}, 1, 10},
		{"exact max", PaginationRequest{PageIndex: 1, PageSize: 100}, 1, 100},
		{"huge index", PaginationRequest{PageIndex: math.MaxInt, PageSize: 100}, MaxPageIndex, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Normalize()
			assert.Equal(t, tt.wantIndex, got.PageIndex)
			assert.Equal(t, tt.wantSize, got.PageSize)
		})
	}
}

func TestPaginationRequestOffset(t *testing.T) {
	p := PaginationRequest{PageIndex: 3, PageSize: 20}
	assert.Equal(t, 40, p.Offset())

	huge := PaginationRequest{PageIndex: math.MaxInt, PageSize: MaxPageSize}.Normalize()
	assert.Positive(t, huge.Offset())
	assert.LessOrEqual(t, huge.Offset(), math.MaxInt32)
}

func TestNewMetaData(t *testing.T) {
	meta := NewMetaData(2, 20, 45)
	assert.Equal(t, 3, meta.TotalPages)
	assert.Equal(t, "Showing 21 to 40 of 45 entries", meta.Showing)

	last := NewMetaData(3, 20, 45)
	assert.Equal(t, "Showing 41 to 45 of 45 entries", last.Showing)

	exact := NewMetaData(1, 100, 100)
	assert.Equal(t, 1, exact.TotalPages)
}

func TestNewMetaDataEmpty(t *testing.T) {
	meta := NewMetaData(1, 20, 0)
	assert.Equal(t, 0, meta.TotalPages)
	assert.Equal(t, "No entries found", meta.Showing)
}
