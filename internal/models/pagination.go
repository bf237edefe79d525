package models

import (
	"fmt"
	"math"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	// MaxPageIndex keeps the computed OFFSET within a 32-bit integer.
	MaxPageIndex = math.MaxInt32 / MaxPageSize
)

type PaginationRequest struct {
	PageIndex      int    `json:"pageIndex"`
	PageSize       int    `json:"pageSize"`
	Search         string `json:"search"`
	SortBy         string `json:"sortBy"`
	SortDescending bool   `json:"sortDescending"`
}

// Normalize clamps the page index to [1, MaxPageIndex] and the page size to
// [1, MaxPageSize].
func (p PaginationRequest) Normalize() PaginationRequest {
	if p.PageIndex < 1 {
		p.PageIndex = 1
	}
	if p.PageIndex > MaxPageIndex {
		p.PageIndex = MaxPageIndex
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

func (p PaginationRequest) Offset() int {
	return (p.PageIndex - 1) * p.PageSize
}

type MetaData struct {
	PageIndex  int    `json:"pageIndex"`
	PageSize   int    `json:"pageSize"`
	TotalCount int    `json:"totalCount"`
	TotalPages int    `json:"totalPages"`
	Showing    string `json:"showing"`
}

func NewMetaData(pageIndex, pageSize, totalCount int) *MetaData {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int(math.Ceil(float64(totalCount) / float64(pageSize)))
	}

	showing := "No entries found"
	if totalCount > 0 {
		start := (pageIndex-1)*pageSize + 1
		end := pageIndex * pageSize
		if end > totalCount {
			end = totalCount
		}
		showing = fmt.Sprintf("Showing %d to %d of %d entries", start, end, totalCount)
	}

	return &MetaData{
		PageIndex:  pageIndex,
		PageSize:   pageSize,
		TotalCount: totalCount,
		TotalPages: totalPages,
		Showing:    showing,
	}
}

// Page is a single page of list results.
type Page[T any] struct {
	Items    []T
	MetaData *MetaData
}
