package services

import (
	"math"
	"strconv"
)

// PerPage is the fixed page size for question and answer lists.
const PerPage = 10

type PageInfo struct {
	Page       int
	PerPage    int
	Total      int64
	TotalPages int
}

// ParsePage reads a raw page query parameter. Anything non-numeric
// counts as page 1; range clamping happens in Paginate once the total
// is known.
func ParsePage(raw string) int {
	page, err := strconv.Atoi(raw)
	if err != nil {
		return 1
	}
	return page
}

// Paginate clamps the requested page into [1, totalPages]. An empty
// result set yields a single empty page, never an error.
func Paginate(total int64, page int) PageInfo {
	totalPages := int(math.Ceil(float64(total) / float64(PerPage)))
	if totalPages == 0 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}
	return PageInfo{
		Page:       page,
		PerPage:    PerPage,
		Total:      total,
		TotalPages: totalPages,
	}
}

func (p PageInfo) Offset() int {
	return (p.Page - 1) * p.PerPage
}

func (p PageInfo) HasPrev() bool { return p.Page > 1 }
func (p PageInfo) HasNext() bool { return p.Page < p.TotalPages }
func (p PageInfo) PrevPage() int { return p.Page - 1 }
func (p PageInfo) NextPage() int { return p.Page + 1 }
