package httputil

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultPageSize = 15
	maxPageSize     = 100
)

// Page holds parsed pagination query parameters. Pages are 1-based.
type Page struct {
	Number int
	Size   int
}

// Offset returns the row offset for the page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// ParsePage safely parses and validates the "page" and "pagesize" query
// parameters. Page defaults to 1 and pagesize to 15 (max 100).
func ParsePage(c *gin.Context) (Page, error) {
	pageStr := c.DefaultQuery("page", "1")
	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		return Page{}, fmt.Errorf("invalid page parameter: must be a positive integer")
	}

	sizeStr := c.DefaultQuery("pagesize", strconv.Itoa(defaultPageSize))
	size, err := strconv.Atoi(sizeStr)
	if err != nil || size < 1 || size > maxPageSize {
		return Page{}, fmt.Errorf("invalid pagesize parameter: must be between 1 and %d", maxPageSize)
	}

	return Page{Number: page, Size: size}, nil
}

// Cursors describes the pagination cursors exposed by listing endpoints.
type Cursors struct {
	Count   int  `json:"count"`
	Prev    *int `json:"prev"`
	Next    *int `json:"next"`
	Current int  `json:"current"`
}

// NewCursors computes prev/next cursors for a page given the total row count.
func NewCursors(page Page, count int) Cursors {
	cursors := Cursors{Count: count, Current: page.Number}

	if page.Number > 1 {
		prev := page.Number - 1
		cursors.Prev = &prev
	}
	if page.Number*page.Size < count {
		next := page.Number + 1
		cursors.Next = &next
	}

	return cursors
}
