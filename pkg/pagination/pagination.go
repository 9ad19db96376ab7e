package pagination

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"
)

const (
	DefaultLimit = 50
	MaxLimit     = 500
)

// Params holds pagination parameters extracted from a request.
type Params struct {
	Limit  int
	Offset int
}

// FromContext extracts pagination parameters from the echo context.
// _count/_offset take precedence over limit/offset.
func FromContext(c echo.Context) Params {
	limit, _ := strconv.Atoi(c.QueryParam("_count"))
	if limit <= 0 {
		limit, _ = strconv.Atoi(c.QueryParam("limit"))
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	offset, _ := strconv.Atoi(c.QueryParam("_offset"))
	if offset <= 0 {
		offset, _ = strconv.Atoi(c.QueryParam("offset"))
	}
	if offset < 0 {
		offset = 0
	}

	return Params{Limit: limit, Offset: offset}
}

// Response wraps a paginated API response.
type Response struct {
	Data    interface{} `json:"data"`
	Total   int         `json:"total"`
	Limit   int         `json:"limit"`
	Offset  int         `json:"offset"`
	HasMore bool        `json:"has_more"`
	Links   []Link      `json:"links,omitempty"`
}

func NewResponse(data interface{}, total, limit, offset int) *Response {
	return &Response{
		Data:    data,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: offset+limit < total,
	}
}

// Window returns the [start, end) bounds of the page within total items.
func (p Params) Window(total int) (start, end int) {
	if p.Offset >= total {
		return total, total
	}
	end = p.Offset + p.Limit
	if end > total {
		end = total
	}
	return p.Offset, end
}

// HasNext returns true if there are more results after the current page.
func (p Params) HasNext(total int) bool {
	return p.Offset+p.Limit < total
}

// HasPrevious returns true if there are results before the current page.
func (p Params) HasPrevious() bool {
	return p.Offset > 0
}

// NextOffset returns the offset for the next page.
func (p Params) NextOffset() int {
	return p.Offset + p.Limit
}

// PreviousOffset returns the offset for the previous page.
// Returns 0 if the result would be negative.
func (p Params) PreviousOffset() int {
	prev := p.Offset - p.Limit
	if prev < 0 {
		return 0
	}
	return prev
}

// Links builds self/next/previous links for basePath. query carries the
// non-paging parameters (e.g. date) and is encoded ahead of the paging ones.
func (p Params) Links(basePath string, query url.Values, total int) []Link {
	prefix := basePath + "?"
	if enc := query.Encode(); enc != "" {
		prefix += enc + "&"
	}
	link := func(rel string, offset int) Link {
		return Link{Relation: rel, URL: fmt.Sprintf("%s_offset=%d&_count=%d", prefix, offset, p.Limit)}
	}

	links := []Link{link("self", p.Offset)}
	if p.HasNext(total) {
		links = append(links, link("next", p.NextOffset()))
	}
	if p.HasPrevious() {
		links = append(links, link("previous", p.PreviousOffset()))
	}
	return links
}

// Link is one pagination link.
type Link struct {
	Relation string `json:"relation"`
	URL      string `json:"url"`
}
