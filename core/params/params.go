package params

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// QueryParams carries common list-endpoint query parameters.
type QueryParams struct {
	PageNumber int
	PageSize   int
	Search     string
}

// FromContext parses paging parameters from the request query string,
// clamping them to sane values.
func FromContext(c echo.Context) QueryParams {
	p := QueryParams{
		PageNumber: 1,
		PageSize:   DefaultPageSize,
		Search:     c.QueryParam("search"),
	}

	if n, err := strconv.Atoi(c.QueryParam("page")); err == nil && n > 0 {
		p.PageNumber = n
	}
	if n, err := strconv.Atoi(c.QueryParam("page_size")); err == nil && n > 0 {
		p.PageSize = n
		if p.PageSize > MaxPageSize {
			p.PageSize = MaxPageSize
		}
	}
	return p
}

// Offset converts the page number into a SQL offset.
func (p *QueryParams) Offset() int {
	return (p.PageNumber - 1) * p.PageSize
}
