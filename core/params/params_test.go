package params

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func paramsFor(t *testing.T, query string) QueryParams {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?"+query, nil)
	return FromContext(e.NewContext(req, httptest.NewRecorder()))
}

func TestFromContextDefaults(t *testing.T) {
	p := paramsFor(t, "")
	assert.Equal(t, 1, p.PageNumber)
	assert.Equal(t, DefaultPageSize, p.PageSize)
	assert.Zero(t, p.Offset())
}

func TestFromContextParsesValues(t *testing.T) {
	p := paramsFor(t, "page=3&page_size=10&search=alice")
	assert.Equal(t, 3, p.PageNumber)
	assert.Equal(t, 10, p.PageSize)
	assert.Equal(t, "alice", p.Search)
	assert.Equal(t, 20, p.Offset())
}

func TestFromContextClampsPageSize(t *testing.T) {
	p := paramsFor(t, "page_size=5000")
	assert.Equal(t, MaxPageSize, p.PageSize)
}

func TestFromContextIgnoresGarbage(t *testing.T) {
	p := paramsFor(t, "page=-2&page_size=zero")
	assert.Equal(t, 1, p.PageNumber)
	assert.Equal(t, DefaultPageSize, p.PageSize)
}
