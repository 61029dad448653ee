package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func paramsFor(t *testing.T, query string) PageParams {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/api/books?"+query, nil)
	return parsePageParams(c)
}

func TestParsePageParamsDefaults(t *testing.T) {
	p := paramsFor(t, "")
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 25, p.PerPage)
	assert.Equal(t, "", p.SortBy)
	assert.Equal(t, "", p.SortOrder)
}

func TestParsePageParams(t *testing.T) {
	p := paramsFor(t, "page=3&per_page=50&sort_by=Price&sort_order=DESC")
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 50, p.PerPage)
	assert.Equal(t, "price", p.SortBy)
	assert.Equal(t, "desc", p.SortOrder)
}

func TestParsePageParamsBadValues(t *testing.T) {
	p := paramsFor(t, "page=-1&per_page=banana&sort_order=sideways")
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 25, p.PerPage)
	assert.Equal(t, "", p.SortOrder)

	p = paramsFor(t, "per_page=9999")
	assert.Equal(t, maxPerPage, p.PerPage)
}
