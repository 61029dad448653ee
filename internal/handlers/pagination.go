package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	defaultPage    = 1
	defaultPerPage = 25
	maxPerPage     = 200
)

// PageParams are the pagination and sorting query parameters shared by every
// listing endpoint: page, per_page (capped), sort_by and sort_order. Sort columns
// are whitelisted per repository, so anything unknown falls back to the default
// ordering rather than erroring.
type PageParams struct {
	Page      int
	PerPage   int
	SortBy    string
	SortOrder string
}

func parsePageParams(c *gin.Context) PageParams {
	page := atoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = defaultPage
	}

	perPage := atoiDefault(c.Query("per_page"), defaultPerPage)
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	order := strings.ToLower(c.Query("sort_order"))
	if order != "asc" && order != "desc" {
		order = ""
	}

	return PageParams{
		Page:      page,
		PerPage:   perPage,
		SortBy:    strings.ToLower(c.Query("sort_by")),
		SortOrder: order,
	}
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// pageResponse is the standard listing envelope.
func pageResponse(items interface{}, total int64, p PageParams) gin.H {
	return gin.H{
		"items":    items,
		"total":    total,
		"page":     p.Page,
		"per_page": p.PerPage,
	}
}
