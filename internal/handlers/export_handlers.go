package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// exportData streams an XLSX dump of one model. Query parameters: model (one of
// user, author, book, order, orderitem, review) and one fields entry per column.
// The admin-only gate lives in the export service.
func (h *Handler) exportData(c *gin.Context) {
	model := c.Query("model")
	fields := c.QueryArray("fields")

	data, filename, err := h.export.Export(currentUser(c), model, fields)
	if err != nil {
		writeError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, xlsxContentType, data)
}
