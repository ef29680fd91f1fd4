package respond

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// JSON writes a JSON response with the given status.
func JSON(c *gin.Context, status int, payload any) {
	c.JSON(status, payload)
}

// OK writes a 200 OK JSON response.
func OK(c *gin.Context, payload any) {
	JSON(c, http.StatusOK, payload)
}

// NoContent writes a bare 204.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Markdown sends body as a downloadable markdown file.
func Markdown(c *gin.Context, fileName, body string) {
	c.Header("Content-Disposition", "attachment; filename="+strconv.Quote(fileName))
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(body))
}
