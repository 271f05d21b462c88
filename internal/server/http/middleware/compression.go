package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// DecompressRequest replaces gzip encoded request bodies with a transparent
// reader. Requests without a gzip Content-Encoding pass through untouched.
func DecompressRequest() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !hasGzipEncoding(c.GetHeader("Content-Encoding")) {
			c.Next()
			return
		}

		body := c.Request.Body
		zr, err := gzip.NewReader(body)
		if err != nil {
			c.AbortWithStatus(http.StatusBadRequest)
			return
		}
		defer zr.Close()
		defer body.Close()

		c.Request.Body = io.NopCloser(zr)
		c.Request.Header.Del("Content-Encoding")
		c.Request.Header.Del("Content-Length")
		c.Request.ContentLength = -1
		c.Next()
	}
}

func hasGzipEncoding(header string) bool {
	for _, encoding := range strings.Split(header, ",") {
		if strings.EqualFold(strings.TrimSpace(encoding), "gzip") {
			return true
		}
	}
	return false
}
