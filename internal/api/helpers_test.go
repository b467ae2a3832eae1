//nolint:testpackage // Testing unexported helper parseSize
package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestParseSize(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"uses default when missing", "", 10},
		{"accepts valid size", "?size=25", 25},
		{"caps at max", "?size=500", 100},
		{"default for zero", "?size=0", 10},
		{"default for negative", "?size=-3", 10},
		{"default for garbage", "?size=abc", 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/"+tt.query, http.NoBody)

			if got := parseSize(c, 10, 100); got != tt.want {
				t.Errorf("parseSize() = %d, want %d", got, tt.want)
			}
		})
	}
}
