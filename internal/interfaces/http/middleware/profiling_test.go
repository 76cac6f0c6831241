package middleware

import (
	"net/http"
	"net/http/httptest"
	"runtime/pprof"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestProfiling(t *testing.T) {
	labels := func(c *gin.Context) {
		route, _ := pprof.Label(c.Request.Context(), "route")
		method, _ := pprof.Label(c.Request.Context(), "method")
		c.String(http.StatusOK, route+" "+method)
	}

	r := gin.New()
	r.Use(Profiling("/health"))
	r.GET("/sales/:id", labels)
	r.GET("/health", labels)

	tests := []struct {
		path string
		want string
	}{
		{"/sales/42", "/sales/:id GET"},
		{"/health", " "},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, tt.want, w.Body.String(), tt.path)
	}
}
