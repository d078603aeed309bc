package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestEmployeeIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		header   string
		expected string
	}{
		{"emp_b", "EMP_B"},
		{"  Emp_C ", "EMP_C"},
		{"", ""},
	}
	for _, tt := range tests {
		engine := gin.New()
		engine.Use(EmployeeIdentity())
		var got string
		engine.GET("/", func(c *gin.Context) { got = GetEmployeeID(c) })

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tt.header != "" {
			req.Header.Set(EmployeeIDHeader, tt.header)
		}
		engine.ServeHTTP(httptest.NewRecorder(), req)
		assert.Equal(t, tt.expected, got)
	}
}

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	engine := gin.New()
	engine.Use(RequestLogger(zerolog.New(&buf)))
	engine.GET("/missing/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	engine.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing/1", nil))
	assert.Contains(t, buf.String(), `"status":404`)
	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), `"path":"/missing/:id"`)
}

func TestCORS_AllowsEmployeeHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(CORS([]string{"http://localhost:4200"}))
	engine.POST("/rides", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/rides", nil)
	req.Header.Set("Origin", "http://localhost:4200")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", EmployeeIDHeader)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:4200", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, strings.ToLower(w.Header().Get("Access-Control-Allow-Headers")), strings.ToLower(EmployeeIDHeader))
}
