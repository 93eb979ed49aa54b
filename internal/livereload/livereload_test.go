package livereload

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func serve(h gin.HandlerFunc) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", InjectScript(DefaultOptions, h))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	return w
}

func TestInjectScript(t *testing.T) {
	w := serve(func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(`<!DOCTYPE html><html><head><title>x</title></head><body><p>hi</p></body></html>`))
	})
	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `<script>`)
	assert.Contains(t, body, `location.host + "/_livereload"`)
	assert.Contains(t, body, `const maxRetries = 10;`)
	assert.Contains(t, body, `<p>hi</p>`)
}

func TestInjectScriptPassesErrorsThrough(t *testing.T) {
	w := serve(func(c *gin.Context) {
		c.Data(http.StatusNotFound, "text/plain", []byte("missing"))
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "missing", w.Body.String())
}

func TestInjectFragment(t *testing.T) {
	page, err := inject([]byte(`<p>fragment</p>`), DefaultOptions)
	assert.NoError(t, err, "the parser synthesises a head for fragments")
	assert.Contains(t, string(page), "<head><script>")
}
