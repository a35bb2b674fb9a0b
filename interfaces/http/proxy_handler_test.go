package http_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	httpHandler "imospy/interfaces/http"
)

func proxyEngine() *gin.Engine {
	h := httpHandler.NewProxyHandler(2 * time.Second)
	return newEngine("user-1", func(g gin.IRoutes) { g.GET("/proxy-image", h.ProxyImage) })
}

func TestProxyImage_MissingURL(t *testing.T) {
	w := do(proxyEngine(), http.MethodGet, "/api/proxy-image", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "URL parameter is required", errorOf(t, w))
}

func TestProxyImage_StreamsUpstream(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("User-Agent"), "Mozilla/5.0")
		w.Header().Set("Content-Type", "image/webp")
		_, _ = w.Write([]byte("webp-bytes"))
	}))
	defer upstream.Close()

	w := do(proxyEngine(), http.MethodGet, "/api/proxy-image?url="+url.QueryEscape(upstream.URL+"/pic.webp"), nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/webp", w.Header().Get("Content-Type"))
	assert.Equal(t, "public, max-age=3600", w.Header().Get("Cache-Control"))
	assert.Equal(t, "webp-bytes", w.Body.String())
}

func TestProxyImage_FallbackPixel(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer upstream.Close()

	w := do(proxyEngine(), http.MethodGet, "/api/proxy-image?url="+url.QueryEscape(upstream.URL+"/pic.jpg"), nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache", w.Header().Get("Cache-Control"))
	assert.NotEmpty(t, w.Body.Bytes())
}

func TestProxyImage_VideoPlaceholder(t *testing.T) {
	w := do(proxyEngine(), http.MethodGet, "/api/proxy-image?url="+url.QueryEscape("https://cdn.example.com/clip.mp4"), nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, "public, max-age=300", w.Header().Get("Cache-Control"))
}
