package http

import (
	"encoding/base64"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-resty/resty/v2"

	"imospy/infrastructure/logger"
)

var (
	// 1x1 PNGs served in place of videos and failed fetches.
	videoPlaceholderPNG, _ = base64.StdEncoding.DecodeString("iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mP8/5+hHgAHggJ/PchI7wAAAABJRU5ErkJggg==")
	transparentPNG, _      = base64.StdEncoding.DecodeString("iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg==")
)

var browserHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Accept":          "image/avif,image/webp,image/apng,image/svg+xml,image/*,*/*;q=0.8",
	"Accept-Language": "en-US,en;q=0.5",
	"Sec-Fetch-Dest":  "image",
	"Sec-Fetch-Mode":  "no-cors",
	"Sec-Fetch-Site":  "cross-site",
	"Referer":         "https://www.instagram.com/",
	"Origin":          "https://www.instagram.com",
}

type IProxyHandler interface {
	ProxyImage(c *gin.Context)
}

// ProxyHandler fetches CDN images that refuse hotlinking from the browser.
type ProxyHandler struct {
	client *resty.Client
}

func NewProxyHandler(timeout time.Duration) IProxyHandler {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ProxyHandler{client: resty.New().SetTimeout(timeout).SetHeaders(browserHeaders)}
}

func looksLikeVideo(url string) bool {
	return strings.Contains(url, ".mp4") || strings.Contains(url, ".mov") ||
		strings.Contains(url, "/playback/") || strings.Contains(url, "video")
}

func (h *ProxyHandler) ProxyImage(c *gin.Context) {
	url := c.Query("url")
	if url == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "URL parameter is required"})
		return
	}

	if looksLikeVideo(url) {
		c.Header("Cache-Control", "public, max-age=300")
		c.Data(http.StatusOK, "image/png", videoPlaceholderPNG)
		return
	}

	resp, err := h.client.R().SetContext(c.Request.Context()).Get(url)
	if err != nil || !resp.IsSuccess() {
		entry := logger.GetLogger().WithField("url", url)
		if err != nil {
			entry = entry.WithField("error", err.Error())
		} else {
			entry = entry.WithField("status", resp.StatusCode())
		}
		entry.Warn("Failed to proxy image")
		c.Header("Cache-Control", "no-cache")
		c.Data(http.StatusOK, "image/png", transparentPNG)
		return
	}

	contentType := resp.Header().Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}
	c.Header("Cache-Control", "public, max-age=3600")
	c.Data(http.StatusOK, contentType, resp.Body())
}
