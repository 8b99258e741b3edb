package api

import (
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Frontend selects how non-API paths are served. StaticDir wins over DevURL.
type Frontend struct {
	StaticDir string
	DevURL    string
}

func (f Frontend) mount(r *gin.Engine, log *zap.Logger) {
	var h http.Handler
	switch {
	case f.StaticDir != "":
		h = http.FileServer(http.Dir(f.StaticDir))
	case f.DevURL != "":
		u, err := url.Parse(f.DevURL)
		if err != nil {
			log.Warn("invalid dev frontend url", zap.String("url", f.DevURL), zap.Error(err))
			return
		}
		rp := httputil.NewSingleHostReverseProxy(u)
		// no-store must also apply to proxied responses
		rp.ModifyResponse = func(res *http.Response) error {
			res.Header.Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
			res.Header.Set("Pragma", "no-cache")
			res.Header.Set("Expires", "0")
			return nil
		}
		h = rp
	default:
		return
	}
	r.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
			return
		}
		h.ServeHTTP(c.Writer, c.Request)
	})
}
