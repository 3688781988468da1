package v1

import (
	"net/http"
	"os"
	"path/filepath"

	"cip-network-backend/pkg/apperror"

	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"
)

type SiteHandler struct {
	indexFile string
}

// NewSiteHandler serves the landing page and the static trees under /assets, /img and /video.
func NewSiteHandler(r *gin.Engine, staticDir, indexFile string) {
	r.Use(
		static.Serve("/assets", static.LocalFile(staticDir, false)),
		static.Serve("/img", static.LocalFile(filepath.Join(staticDir, "img"), false)),
		static.Serve("/video", static.LocalFile(filepath.Join(staticDir, "video"), false)),
	)

	handler := &SiteHandler{indexFile: indexFile}
	r.GET("/", handler.Index)
}

// Index returns the landing page, read from disk on every request.
func (h *SiteHandler) Index(c *gin.Context) {
	content, err := os.ReadFile(h.indexFile)
	if err != nil {
		c.Error(apperror.New(http.StatusInternalServerError, "Pagina non disponibile", err))
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", content)
}
