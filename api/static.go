package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const publicDir = "public"

// ServeStaticFiles exposes the lookup page and its assets.
func (s *Server) ServeStaticFiles() {
	s.router.StaticFile("/", publicDir+"/index.html")
	s.router.StaticFS("/static", http.Dir(publicDir))

	s.router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})
}
