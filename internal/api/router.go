package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AdrianDanlos/rythm/internal/auth"
)

func NewRouter(app App, provider auth.Provider) *gin.Engine {
	r := gin.New()
	SetupMiddleware(r, app.Logger())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	g := r.Group("/api", auth.AuthMiddleware(provider))
	g.GET("/entries", ListEntries(app))
	g.GET("/entries/:date", GetEntry(app))
	g.PUT("/entries/:date", PutEntry(app))
	g.DELETE("/entries/:date", DeleteEntry(app))
	g.GET("/stats", GetStats(app))
	g.GET("/badges", GetBadges(app))
	g.GET("/motivation", GetMotivation(app))
	g.GET("/export.csv", ExportCSV(app))
	g.POST("/import", ImportCSV(app))
	return r
}
