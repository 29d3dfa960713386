package api

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AdrianDanlos/rythm/internal/stats"
)

const maxImportBytes = 5 << 20

func GetStats(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := mustUser(c)

		var threshold *float64
		if raw := c.Query("sleep_threshold"); raw != "" {
			v, err := stats.ParseHours(raw)
			if err != nil || v <= 0 || v > 24 {
				if err == nil {
					err = errors.New("must be in (0, 24]")
				}
				HandleError(c, app.Logger(), err, 400, "Invalid sleep_threshold")
				return
			}
			threshold = &v
		}

		result, err := app.Service().Stats(c.Request.Context(), user, threshold)
		if err != nil {
			HandleError(c, app.Logger(), err, statusFor(err), "Failed to build stats")
			return
		}
		HandleSuccess(c, app.Logger(), result, nil)
	}
}

func GetBadges(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := mustUser(c)
		badges, err := app.Service().Badges(c.Request.Context(), user)
		if err != nil {
			HandleError(c, app.Logger(), err, statusFor(err), "Failed to build badges")
			return
		}
		meta := map[string]any{"unlocked": stats.CountUnlocked(badges), "total": len(badges)}
		HandleSuccess(c, app.Logger(), badges, meta)
	}
}

func GetMotivation(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := mustUser(c)
		msg, err := app.Service().Motivation(c.Request.Context(), user)
		if err != nil {
			HandleError(c, app.Logger(), err, statusFor(err), "Failed to pick a message")
			return
		}
		HandleSuccess(c, app.Logger(), msg, nil)
	}
}

func ExportCSV(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := mustUser(c)
		var buf bytes.Buffer
		if err := app.Service().Export(c.Request.Context(), user, &buf); err != nil {
			HandleError(c, app.Logger(), err, statusFor(err), "Failed to export entries")
			return
		}
		c.Header("Content-Disposition", `attachment; filename="rythm-entries.csv"`)
		c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
	}
}

func ImportCSV(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := mustUser(c)
		body := http.MaxBytesReader(c.Writer, c.Request.Body, maxImportBytes)
		n, err := app.Service().Import(c.Request.Context(), user, body)
		if err != nil {
			HandleError(c, app.Logger(), err, statusFor(err), "Failed to import entries")
			return
		}
		HandleSuccess(c, app.Logger(), nil, map[string]any{"imported": n})
	}
}
