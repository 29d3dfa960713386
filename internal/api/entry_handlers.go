package api

import (
	"github.com/gin-gonic/gin"

	"github.com/AdrianDanlos/rythm/internal/service"
)

func PutEntry(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := mustUser(c)
		date := c.Param("date")

		var body service.EntryRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}
		if err := service.ValidateEntryRequest(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Validation failed")
			return
		}

		entry, err := app.Service().UpsertEntry(c.Request.Context(), user, date, &body)
		if err != nil {
			HandleError(c, app.Logger(), err, statusFor(err), "Failed to save entry")
			return
		}
		HandleSuccess(c, app.Logger(), entry, nil)
	}
}

func ListEntries(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := mustUser(c)
		entries, err := app.Service().ListEntries(c.Request.Context(), user)
		if err != nil {
			HandleError(c, app.Logger(), err, statusFor(err), "Failed to fetch entries")
			return
		}
		HandleSuccess(c, app.Logger(), entries, map[string]any{"count": len(entries)})
	}
}

func GetEntry(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := mustUser(c)
		entry, err := app.Service().GetEntry(c.Request.Context(), user, c.Param("date"))
		if err != nil {
			HandleError(c, app.Logger(), err, statusFor(err), "Failed to fetch entry")
			return
		}
		HandleSuccess(c, app.Logger(), entry, nil)
	}
}

func DeleteEntry(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := mustUser(c)
		date := c.Param("date")
		if err := app.Service().DeleteEntry(c.Request.Context(), user, date); err != nil {
			HandleError(c, app.Logger(), err, statusFor(err), "Failed to delete entry")
			return
		}
		HandleSuccess(c, app.Logger(), nil, map[string]any{"deleted": date})
	}
}
