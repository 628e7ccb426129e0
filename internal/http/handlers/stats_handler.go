// Dashboard HTTP handler.
//
// This file exposes the read side of the metrics store:
//   - GET /stats  (aggregated, anonymized dashboard payload, ETag support)
//
// The payload never contains raw records: all privacy rules (k-anonymity
// gate, display-name redaction, date-only timestamps) are applied by the
// stats service before anything reaches this layer.
package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/e20residents/campaign-backend/internal/repo"
	"github.com/e20residents/campaign-backend/internal/services"
)

// todayStamp returns the current calendar day in server local time, matching
// the stats service's default day boundary.
func todayStamp() string {
	return time.Now().Format("2006-01-02")
}

// GetStats godoc
// @ID          getStats
// @Summary     Dashboard statistics
// @Description Returns the aggregated participation snapshot: totals, today's count, unique postcodes, the gated per-postcode breakdown, the redacted recent feed, and the daily series. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Stats
// @Produce     json
//
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"  example(W/\"stats:42:1717400000\")
//
// @Success     200  {object} services.DashboardStats
// @Header      200  {string} ETag "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     500  {object} handlers.ErrorResponse "Storage failure"
// @Router      /stats [get]
func (h *Handlers) GetStats(c *gin.Context) {
	ctx := c.Request.Context()

	// ETag pre-check (best effort). The snapshot changes only when a record
	// is inserted or the store is cleared, so count plus newest timestamp
	// identifies it. EmailsToday shifting at midnight is covered by the
	// date-sensitive suffix.
	var db *gorm.DB
	if svc, ok := h.statsSvc.(*services.StatsService); ok {
		db = svc.DB
	}
	if db != nil {
		count, maxTS, err := repo.SubmissionStats(ctx, db)
		if err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.Unix()
			}
			etag := fmt.Sprintf(`W/"stats:%d:%d:%s"`, count, ts, todayStamp())
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	stats, err := h.statsSvc.Snapshot(ctx)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeStatsFailed, "could not compute statistics")
		return
	}
	ok(c, http.StatusOK, stats)
}
