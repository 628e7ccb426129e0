// Admin HTTP handlers.
//
// This file exposes the development/operations surface:
//   - POST /admin/reset  (clear the metrics store)
//   - POST /admin/seed   (insert synthetic records for dashboard work)
//
// The whole surface is disabled by default. When disabled, routes answer 404
// so their existence is not advertised. When a token is configured, requests
// must carry it in X-Admin-Token.
package handlers

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/e20residents/campaign-backend/internal/utils"
)

// seed count bounds for POST /admin/seed.
const (
	defaultSeedCount = 20
	maxSeedCount     = 500
)

// AdminGuard gates the admin route group. Disabled deployments answer 404,
// token mismatches 403.
func (h *Handlers) AdminGuard() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !h.adminEnabled {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "route not found")
			return
		}
		if h.adminToken != "" {
			got := c.GetHeader("X-Admin-Token")
			if subtle.ConstantTimeCompare([]byte(got), []byte(h.adminToken)) != 1 {
				fail(c, http.StatusForbidden, ErrCodeForbidden, "invalid admin token")
				return
			}
		}
		c.Next()
	}
}

// ResetMetrics godoc
// @ID          resetMetrics
// @Summary     Clear the metrics store
// @Description Irreversibly removes every participation record. Intended for development and test deployments only.
// @Tags        Admin
//
// @Param       X-Admin-Token  header  string  false "Admin token (when configured)"
//
// @Success     204  {string} string "No Content"
// @Failure     403  {object} handlers.ErrorResponse "Invalid admin token"
// @Failure     404  {object} handlers.ErrorResponse "Admin surface disabled"
// @Failure     500  {object} handlers.ErrorResponse "Storage failure"
// @Router      /admin/reset [post]
func (h *Handlers) ResetMetrics(c *gin.Context) {
	if err := h.metricsSvc.ClearAll(c.Request.Context()); err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeResetFailed, "could not clear metrics")
		return
	}
	noContent(c)
}

// SeedMetricsResponse reports how many synthetic records were inserted.
type SeedMetricsResponse struct {
	Inserted int `json:"inserted" example:"20"`
}

// SeedMetrics godoc
// @ID          seedMetrics
// @Summary     Seed synthetic metrics
// @Description Inserts synthetic in-area participation records so the dashboard can be exercised without real submissions.
// @Tags        Admin
// @Produce     json
//
// @Param       X-Admin-Token  header  string  false "Admin token (when configured)"
// @Param       count          query   int     false "Records to insert"  minimum(1) maximum(500) default(20)
//
// @Success     201  {object} handlers.SeedMetricsResponse
// @Failure     403  {object} handlers.ErrorResponse "Invalid admin token"
// @Failure     404  {object} handlers.ErrorResponse "Admin surface disabled"
// @Failure     500  {object} handlers.ErrorResponse "Storage failure"
// @Router      /admin/seed [post]
func (h *Handlers) SeedMetrics(c *gin.Context) {
	count := utils.ClampInt(utils.AtoiDefault(c.Query("count"), defaultSeedCount), 1, maxSeedCount)

	inserted, err := h.metricsSvc.Seed(c.Request.Context(), count)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeSeedFailed, "could not seed metrics")
		return
	}
	ok(c, http.StatusCreated, SeedMetricsResponse{Inserted: len(inserted)})
}
