package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/soaringjerry/Persona/internal/middleware"
)

type loginRequest struct {
	Password string `json:"password" binding:"required"`
}

// POST /api/admin/login {password}
func (rt *Router) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		rt.badRequest(c, "request.invalid")
		return
	}
	res, err := rt.deps.Auth.Login(req.Password)
	if err != nil {
		rt.log.Warn("admin login failed", zap.String("client_ip", c.ClientIP()), zap.String("request_id", middleware.RequestID(c)))
		rt.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /api/admin/analytics
func (rt *Router) handleAnalytics(c *gin.Context) {
	sum, err := rt.deps.Analytics.Summary(c.Request.Context())
	if err != nil {
		rt.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

// GET /api/admin/export?format=long|summary
func (rt *Router) handleExport(c *gin.Context) {
	res, err := rt.deps.Export.ExportCSV(c.Request.Context(), c.Query("format"))
	if err != nil {
		rt.writeError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+res.Filename)
	c.Data(http.StatusOK, res.ContentType, res.Data)
}

// DELETE /api/admin/results
func (rt *Router) handleClear(c *gin.Context) {
	n, err := rt.deps.Results.ClearAll(c.Request.Context())
	if err != nil {
		rt.writeError(c, err)
		return
	}
	rt.log.Info("results cleared by admin", zap.Int("removed", n), zap.String("request_id", middleware.RequestID(c)))
	c.JSON(http.StatusOK, gin.H{"ok": true, "removed": n})
}
