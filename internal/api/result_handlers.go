package api

import (
	"net/http"
	"slices"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/soaringjerry/Persona/internal/models"
	"github.com/soaringjerry/Persona/internal/services"
)

type submitRequest struct {
	Answers []models.AnswerChoice `json:"answers" binding:"required"`
}

func (rt *Router) timestampParam(c *gin.Context) (int64, bool) {
	ts, err := strconv.ParseInt(c.Param("timestamp"), 10, 64)
	if err != nil || ts <= 0 {
		rt.badRequest(c, "result.invalid_timestamp")
		return 0, false
	}
	return ts, true
}

// POST /api/results {answers}
func (rt *Router) handleSubmit(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		rt.badRequest(c, "request.invalid")
		return
	}
	res, err := rt.deps.Results.Submit(c.Request.Context(), req.Answers)
	if err != nil {
		rt.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// GET /api/results
func (rt *Router) handleHistory(c *gin.Context) {
	hist, err := rt.deps.Results.History(c.Request.Context())
	if err != nil {
		rt.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(hist), "results": hist})
}

// GET /api/results/:timestamp
func (rt *Router) handleResult(c *gin.Context) {
	ts, ok := rt.timestampParam(c)
	if !ok {
		return
	}
	r, err := rt.deps.Results.Result(c.Request.Context(), ts)
	if err != nil {
		rt.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": r, "type": services.Classify(r.TraitLetters)})
}

// GET /api/results/:timestamp/report?section=
func (rt *Router) handleReport(c *gin.Context) {
	ts, ok := rt.timestampParam(c)
	if !ok {
		return
	}
	section := c.Query("section")
	if section != "" && !slices.Contains(services.Sections, section) {
		rt.badRequest(c, "report.unknown_section")
		return
	}
	v, err := rt.deps.Results.View(c.Request.Context(), ts)
	if err != nil {
		rt.writeError(c, err)
		return
	}
	if section == "" || section == services.SectionShare {
		if err := rt.deps.Share.Attach(v); err != nil {
			rt.writeError(c, err)
			return
		}
	}
	rt.writeView(c, v, section)
}

// POST /api/results/:timestamp/share
func (rt *Router) handleCreateShare(c *gin.Context) {
	ts, ok := rt.timestampParam(c)
	if !ok {
		return
	}
	link, err := rt.deps.Share.Create(c.Request.Context(), ts)
	if err != nil {
		rt.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, link)
}

// GET /api/shared/:token?section=
func (rt *Router) handleShared(c *gin.Context) {
	section := c.Query("section")
	if section != "" && !slices.Contains(services.Sections, section) {
		rt.badRequest(c, "report.unknown_section")
		return
	}
	v, err := rt.deps.Share.Resolve(c.Request.Context(), c.Param("token"))
	if err != nil {
		rt.writeError(c, err)
		return
	}
	rt.writeView(c, v, section)
}

// writeView sends the whole view or one section of it. Shared views carry no
// share section, so asking for it there is a bad request.
func (rt *Router) writeView(c *gin.Context, v *services.ResultView, section string) {
	if section == "" {
		c.JSON(http.StatusOK, v)
		return
	}
	data, ok := v.Section(section)
	if !ok {
		rt.badRequest(c, "report.unknown_section")
		return
	}
	c.JSON(http.StatusOK, gin.H{"timestamp": v.Timestamp, "type": v.Type, "section": section, "data": data})
}
