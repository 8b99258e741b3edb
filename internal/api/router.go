package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/soaringjerry/Persona/internal/middleware"
	"github.com/soaringjerry/Persona/internal/services"
	"github.com/soaringjerry/Persona/internal/utils"
)

// BuildInfo is reported by /health and /version.
type BuildInfo struct {
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
}

// Deps are the services the router dispatches to.
type Deps struct {
	Results   *services.ResultService
	Share     *services.ShareService
	Auth      *services.AuthService
	Analytics *services.AnalyticsService
	Export    *services.ExportService
	Keys      *middleware.TokenKeys
	Log       *zap.Logger
	Build     BuildInfo
	Frontend  Frontend
}

type Router struct {
	deps   Deps
	engine *services.ScoringEngine
	log    *zap.Logger
}

func NewRouter(deps Deps) *Router {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Router{deps: deps, engine: deps.Results.Engine(), log: log}
}

// Handler builds the gin engine with the full middleware chain.
func (rt *Router) Handler() *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestLogger(rt.log),
		middleware.Locale(),
		middleware.Recovery(rt.log),
		middleware.CORS(),
		middleware.SecureHeaders(),
		middleware.NoStore(),
	)
	rt.Register(r)
	rt.deps.Frontend.mount(r, rt.log)
	return r
}

func (rt *Router) Register(r gin.IRouter) {
	r.GET("/health", rt.handleHealth)
	r.GET("/version", rt.handleVersion)

	api := r.Group("/api")
	api.GET("/questions", rt.handleQuestions)
	api.GET("/traits", rt.handleTraits)
	api.GET("/types/:type", rt.handleType)
	api.POST("/score", rt.handleScore)
	api.POST("/classify", rt.handleClassify)

	api.POST("/results", rt.handleSubmit)
	api.GET("/results", rt.handleHistory)
	api.GET("/results/:timestamp", rt.handleResult)
	api.GET("/results/:timestamp/report", rt.handleReport)
	api.POST("/results/:timestamp/share", rt.handleCreateShare)
	api.GET("/shared/:token", rt.handleShared)

	api.POST("/admin/login", rt.handleLogin)
	admin := api.Group("/admin", middleware.RequireAdmin(rt.deps.Keys))
	admin.GET("/analytics", rt.handleAnalytics)
	admin.GET("/export", rt.handleExport)
	admin.DELETE("/results", rt.handleClear)
}

func (rt *Router) handleHealth(c *gin.Context) {
	locale := middleware.LocaleFrom(c)
	c.JSON(http.StatusOK, gin.H{
		"ok":         true,
		"name":       "Persona API",
		"locale":     locale,
		"msg":        utils.T(locale, "health.ok"),
		"commit":     rt.deps.Build.Commit,
		"build_time": rt.deps.Build.BuildTime,
	})
}

func (rt *Router) handleVersion(c *gin.Context) {
	c.JSON(http.StatusOK, rt.deps.Build)
}
