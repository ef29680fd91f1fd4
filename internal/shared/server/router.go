package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"brainplan/internal/shared/config"
	"brainplan/internal/shared/metrics"
	"brainplan/internal/shared/server/middleware"
	"brainplan/internal/web"
)

const submitRateGroup = "SUBMIT"

// RouterDeps lists the handlers mounted by NewRouter.
type RouterDeps struct {
	Config     config.Config
	Web        *web.Handler
	API        *web.APIHandler
	RateLimits *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.SetHTMLTemplate(web.Templates())

	r.Use(
		middleware.RequestID(),
		middleware.Session(deps.Config.Env),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules: map[string]middleware.RateLimitRule{
				submitRateGroup: {Rate: deps.Config.SubmitRate, Burst: deps.Config.SubmitBurst},
			},
			GroupFor: rateGroup,
			Limiter:  deps.RateLimits,
		}),
	)

	r.GET("/metrics", metrics.Handler())
	if deps.Web != nil {
		deps.Web.RegisterRoutes(r)
	}
	if deps.API != nil {
		deps.API.RegisterRoutes(r.Group("/api/v1"))
	}
	if deps.Config.DemoBackend {
		web.DemoBackend{}.RegisterRoutes(r)
	}
	return r
}

// rateGroup limits submissions only; reads and the demo backend are
// unthrottled.
func rateGroup(c *gin.Context) string {
	if c.Request.Method != http.MethodPost {
		return ""
	}
	switch c.FullPath() {
	case "/brainstorm", "/api/v1/submissions":
		return submitRateGroup
	}
	return ""
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
