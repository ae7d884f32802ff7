package router

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/mediconnect/ehr-api/internal/handler"
	"github.com/mediconnect/ehr-api/internal/handler/prometheus"
	"github.com/mediconnect/ehr-api/internal/middleware"
)

type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

type Config struct {
	RateLimitEnabled bool
	RateLimit        rate.Limit
	RateBurst        int
	CORS             middleware.CORSConfig
}

type Router struct {
	engine   *gin.Engine
	authH    Handler
	patientH Handler
	h        *handler.Handler
	promH    *prometheus.Handler
	config   Config
}

func NewRouter(authH, patientH Handler, h *handler.Handler, promH *prometheus.Handler, config Config) *Router {
	gin.SetMode(gin.ReleaseMode)

	return &Router{
		engine:   gin.New(),
		authH:    authH,
		patientH: patientH,
		h:        h,
		promH:    promH,
		config:   config,
	}
}

func (r *Router) Setup() {
	r.engine.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(r.config.CORS),
		middleware.ErrorHandler(),
		r.promH.Middleware(),
	)

	if r.config.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
			Rate:  r.config.RateLimit,
			Burst: r.config.RateBurst,
		})
		r.engine.Use(limiter.RateLimit())
	}

	r.engine.GET("/health", r.h.HealthCheck)
	r.engine.GET("/metrics", r.promH.Handler())

	api := r.engine.Group("/api/v1")
	r.authH.RegisterRoutes(api)
	r.patientH.RegisterRoutes(api)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
