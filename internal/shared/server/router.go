package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobcompass-server/internal/resumes"
	"jobcompass-server/internal/shared/config"
	"jobcompass-server/internal/shared/metrics"
	"jobcompass-server/internal/shared/server/middleware"
	"jobcompass-server/internal/shared/server/respond"
	"jobcompass-server/internal/uploads"
)

const pipelineRateGroup = "PIPELINE"

// RouterDeps carries the handlers the router wires up.
type RouterDeps struct {
	Config          config.Config
	PipelineHandler *resumes.Handler
	UploadsHandler  *uploads.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules: map[string]middleware.RateLimitRule{
				pipelineRateGroup: {Rate: 0.5, Burst: 5},
			},
			GroupFor: func(c *gin.Context) string {
				switch c.FullPath() {
				case "/upload", "/analyze-resume":
					return pipelineRateGroup
				default:
					return ""
				}
			},
		}),
	)

	r.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/metrics", metrics.Handler())

	root := r.Group("/")
	if deps.PipelineHandler != nil {
		deps.PipelineHandler.RegisterRoutes(root)
	}
	if deps.UploadsHandler != nil {
		deps.UploadsHandler.RegisterRoutes(root)
	}

	// The local store mints URLs under /files; serve them back so stored
	// blobs stay retrievable without S3.
	if deps.Config.ObjectStoreType == "local" {
		r.StaticFS("/files", http.Dir(deps.Config.LocalStoreDir))
	}

	return r
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
