package http

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/brandstorm-backend/internal/http/handlers"
	httpMW "github.com/yungbote/brandstorm-backend/internal/http/middleware"
	"github.com/yungbote/brandstorm-backend/internal/observability"
	"github.com/yungbote/brandstorm-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log     *logger.Logger
	Metrics *observability.Metrics

	HealthHandler     *httpH.HealthHandler
	SuggestionHandler *httpH.SuggestionHandler
	ChatHandler       *httpH.ChatHandler
	RealtimeHandler   *httpH.RealtimeHandler

	CORSOrigins    []string
	StaticDir      string
	TracingEnabled bool
	ServiceName    string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.TracingEnabled {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	// The browser client talks to /api; the bare paths stay for direct callers.
	registerRoutes(r.Group("/"), cfg)
	registerRoutes(r.Group("/api"), cfg)

	if dir := strings.TrimSpace(cfg.StaticDir); dir != "" {
		mountStatic(r, dir)
	}
	return r
}

func registerRoutes(g *gin.RouterGroup, cfg RouterConfig) {
	// Suggestions
	if h := cfg.SuggestionHandler; h != nil {
		g.GET("/suggestions", h.List)
		g.POST("/suggestions", h.Create)
		g.GET("/suggestions/:id", h.Get)
		g.PUT("/suggestions/:id", h.Update)
		g.DELETE("/suggestions/:id", h.Delete)
		g.POST("/suggestions/:id/vote", h.Vote)
	}

	// Chat
	if h := cfg.ChatHandler; h != nil {
		g.GET("/chat", h.List)
		g.POST("/chat", h.Post)
		g.POST("/chat/clear", h.Clear)
	}

	// Realtime
	if h := cfg.RealtimeHandler; h != nil {
		g.GET("/realtime/stream", h.SSEStream)
		g.GET("/realtime/ws", h.WebSocket)
	}
}

// mountStatic serves files from dir and falls back to index.html for
// unknown GET paths.
func mountStatic(r *gin.Engine, dir string) {
	index := filepath.Join(dir, "index.html")
	r.NoRoute(func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"message": "route not found", "code": "not_found"}})
			return
		}
		rel := filepath.Clean("/" + c.Request.URL.Path)
		if rel != "/" {
			p := filepath.Join(dir, rel)
			if st, err := os.Stat(p); err == nil && !st.IsDir() {
				c.File(p)
				return
			}
		}
		if _, err := os.Stat(index); err != nil {
			c.String(http.StatusOK, "Welcome to Brainstorm! Frontend not yet built.")
			return
		}
		c.File(index)
	})
}
