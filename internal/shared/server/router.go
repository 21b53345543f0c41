package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"pdfmark-backend/internal/annotations"
	googleauth "pdfmark-backend/internal/auth"
	"pdfmark-backend/internal/documents"
	sharedauth "pdfmark-backend/internal/shared/auth"
	"pdfmark-backend/internal/shared/config"
	"pdfmark-backend/internal/shared/metrics"
	"pdfmark-backend/internal/shared/server/middleware"
	"pdfmark-backend/internal/shared/server/respond"
	"pdfmark-backend/internal/summarize"
	"pdfmark-backend/internal/users"
)

// RouterDeps carries the wired handlers the router needs.
type RouterDeps struct {
	Config             config.Config
	Tokens             *sharedauth.Tokens
	DocumentsHandler   *documents.Handler
	AnnotationsHandler *annotations.Handler
	SummaryHandler     *summarize.Handler
	UsersHandler       *users.Handler
	GoogleAuth         *googleauth.GoogleService
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
		middleware.Auth(deps.Tokens),
		middleware.RateLimit(middleware.RateLimitConfig{
			GroupFor: rateLimitGroup,
			Rules: map[string]middleware.RateLimitRule{
				// Summaries hit the LLM provider, so they get a tight budget.
				"SUMMARIZE": {Rate: 0.2, Burst: 3},
			},
		}),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(api)
	}
	if deps.UsersHandler != nil {
		deps.UsersHandler.RegisterRoutes(api)
	}
	if deps.DocumentsHandler != nil {
		deps.DocumentsHandler.RegisterRoutes(api)
	}
	if deps.AnnotationsHandler != nil {
		deps.AnnotationsHandler.RegisterRoutes(api)
	}
	if deps.SummaryHandler != nil {
		deps.SummaryHandler.RegisterRoutes(api)
	}

	return r
}

func rateLimitGroup(c *gin.Context) string {
	if c.Request.Method == http.MethodPost && strings.HasSuffix(c.Request.URL.Path, "/summary") {
		return "SUMMARIZE"
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
