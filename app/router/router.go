package router

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"enel-smeta/app/controller"
	"enel-smeta/metrics"
	"enel-smeta/models"
)

const requestIDHeader = "X-Request-ID"

type Controllers struct {
	Sheet *controller.SheetController
	Quote *controller.QuoteController
	Admin *controller.AdminController
}

// Options configures the HTTP engine
type Options struct {
	Environment    string
	AllowedOrigins []string
	AdminToken     string
	Metrics        *metrics.Recorder
	Log            zerolog.Logger
}

// pingHandler handles GET /ping
func pingHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// SetupRoutes builds the gin engine with CORS, request logging and every route
func SetupRoutes(controllers *Controllers, opts Options) *gin.Engine {
	if opts.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(opts.Log, opts.Metrics))
	r.Use(corsMiddleware(opts.AllowedOrigins, opts.Log))

	r.GET("/ping", pingHandler)
	r.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))

	// Calculator widget
	r.POST("/update-sheet", controllers.Sheet.UpdateSheet)
	r.GET("/get-sheet-table", controllers.Sheet.GetSheetTable)
	r.GET("/get-sheet-data", controllers.Sheet.GetSheetData)

	// Quote documents
	r.GET("/download-file", controllers.Quote.DownloadFile)
	r.GET("/quote", controllers.Quote.GetQuote)

	if opts.AdminToken == "" {
		opts.Log.Warn().Msg("⚠️  ADMIN_TOKEN is not set, admin routes disabled")
		return r
	}
	admin := r.Group("/admin", requireBearerToken(opts.AdminToken))
	admin.GET("/subscribers", controllers.Admin.GetSubscribers)
	admin.GET("/archive", controllers.Admin.GetArchive)
	admin.GET("/archive/:id", controllers.Admin.DownloadArchivedQuote)

	return r
}

// requireBearerToken rejects requests without "Authorization: Bearer <token>"
func requireBearerToken(token string) gin.HandlerFunc {
	expected := []byte("Bearer " + token)
	return func(c *gin.Context) {
		got := []byte(c.GetHeader("Authorization"))
		if subtle.ConstantTimeCompare(got, expected) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Error: "Требуется авторизация"})
			return
		}
		c.Next()
	}
}

// corsMiddleware allows requests without an Origin header and from the allow list
func corsMiddleware(allowedOrigins []string, log zerolog.Logger) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = struct{}{}
	}

	return cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			if _, ok := allowed[origin]; ok {
				return true
			}
			log.Warn().Str("origin", origin).Msg("🚫 Blocked origin")
			return false
		},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

// requestLogger tags every request with an id and logs method, url, origin, status and latency
func requestLogger(log zerolog.Logger, rec *metrics.Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(requestIDHeader, requestID)

		origin := c.GetHeader("Origin")
		if origin == "" {
			origin = "—"
		}

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		rec.IncHTTPRequest(c.Request.Method, route, status)

		log.Info().
			Str("request_id", requestID).
			Str("method", c.Request.Method).
			Str("url", c.Request.URL.RequestURI()).
			Str("origin", origin).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg(c.Request.Method + " " + c.Request.URL.RequestURI() + " ← " + origin)
	}
}
