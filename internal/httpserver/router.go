package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"storefront-web/internal/dashboard"
	"storefront-web/internal/logging"
	sessionsvc "storefront-web/internal/service/session"
)

const sessionCookieName = "storefront_session"

// SessionService starts, resolves and ends browser sessions.
type SessionService interface {
	Start(ctx context.Context, email, password string) (*sessionsvc.Handle, error)
	Lookup(ctx context.Context, id string) (*sessionsvc.Handle, error)
	End(ctx context.Context, id string) error
}

// QRGenerator renders a PNG QR code.
type QRGenerator interface {
	PNG(content string) ([]byte, error)
}

// Pinger is the readiness probe of the session cache.
type Pinger interface {
	Ping(ctx context.Context) *redis.StatusCmd
}

// Deps groups the collaborators the HTTP handlers need.
type Deps struct {
	Sessions   SessionService
	Dashboards *dashboard.Registry
	// API returns the storefront API client acting for token.
	API   func(token string) dashboard.API
	QR    QRGenerator
	Redis Pinger

	FileURLHost      string
	SessionSecret    string
	SessionTTL       time.Duration
	SecureCookies    bool
	CORSAllowOrigins []string
	// RenderWait bounds how long a page render waits for panel loads.
	RenderWait time.Duration
}

// buildRouter wires routes for the web app and its JSON API.
func buildRouter(logger *zap.Logger, db *pgxpool.Pool, deps Deps) (*gin.Engine, error) {
	logger = logging.OrNop(logger)
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	if deps.RenderWait <= 0 {
		deps.RenderWait = 3 * time.Second
	}

	tmpl, err := loadTemplates(deps.FileURLHost)
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.SetHTMLTemplate(tmpl)
	router.Use(requestIDMiddleware(), loggerMiddleware(logger), gin.Recovery())
	if len(deps.CORSAllowOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     deps.CORSAllowOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPut, http.MethodOptions},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", headerRequestID},
			ExposeHeaders:    []string{"Content-Length", headerRequestID},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	store := cookie.NewStore([]byte(deps.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(deps.SessionTTL.Seconds()),
		Secure:   deps.SecureCookies,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	router.Use(sessions.Sessions(sessionCookieName, store))

	router.StaticFS("/static", http.FS(staticFiles()))
	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db, deps.Redis))

	h := &handlers{deps: deps, logger: logger}
	router.GET("/", h.home)
	router.GET("/login", h.loginPage)
	router.POST("/login", h.login)

	authed := requireSession(deps.Sessions, logger)
	router.POST("/logout", authed, h.logout)

	dash := router.Group("/dashboard", authed, noStore())
	{
		dash.GET("", h.dashboardPage)
		dash.POST("/profile/edit", h.beginProfileEdit)
		dash.POST("/profile/cancel", h.cancelProfileEdit)
		dash.POST("/profile", h.submitProfile)
		dash.POST("/password", h.submitPassword)
		dash.POST("/photo", h.uploadPhoto)
		dash.POST("/address/edit", h.beginAddressEdit)
		dash.POST("/address/cancel", h.cancelAddressEdit)
		dash.POST("/address", h.submitAddress)
		dash.POST("/support", h.submitTicket)
		dash.GET("/referrals/qr.png", h.referralQR)
	}

	api := router.Group("/api", authed, noStore())
	{
		api.GET("/dashboard", h.dashboardJSON)
		api.PUT("/dashboard/section", h.selectSectionJSON)
	}

	return router, nil
}
