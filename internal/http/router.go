package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/meishilabs/meishi/internal/service"
	"github.com/meishilabs/meishi/internal/store"
	"github.com/meishilabs/meishi/pkg/httpx"
	"github.com/meishilabs/meishi/pkg/slogx"

	_ "github.com/meishilabs/meishi/api/meishi" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store    store.Store
	cookies  CookieWriter
	Sessions *service.SessionService
	Users    *service.UserService
}

func NewRouter(
	buildVersion string,
	st store.Store,
	cookies CookieWriter,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		cookies:      cookies,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerUsers()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Meishi API
//	@version		0.1.0
//	@description	Link-in-bio profile service with fingerprint-bound JWT sessions.
//	@description
//	@description				Access tokens are HS256 JWTs bound to a per-session browser fingerprint
//	@description				delivered in the Secure-Fgp cookie. Verification requires both.
//
//	@contact.name				Meishi Labs
//	@contact.url				https://github.com/meishilabs/meishi
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}". The Secure-Fgp cookie must accompany it.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{
		Users:    r.Users,
		Sessions: r.Sessions,
		Cookies:  r.cookies,
	}

	// Login and signup intentionally carry no rate limiter; lockout and
	// throttling of credential attempts is left to the deployment's edge.
	r.Mux.Handle("POST /api/auth/signup", http.HandlerFunc(h.HandleSignup))
	r.Mux.Handle("POST /api/auth/login", http.HandlerFunc(h.HandleLogin))
	r.Mux.Handle("POST /api/auth/token", http.HandlerFunc(h.HandleRefresh))
	r.Mux.Handle("POST /api/auth/logout", http.HandlerFunc(h.HandleLogout))

	// checkToken only confirms what the guard already verified
	r.Mux.Handle("POST /api/auth/checkToken",
		httpx.Chain(http.HandlerFunc(h.HandleCheckToken),
			SessionGuard(r.Sessions),
		),
	)
}

func (r *Router) registerUsers() {
	h := &UsersHandler{Users: r.Users}

	// POST /check-username - moderate rate limit by IP (signup helper)
	r.Mux.Handle("POST /api/users/check-username",
		httpx.Chain(http.HandlerFunc(h.HandleCheckUsername),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// Own-profile endpoints - guarded, lenient limit
	r.Mux.Handle("GET /api/users/profile",
		httpx.Chain(http.HandlerFunc(h.HandleGetProfile),
			SessionGuard(r.Sessions),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("PATCH /api/users/profile",
		httpx.Chain(http.HandlerFunc(h.HandleUpdateProfile),
			SessionGuard(r.Sessions),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	// GET /{username} - public page data, high limit
	r.Mux.Handle("GET /api/users/{username}",
		httpx.Chain(http.HandlerFunc(h.HandlePublicProfile),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
