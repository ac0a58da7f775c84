package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/pantrylabs/pantry/internal/auth/service"
	"github.com/pantrylabs/pantry/internal/auth/store"
	"github.com/pantrylabs/pantry/pkg/httpx"
	"github.com/pantrylabs/pantry/pkg/slogx"

	_ "github.com/pantrylabs/pantry/api/auth" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store       store.Store
	cookies     CookieConfig
	AuthService *service.AuthService
	UserService *service.UserService
}

func NewRouter(
	auth *service.AuthService,
	users *service.UserService,
	st store.Store,
	cookies CookieConfig,
	publicPaths []string,
	buildVersion string,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		cookies:      cookies,
		AuthService:  auth,
		UserService:  users,
		logger:       logger,
	}

	// Global middleware chain. Authentication runs on every request except
	// the excluded public prefixes; it never rejects, it only attaches the
	// identity. Handlers that need one opt in with RequireAuth.
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.AuthnMiddleware(auth.Codec, auth, publicPaths),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerSessions()
	r.registerUsers()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Pantry Authentication Service API
//	@version		0.1.0
//	@description	Token-based authentication: login issues a JWT access/refresh
//	@description	pair, the refresh token rides an HttpOnly cookie and rotates on
//	@description	every reissue.
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
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerSessions() {
	login := &LoginHandler{AuthService: r.AuthService, Cookies: r.cookies}
	reissue := &ReissueHandler{AuthService: r.AuthService, Cookies: r.cookies}
	logout := &LogoutHandler{AuthService: r.AuthService, Cookies: r.cookies}
	revoke := &SessionsRevokeHandler{AuthService: r.AuthService, Cookies: r.cookies}

	// POST /login - strict rate limit by IP + identifier to slow brute force
	r.Mux.Handle("POST /login",
		httpx.Chain(login,
			httpx.RateLimitByIPAndFormField(httpx.StrictLimit, "identifier"),
		),
	)

	// POST /reissue - moderate rate limit (one call per access expiry per client)
	r.Mux.Handle("POST /reissue",
		httpx.Chain(reissue,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// POST /logout - moderate rate limit
	r.Mux.Handle("POST /logout",
		httpx.Chain(logout,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// POST /v1/sessions/revoke - authenticated, moderate rate limit by subject
	r.Mux.Handle("POST /v1/sessions/revoke",
		httpx.Chain(revoke,
			httpx.RequireAuth(),
			httpx.RateLimitBySubject(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerUsers() {
	signup := &SignupHandler{UserService: r.UserService}
	userinfo := &UserInfoHandler{UserService: r.UserService}

	// POST /signup - strict rate limit by IP (public registration endpoint)
	r.Mux.Handle("POST /signup",
		httpx.Chain(signup,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// GET /v1/userinfo - authenticated, lenient rate limit by subject
	r.Mux.Handle("GET /v1/userinfo",
		httpx.Chain(userinfo,
			httpx.RequireAuth(),
			httpx.RateLimitBySubject(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
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
