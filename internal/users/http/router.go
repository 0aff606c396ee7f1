package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/userapi/internal/users/domain"
	"github.com/aussiebroadwan/userapi/internal/users/service"
	"github.com/aussiebroadwan/userapi/pkg/httpx"
	"github.com/aussiebroadwan/userapi/pkg/slogx"

	_ "github.com/aussiebroadwan/userapi/api/users" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// MaxRequestBody caps every request body.
const MaxRequestBody = 1 << 20

var byUser = httpx.CompositeKeyExtractor(":", httpx.IdentityKeyExtractor, httpx.IPKeyExtractor)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware
	handler     http.Handler

	verifier     httpx.TokenVerifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	db       Pinger
	denylist Pinger
	metrics  *httpx.Metrics
	limiters []*httpx.RateLimiter

	TokenService *service.TokenService
	UserService  *service.UserService

	// EnableTestRoutes exposes GET /api/usersTest without authentication.
	EnableTestRoutes bool
}

// NewRouter creates a router. metrics may be nil, which disables /metrics
// and request instrumentation.
func NewRouter(
	buildVersion string,
	db, denylist Pinger,
	metrics *httpx.Metrics,
	logger *slog.Logger,
) *Router {
	if logger == nil {
		logger = slog.Default()
	}

	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		db:           db,
		denylist:     denylist,
		metrics:      metrics,
	}

	// Set default middleware chain. Recover sits inside the request logger
	// so panics carry req_id, and metrics sits innermost so it sees the
	// pattern the mux matched.
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.Recover(),
		httpx.MaxBodyBytes(MaxRequestBody),
	}
	if metrics != nil {
		r.middlewares = append(r.middlewares, metrics.Middleware)
	}

	return r
}

// ApplyRoutes registers every route and builds the middleware chain. It
// must run once, after TokenService and UserService are set and before the
// router serves requests.
func (r *Router) ApplyRoutes() {
	r.verifier = tokenVerifier(r.TokenService)

	r.registerAuth()
	r.registerUsers()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
	r.handler = httpx.Chain(r.Mux, r.middlewares...)
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			User Management API
//	@version		0.1.0
//	@description	Registration, login and user administration guarded by signed identity tokens.
//	@description
//	@description				Tokens are HS256-signed JWTs valid for one hour. Every error body has the shape {"message": "..."}.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/userapi
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
//	@description				Identity token from /api/login. Format: "Bearer {token}" or the bare token.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.handler.ServeHTTP(w, req)
}

// PurgeRateLimiters drops limiter buckets idle for longer than idle and
// returns how many were removed.
func (r *Router) PurgeRateLimiters(idle time.Duration) int {
	var n int
	for _, rl := range r.limiters {
		n += rl.Purge(idle)
	}
	return n
}

// limit builds a rate limiter that the router can later purge.
func (r *Router) limit(cfg httpx.RateLimitConfig, key httpx.KeyExtractor) httpx.Middleware {
	rl := httpx.NewRateLimiter(cfg, key)
	if r.metrics != nil {
		rl.OnReject(r.metrics.CountRateLimited)
	}
	r.limiters = append(r.limiters, rl)
	return rl.Middleware()
}

// authed puts h behind Authn, an optional role check and a per-user rate
// limit, in that order.
func (r *Router) authed(h httpx.IdentityHandler, cfg httpx.RateLimitConfig, roles ...string) http.Handler {
	h = httpx.IdentityMiddleware(r.limit(cfg, byUser))(h)
	if len(roles) > 0 {
		h = httpx.RequireRole(roles...)(h)
	}
	return httpx.Authn(r.verifier, h)
}

func (r *Router) registerAuth() {
	// POST /api/register - strict rate limit by IP (account creation)
	r.Mux.Handle("POST /api/register",
		httpx.Chain(&RegisterHandler{UserService: r.UserService},
			r.limit(httpx.StrictLimit, httpx.IPKeyExtractor),
		),
	)

	// POST /api/login - strict rate limit by IP + username to slow brute force
	r.Mux.Handle("POST /api/login",
		httpx.Chain(&LoginHandler{UserService: r.UserService},
			r.limit(httpx.StrictLimit, httpx.CompositeKeyExtractor(":",
				httpx.IPKeyExtractor,
				httpx.BodyFieldKeyExtractor("username"),
			)),
		),
	)

	r.Mux.Handle("POST /api/logout",
		r.authed(&LogoutHandler{TokenService: r.TokenService}, httpx.ModerateLimit),
	)

	r.Mux.Handle("PUT /api/users/change-password",
		r.authed(&ChangePasswordHandler{UserService: r.UserService}, httpx.StrictLimit),
	)
}

func (r *Router) registerUsers() {
	admin := domain.RoleAdmin.String()
	list := &ListUsersHandler{UserService: r.UserService}

	r.Mux.Handle("GET /api/users",
		r.authed(anyIdentity(list), httpx.LenientLimit, admin),
	)
	r.Mux.Handle("GET /api/users/search",
		r.authed(anyIdentity(&SearchUsersHandler{UserService: r.UserService}), httpx.LenientLimit, admin),
	)
	r.Mux.Handle("PUT /api/users/{id}",
		r.authed(anyIdentity(&UpdateUserHandler{UserService: r.UserService}), httpx.ModerateLimit),
	)
	r.Mux.Handle("DELETE /api/users/{id}",
		r.authed(anyIdentity(&DeleteUserHandler{UserService: r.UserService}), httpx.ModerateLimit, admin),
	)

	if r.EnableTestRoutes {
		r.logger.Warn("unauthenticated test routes enabled", "route", "GET /api/usersTest")
		r.Mux.Handle("GET /api/usersTest",
			httpx.Chain(list, r.limit(httpx.LenientLimit, httpx.IPKeyExtractor)),
		)
	}
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			r.limit(httpx.LenientLimit, httpx.IPKeyExtractor),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.db, r.denylist),
			r.limit(httpx.LenientLimit, httpx.IPKeyExtractor),
		),
	)

	if r.metrics != nil {
		r.Mux.Handle("GET /metrics", r.metrics.Handler())
	}
}
