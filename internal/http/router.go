package api

import (
	stdhttp "net/http"

	"finbase/internal/http/handlers"
	"finbase/internal/http/middleware"
	"finbase/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Deps carries everything the router wires into handlers. All services are
// constructed once at process start and passed by reference; no package
// holds global state.
type Deps struct {
	Gate     middleware.Gate
	Log      zerolog.Logger
	Registry *prometheus.Registry

	System   handlers.SystemHandler
	Auth     handlers.AuthHandler
	Projects handlers.ProjectHandler
	APIKeys  handlers.APIKeyHandler
	Contract handlers.ContractHandler
	Wallets  handlers.WalletHandler
	AIQuant  handlers.AIQuantHandler
	Forex    handlers.ForexHandler
	Members  handlers.MemberHandler
	Webhooks handlers.WebhookHandler

	CORSOrigins []string
}

func NewRouter(d Deps) *gin.Engine {
	registerValidations()

	r := gin.New()

	metrics := middleware.NewMetrics(d.Registry)
	r.Use(middleware.RequestID(), middleware.Logger(d.Log), gin.Recovery(), metrics.Handler())
	r.Use(corsMiddleware(d.CORSOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		d.Log.Warn().Err(err).Msg("failed to set trusted proxies")
	}

	r.NoRoute(func(c *gin.Context) {
		handlers.NotFound(c, "route not found")
	})

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{})))

	api := r.Group("/api")
	{
		api.GET("/health", d.System.Health)
		api.GET("/db-check", d.System.DBCheck)
	}

	v1 := api.Group("/v1")
	{
		authGroup := v1.Group("/auth")
		authGroup.POST("/login", d.Auth.Login)
		authGroup.POST("/register", d.Auth.Register)
		authGroup.GET("/me", d.Gate.RequireAuth(), d.Auth.Me)

		projects := v1.Group("/projects", d.Gate.RequireAuth())
		{
			projects.GET("", d.Projects.List)
			projects.POST("", d.Projects.Create)
			projects.GET("/:id", d.Projects.Get)
			projects.PATCH("/:id", d.Projects.Update)

			projects.POST("/:id/keys", d.APIKeys.Issue)
			projects.GET("/:id/keys", d.APIKeys.List)
			projects.DELETE("/:id/keys/:keyID", d.APIKeys.Revoke)

			projects.POST("/:id/contracts", d.Contract.Register)
			projects.GET("/:id/contracts", d.Contract.List)
			projects.GET("/:id/contracts/:contractID/state", d.Contract.State)
			projects.POST("/:id/contracts/:contractID/read", d.Contract.Read)

			projects.POST("/:id/wallets", d.Wallets.Provision)
			projects.GET("/:id/wallets", d.Wallets.List)
			projects.GET("/:id/wallets/:walletID/balance", d.Wallets.Balance)

			projects.POST("/:id/aiquant/orders", d.AIQuant.CreateOrder)
			projects.GET("/:id/aiquant/orders", d.AIQuant.ListOrders)
			projects.POST("/:id/aiquant/orders/:orderID/pause", d.AIQuant.PauseOrder)
			projects.POST("/:id/aiquant/orders/:orderID/resume", d.AIQuant.ResumeOrder)
			projects.GET("/:id/aiquant/portfolio", d.AIQuant.Portfolio)
			projects.GET("/:id/aiquant/portfolio/statement", d.AIQuant.Statement)

			projects.GET("/:id/forex/investments", d.Forex.ListInvestments)

			projects.GET("/:id/members", d.Members.List)
			projects.POST("/:id/members", d.Members.Add)
			projects.DELETE("/:id/members/:userID", d.Members.Remove)

			projects.POST("/:id/webhooks", d.Webhooks.Create)
			projects.GET("/:id/webhooks", d.Webhooks.List)
			projects.DELETE("/:id/webhooks/:hookID", d.Webhooks.Delete)
		}

		forex := v1.Group("/forex")
		{
			forex.GET("/pools", d.Gate.OptionalAuth(), d.Forex.ListPools)
			forex.POST("/pools", d.Gate.RequireAdmin(), d.Forex.CreatePool)
			forex.POST("/pools/:id/invest", d.Gate.RequireAuth(), d.Forex.Invest)
			forex.POST("/pools/:id/allocate", d.Gate.RequireAdmin(), d.Forex.Allocate)
			forex.POST("/investments/:id/redeem", d.Gate.RequireAuth(), d.Forex.Redeem)
		}

		admin := v1.Group("/admin", d.Gate.RequireAdmin())
		{
			admin.GET("/projects", d.Projects.ListAll)
		}
	}

	return r
}

// registerValidations installs the custom binding tags used by request
// structs (currently only "slug").
func registerValidations() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return services.IsSlug(fl.Field().String())
	})
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{stdhttp.MethodGet, stdhttp.MethodPost, stdhttp.MethodPatch, stdhttp.MethodDelete, stdhttp.MethodOptions}
	cfg.AllowHeaders = []string{"Content-Type", "Authorization", "Accept", "Origin", "X-Request-ID"}
	cfg.AllowCredentials = true
	if len(origins) == 0 {
		cfg.AllowCredentials = false
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}
