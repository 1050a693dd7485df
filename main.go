package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"finbase/internal/auth"
	"finbase/internal/cache"
	"finbase/internal/chain"
	"finbase/internal/config"
	api "finbase/internal/http"
	"finbase/internal/http/handlers"
	"finbase/internal/http/middleware"
	"finbase/internal/logging"
	"finbase/internal/mpc"
	"finbase/internal/repositories"
	"finbase/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	log := logging.New("finbase")

	env, err := config.LoadEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid environment")
	}
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	db, err := config.OpenDB(env.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer db.Close()

	// Cache is optional. A nil *cache.Cache is safe to use; contract-state
	// reads just go straight to the chain node.
	var stateCache *cache.Cache
	if env.RedisURL != "" {
		stateCache, err = cache.New(context.Background(), env.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("redis connection failed")
		}
	}

	chainClient, err := chain.NewClient(chain.Config{
		RPCURL:  env.ChainRPCURL,
		Timeout: env.ChainTimeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("chain client setup failed")
	}

	var mpcClient *mpc.Client
	if env.MPCBaseURL != "" {
		mpcClient = mpc.NewClient(env.MPCBaseURL, env.MPCAPIKey)
	}

	users := repositories.UserRepository{DB: db}
	projects := repositories.ProjectRepository{DB: db}
	keys := repositories.APIKeyRepository{DB: db}
	contracts := repositories.ContractRepository{DB: db}
	wallets := repositories.WalletRepository{DB: db}
	orders := repositories.OrderRepository{DB: db}
	pools := repositories.PoolRepository{DB: db}
	investments := repositories.InvestmentRepository{DB: db}
	members := repositories.MemberRepository{DB: db}
	webhooks := repositories.WebhookRepository{DB: db}

	access := services.Access{Projects: projects}
	verifier := auth.TokenVerifier{Secret: []byte(env.JWTSecret)}
	gate := middleware.Gate{
		Verifier: verifier,
		Resolver: auth.Resolver{Users: users},
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	r := api.NewRouter(api.Deps{
		Gate:     gate,
		Log:      log,
		Registry: registry,

		System: handlers.SystemHandler{DB: db},
		Auth: handlers.AuthHandler{
			Users:    users,
			Verifier: verifier,
			TokenTTL: env.TokenTTL,
			Log:      log,
		},
		Projects: handlers.ProjectHandler{
			Service: services.ProjectService{Projects: projects, Access: access},
			Log:     log,
		},
		APIKeys: handlers.APIKeyHandler{
			Service: services.APIKeyService{Keys: keys, Access: access},
			Log:     log,
		},
		Contract: handlers.ContractHandler{
			Service: services.ContractService{
				Contracts: contracts,
				Chain:     chainClient,
				Cache:     stateCache,
				Access:    access,
				Log:       log,
			},
			Log: log,
		},
		Wallets: handlers.WalletHandler{
			Service: services.WalletService{
				Wallets:  wallets,
				Provider: mpcClient,
				Access:   access,
				Log:      log,
			},
			Log: log,
		},
		AIQuant: handlers.AIQuantHandler{
			Service: services.AIQuantService{
				Orders:   orders,
				Projects: projects,
				Access:   access,
			},
			Log: log,
		},
		Forex: handlers.ForexHandler{
			Service: services.ForexService{
				Pools:       pools,
				Investments: investments,
				Access:      access,
			},
			Log: log,
		},
		Members: handlers.MemberHandler{
			Service: services.MemberService{Members: members, Users: users, Access: access},
			Log:     log,
		},
		Webhooks: handlers.WebhookHandler{
			Service: services.WebhookService{Webhooks: webhooks, Access: access},
			Log:     log,
		},

		CORSOrigins: env.CORSOrigins(),
	})

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", env.AppAddr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("shutdown failed")
	}

	log.Info().Msg("server stopped")
}
