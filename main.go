package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"tixplate/auth"
	"tixplate/config"
	"tixplate/contact"
	"tixplate/db"
	"tixplate/events"
	"tixplate/geo"
	"tixplate/live"
	"tixplate/llm"
	"tixplate/logger"
	"tixplate/middleware"
	"tixplate/mq"
	"tixplate/payments"
	"tixplate/plates"
	"tixplate/ratelim"
	"tixplate/rdx"
	"tixplate/routes"
	"tixplate/utils"
)

func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		next.ServeHTTP(w, r)
	})
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Info("request",
			zap.String("method", r.Method),
			zap.String("uri", r.RequestURI),
			zap.String("remote", r.RemoteAddr),
		)
		next.ServeHTTP(w, r)
	})
}

func healthCheck(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": "ok"})
}

// buildHandler assembles every route and middleware layer around the
// injected repositories.
func buildHandler(cfg *config.Config, eventRepo *events.Repo, plateRepo *plates.Repo, userRepo *auth.Repo, contactRepo *contact.Repo, hub *live.Hub) http.Handler {
	authMiddleware := middleware.NewAuth(cfg.JWTSecret)
	rateLimiter := ratelim.NewRateLimiter()
	emitter := mq.NewEmitter(cfg.IndexerURL)
	cache := rdx.Connect(cfg.RedisAddr, cfg.RedisPass)

	eventHandler := &events.Handler{
		Store:     eventRepo,
		Geo:       geo.NewClient(cfg.GoogleAPIKey, cache),
		UploadDir: cfg.UploadDir,
		Emitter:   emitter,
		Live:      hub,
	}
	plateHandler := &plates.Handler{
		Store:   plateRepo,
		Gen:     llm.NewClient(cfg.OpenAIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel),
		Emitter: emitter,
	}
	userHandler := &auth.Handler{
		Users:     userRepo,
		Secret:    []byte(cfg.JWTSecret),
		UploadDir: cfg.UploadDir,
	}
	contactHandler := &contact.Handler{Store: contactRepo}
	paymentHandler := &payments.Handler{Intents: payments.NewClient(cfg.StripeKey)}

	router := httprouter.New()
	router.GET("/health", healthCheck)

	routes.AddUserRoutes(router, userHandler, rateLimiter)
	routes.AddEventRoutes(router, eventHandler, authMiddleware)
	routes.AddPlateRoutes(router, plateHandler, authMiddleware)
	routes.AddContactRoutes(router, contactHandler, rateLimiter)
	routes.AddPaymentRoutes(router, paymentHandler)
	routes.AddLiveRoutes(router, hub)
	routes.AddStaticRoutes(router, cfg.UploadDir)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "X-Requested-With", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})

	return middleware.Recover(loggingMiddleware(securityHeaders(c.Handler(router))))
}

func main() {
	logger.Init()
	defer logger.Sync()

	cfg := config.Load()
	if cfg.JWTSecret == "" {
		logger.Fatal("JWT_SECRET environment variable is not set")
	}

	ctx := context.Background()
	client, err := db.Open(ctx, cfg.MongoURI)
	if err != nil {
		logger.Fatal("could not connect to MongoDB", zap.Error(err))
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Error("mongo disconnect failed", zap.Error(err))
		}
	}()
	logger.Info("connected to MongoDB")

	database := client.Database(cfg.DBName)
	if err := db.EnsureIndexes(ctx, database); err != nil {
		logger.Warn("could not ensure indexes", zap.Error(err))
	}

	hub := live.NewHub()
	go hub.Run()

	handler := buildHandler(cfg,
		events.NewRepo(database),
		plates.NewRepo(database),
		auth.NewRepo(database),
		contact.NewRepo(database),
		hub,
	)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadTimeout:       7 * time.Second,
		// Generation requests chain several collaborator calls; the
		// write deadline has to outlive the slowest of them.
		WriteTimeout:      300 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	go func() {
		logger.Info("server started", zap.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("could not listen", zap.String("port", cfg.Port), zap.Error(err))
		}
	}()

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, os.Interrupt, syscall.SIGTERM)
	<-shutdownChan

	logger.Info("shutdown signal received, shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server shutdown failed", zap.Error(err))
	}

	logger.Info("server stopped cleanly")
}
