package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"lireddit/internal/config"
	"lireddit/internal/db"
	"lireddit/internal/handlers"
	"lireddit/internal/kv"
	"lireddit/internal/logging"
	"lireddit/internal/metrics"
	"lireddit/internal/middleware"
	"lireddit/internal/resolvers"
	"lireddit/internal/router"
	"lireddit/internal/services"
	"lireddit/internal/session"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run migrations and start the GraphQL server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func runServe() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.Env)
	if err != nil {
		return errors.Wrap(err, "building logger")
	}
	defer func() { _ = log.Sync() }()

	conn, err := db.Open(cfg.Database, log)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close(conn) }()
	if err := db.Migrate(conn); err != nil {
		return err
	}
	log.Info("Database migration completed")

	store, err := kv.Open(cfg.KV.Dir, log)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	sessionStore := session.NewStore(store, []byte(cfg.Session.Secret), sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.Session.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})

	users := services.NewUserService(conn)
	auth := services.NewAuthService(conn, users, store, services.NewMailService(cfg, log), cfg.FrontendURL, log)
	posts := services.NewPostService(conn, log)

	schema, err := resolvers.NewSchema(resolvers.New(auth, posts, users, log), cfg.GraphQL)
	if err != nil {
		return errors.Wrap(err, "parsing graphql schema")
	}
	m := metrics.New(resolvers.RootFields(schema))

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger(log))
	r.Use(sessions.Sessions(cfg.Session.CookieName, sessionStore))
	r.HTMLRender = handlers.LoadTemplates()

	router.RegisterRoutes(r, router.Deps{
		GraphQL:    handlers.NewGraphQLHandler(schema, m, log, !cfg.IsProduction()),
		Health:     handlers.NewHealthHandler(conn, store, log),
		Metrics:    m.Handler(),
		Users:      users,
		LoaderWait: cfg.GraphQL.LoaderWait,
	})

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.CORS.Origin},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Accept"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      c.Handler(r),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("lireddit server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return errors.Wrap(err, "server failed")
	case sig := <-quit:
		log.Info("Shutting down server", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return errors.Wrap(err, "server forced to shutdown")
	}
	log.Info("Server exited")
	return nil
}
