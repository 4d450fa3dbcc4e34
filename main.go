package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"presence-analyzer/internal/datasync"
	"presence-analyzer/internal/platform/auth"
	"presence-analyzer/internal/platform/config"
	"presence-analyzer/internal/platform/db"
	"presence-analyzer/internal/platform/logging"
	"presence-analyzer/internal/presence"
	"presence-analyzer/internal/users"
)

func main() {
	// 設定読み込み（.env → config.yaml）
	cfg, err := config.Load(config.Path())
	if err != nil {
		log.Fatal(err)
	}
	logging.SetDebug(cfg.Log.Debug)
	logging.Infof("mode:%s source:%s", cfg.Mode, cfg.Source.Kind)

	loader, closeLoader, err := newLoader(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer closeLoader()

	if cfg.Mode == config.ModeRelease {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	_ = r.SetTrustedProxies(nil)

	if cfg.Mode == config.ModeDev {
		// CORS（開発中のみ必要）
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.Server.CORSOrigins,
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowCredentials: true,
		}))
	}

	// ヘルス
	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	store := presence.NewRecordStore(loader, cfg.CacheTTL())

	// /api/v1
	api := r.Group("/api/v1")
	presence.RegisterRoutes(api, presence.NewService(store))
	users.RegisterRoutes(api, users.NewStore(cfg.Source.UsersXML, cfg.CacheTTL()))

	authSvc := auth.NewService(auth.NewConfigStore(cfg.Auth.Accounts), []byte(cfg.Auth.Secret), cfg.TokenTTL())
	auth.RegisterRoutes(api, authSvc)

	admin := api.Group("/admin", auth.RequireAuth(authSvc.Secret()), auth.RequireRole(auth.RoleAdmin))
	datasync.RegisterRoutes(admin, datasync.NewService(
		&http.Client{Timeout: cfg.SyncTimeout()},
		datasync.Target{Name: "data", URL: cfg.Sync.DataURL, Dest: cfg.Source.DataCSV},
		datasync.Target{Name: "users", URL: cfg.Sync.UsersURL, Dest: cfg.Source.UsersXML},
	))

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		var err error
		if cfg.TLSEnabled() {
			logging.Infof("listening on https://%s", cfg.Server.Addr)
			err = srv.ListenAndServeTLS(cfg.Server.Certificate.Cert, cfg.Server.Certificate.Key)
		} else {
			logging.Infof("listening on http://%s", cfg.Server.Addr)
			err = srv.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logging.Infof("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal(err)
	}
}

// newLoader: source.kind に応じて CSV か MySQL を選ぶ
func newLoader(cfg *config.Config) (presence.Loader, func(), error) {
	switch cfg.Source.Kind {
	case config.SourceMySQL:
		conn, err := db.Connect(cfg.DB)
		if err != nil {
			return nil, nil, err
		}
		logging.Infof("connected to DB: %s", cfg.DB.DBName)
		return presence.NewSQLLoader(conn), func() { closeDB(conn) }, nil
	default:
		return presence.NewCSVLoader(cfg.Source.DataCSV, cfg.Source.Encoding), func() {}, nil
	}
}

func closeDB(conn *sql.DB) {
	if err := conn.Close(); err != nil {
		logging.Warnf("close DB: %v", err)
	}
}
