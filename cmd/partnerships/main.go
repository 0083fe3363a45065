package main // reference partnerships service backed by MySQL

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/sponsor-pass-manager/internal/config"
	"github.com/iliyamo/sponsor-pass-manager/internal/database"
	"github.com/iliyamo/sponsor-pass-manager/internal/handler"
	"github.com/iliyamo/sponsor-pass-manager/internal/middleware"
	"github.com/iliyamo/sponsor-pass-manager/internal/repository"
	"github.com/iliyamo/sponsor-pass-manager/internal/router"
)

// backendConfig is the part of the environment this binary needs.
type backendConfig struct {
	Port          string `env:"PARTNERSHIPS_PORT" envDefault:"8081"`
	HostJWTSecret string `env:"HOST_JWT_SECRET,required,notEmpty"`
	Seed          bool   `env:"PARTNERSHIPS_SEED" envDefault:"true"`
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("env: %v", err)
	}
	var cfg backendConfig
	if err := config.Parse(&cfg); err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := database.Open(config.LoadDB())
	if err != nil {
		log.Fatalf("mysql: %v", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	schemaCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	err = database.EnsureSchema(schemaCtx, db)
	if err == nil && cfg.Seed {
		var seeded bool
		if seeded, err = repository.SeedDemoData(schemaCtx, db); seeded {
			log.Printf("mysql: loaded demo sponsors and passes")
		}
	}
	cancel()
	if err != nil {
		log.Fatalf("mysql: %v", err)
	}

	var cache echo.MiddlewareFunc
	if cacheCfg := config.LoadCacheConfig(); cacheCfg.Enabled {
		if rdb := config.NewRedisClient(config.LoadRedis()); rdb != nil {
			defer rdb.Close()
			cache = middleware.NewRedisCache(cacheCfg, rdb)
		} else {
			log.Printf("cache: redis unreachable, sponsor list is served uncached")
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	router.RegisterRoutes(e)
	router.RegisterPartnerships(e, handler.NewPartnershipsHandler(repository.NewStore(db)), cfg.HostJWTSecret, cache)

	addr := ":" + cfg.Port
	log.Printf("partnerships listening on %s", addr)
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
