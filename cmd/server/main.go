package main // Sponsor Pass Manager panel server

import (
	"context"
	"errors"
	"flag"
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
	"github.com/iliyamo/sponsor-pass-manager/internal/handler"
	"github.com/iliyamo/sponsor-pass-manager/internal/middleware"
	"github.com/iliyamo/sponsor-pass-manager/internal/panel"
	"github.com/iliyamo/sponsor-pass-manager/internal/passapi"
	"github.com/iliyamo/sponsor-pass-manager/internal/queue"
	queue_publisher "github.com/iliyamo/sponsor-pass-manager/internal/service"
	"github.com/iliyamo/sponsor-pass-manager/internal/router"
)

func main() {
	memory := flag.Bool("memory", false, "serve the built-in demo sponsors and passes instead of the partnerships service")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("env: %v", err)
	}
	cfg := config.Load()
	audit := config.LoadAudit()
	rlCfg := config.LoadRateLimitConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var events panel.EventPublisher
	if audit.Enabled {
		events = queue_publisher.New(audit.URL)
	}
	if audit.ConsumerEnabled {
		go func() {
			if err := queue.StartAuditConsumer(ctx, audit.URL, audit.LogDir); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("audit-consumer: %v", err)
			}
		}()
	}

	// One demo data set is shared by every session so that all managers see
	// each other's changes, like they would against the real service.
	var shared passapi.Service
	if *memory || cfg.UseMemory {
		shared = passapi.NewSeededMemory(time.Now)
		log.Printf("panel: serving in-memory demo data")
	}
	upstream := &http.Client{Timeout: cfg.UpstreamTimeout}

	sessions := panel.NewRegistry(func(managerID, token string) *panel.Panel {
		svc := shared
		if svc == nil {
			svc = passapi.NewClient(cfg.PartnershipsURL, token, upstream)
		}
		return panel.New(ctx, svc, panel.Options{
			PageSize: cfg.PageSize,
			Actor:    managerID,
			Events:   events,
		})
	}, cfg.SessionIdle, time.Now)

	go sweepSessions(ctx, sessions, cfg.SessionIdle)

	var limit echo.MiddlewareFunc
	if rlCfg.Enabled {
		if rdb := config.NewRedisClient(config.LoadRedis()); rdb != nil {
			defer rdb.Close()
			limit = middleware.NewTokenBucket(rlCfg, rdb)
		} else {
			log.Printf("ratelimit: redis unreachable, panel mutations are not rate limited")
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	router.RegisterRoutes(e)
	router.RegisterPanel(e, handler.NewPanelHandler(sessions, cfg.UpstreamTimeout), cfg.HostJWTSecret, limit, cfg.ManagerRole)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
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

// sweepSessions drops idle panel sessions until ctx is done.
func sweepSessions(ctx context.Context, sessions *panel.Registry, idle time.Duration) {
	if idle <= 0 {
		return
	}
	t := time.NewTicker(idle / 2)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := sessions.Sweep(); n > 0 {
				log.Printf("panel: dropped %d idle sessions (%d live)", n, sessions.Len())
			}
		}
	}
}
