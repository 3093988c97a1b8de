package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/store-directory/internal/config"
	"github.com/iliyamo/store-directory/internal/database"
	"github.com/iliyamo/store-directory/internal/handler"
	"github.com/iliyamo/store-directory/internal/queue"
	"github.com/iliyamo/store-directory/internal/repository"
	"github.com/iliyamo/store-directory/internal/router"
	"github.com/iliyamo/store-directory/internal/view"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db, cfg.DBName); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	// nil when Redis is unreachable; cache and rate limiting degrade to no-ops
	rdb := config.NewRedisClient()

	renderer, err := view.New()
	if err != nil {
		log.Fatalf("templates: %v", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.Renderer = renderer
	e.HTTPErrorHandler = newErrorHandler(e)
	e.Use(echomw.Logger(), echomw.Recover())

	users := repository.NewUserRepo(db)
	stores := repository.NewStoreRepo(db)
	reviews := repository.NewReviewRepo(db)
	favorites := repository.NewFavoriteRepo(db)

	router.Register(e, router.Deps{
		Cfg:      cfg,
		Auth:     handler.NewAuthHandler(cfg, users),
		Account:  handler.NewAccountHandler(cfg, users),
		Stores:   handler.NewStoreHandler(cfg, stores, reviews, favorites, users),
		Reviews:  handler.NewReviewHandler(reviews, stores),
		Redis:    rdb,
		CacheCfg: config.LoadCacheConfig(),
		RateCfg:  config.LoadRateLimitConfig(),
	})

	go func() {
		if err := queue.StartMailConsumer(); err != nil {
			log.Printf("mail consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

// newErrorHandler renders HTML error pages for browser routes and JSON
// for everything under /api. Domain errors map to their natural status
// codes so handlers can just return them.
func newErrorHandler(e *echo.Echo) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		msg := "Something went wrong. Please try again."
		var he *echo.HTTPError
		switch {
		case errors.Is(err, repository.ErrForbidden):
			code = http.StatusForbidden
			msg = "You must own a store in order to edit it"
		case errors.Is(err, repository.ErrStoreNotFound), errors.Is(err, sql.ErrNoRows):
			code = http.StatusNotFound
		case errors.As(err, &he):
			code = he.Code
			if s, ok := he.Message.(string); ok {
				msg = s
			}
		}

		if code >= http.StatusInternalServerError {
			e.Logger.Error(err)
		}

		if strings.HasPrefix(c.Request().URL.Path, "/api/") {
			_ = c.JSON(code, map[string]string{"error": msg})
			return
		}
		if code == http.StatusNotFound {
			_ = c.Render(code, "notFound", map[string]any{"Title": "Not found"})
			return
		}
		_ = c.Render(code, "error", map[string]any{
			"Title":   http.StatusText(code),
			"Message": msg,
		})
	}
}
