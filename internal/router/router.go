// Package router wires HTTP routes to handlers and route-level middleware.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/store-directory/internal/config"
	"github.com/iliyamo/store-directory/internal/handler"
	"github.com/iliyamo/store-directory/internal/middleware"
)

// Deps carries everything route registration needs.
type Deps struct {
	Cfg      config.Config
	Auth     *handler.AuthHandler
	Account  *handler.AccountHandler
	Stores   *handler.StoreHandler
	Reviews  *handler.ReviewHandler
	Redis    *redis.Client // nil disables cache and rate limiting
	CacheCfg config.CacheConfig
	RateCfg  config.RateLimitConfig
}

// Register attaches all application routes to e. The session middleware is
// installed globally so every handler can see who is logged in; RequireLogin
// guards only the routes that need an account.
func Register(e *echo.Echo, d Deps) {
	e.Use(middleware.Session(d.Cfg.JWTSecret))

	cache := middleware.NewRedisCache(d.CacheCfg, d.Redis)
	limit := middleware.NewTokenBucket(d.RateCfg, d.Redis)

	e.GET("/healthz", handler.Health)
	e.Static("/public", "public")

	// Store pages
	e.GET("/", d.Stores.List, cache)
	e.GET("/stores", d.Stores.List, cache)
	e.GET("/stores/page/:page", d.Stores.List, cache)
	e.GET("/store/:slug", d.Stores.Detail)
	e.GET("/tags", d.Stores.Tags, cache)
	e.GET("/tags/:tag", d.Stores.Tags, cache)
	e.GET("/top", d.Stores.Top, cache)
	e.GET("/map", d.Stores.Map)

	// Store mutation (auth required)
	e.GET("/add", d.Stores.AddForm, middleware.RequireLogin)
	e.POST("/add", d.Stores.Create, middleware.RequireLogin)
	e.POST("/add/:id", d.Stores.Update, middleware.RequireLogin)
	e.GET("/store/:id/edit", d.Stores.EditForm, middleware.RequireLogin)

	// Reviews (auth required)
	e.POST("/reviews/:id", d.Reviews.Create, middleware.RequireLogin)

	// Session auth
	e.GET("/login", d.Auth.LoginForm)
	e.POST("/login", d.Auth.Login, limit)
	e.GET("/logout", d.Auth.Logout)
	e.GET("/signup", d.Auth.SignupForm)
	e.POST("/signup", d.Auth.Signup, limit)

	// Account and password reset
	e.GET("/account", d.Account.Show, middleware.RequireLogin)
	e.POST("/account", d.Account.Update, middleware.RequireLogin)
	e.POST("/passwordreset", d.Account.Forgot, limit)
	e.GET("/account/reset/:token", d.Account.ResetForm)
	e.POST("/account/reset/:token", d.Account.Reset, limit)

	// JSON API
	api := e.Group("/api", limit)
	api.GET("/search", d.Stores.Search, cache)
	api.GET("/stores/near", d.Stores.Near, cache)
	api.POST("/stores/:id/favorite", d.Stores.Favorite, middleware.RequireLoginJSON)
}
