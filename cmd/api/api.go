package main

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/docs" //this is required to serve swagger docs
	"storefront/internal/auth"
	"storefront/internal/cart"
	"storefront/internal/domain/catalog"
	"storefront/internal/kv"
	"storefront/internal/ratelimiter"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

type application struct {
	config        config
	logger        *zap.SugaredLogger
	catalog       catalog.Store
	cartStore     kv.Store
	authenticator auth.Authenticator
	rateLimiter   ratelimiter.Limiter
}

type config struct {
	addr            string
	env             string
	apiURL          string
	frontendURL     string
	db              dbConfig
	redis           redisConfig
	auth            authConfig
	rateLimiter     ratelimiter.Config
	cartErrorPolicy cart.ErrorPolicy
}

type authConfig struct {
	basic basicConfig
	token tokenConfig
}

type tokenConfig struct {
	secret     string
	sessionExp time.Duration
	iss        string
}

type basicConfig struct {
	user string
	pass string
}

type dbConfig struct {
	addr        string
	maxConns    int32
	maxIdleTime string
}

type redisConfig struct {
	addr    string
	cartTTL time.Duration
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(app.RateLimiterMiddleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	// Request context timeout; further processing stops once it fires.
	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/v1", func(r chi.Router) {
		r.With(app.BasicAuthMiddleware()).Get("/health", app.healthCheckHandler)
		docsURL := fmt.Sprintf("%s/swagger/doc.json", app.config.addr)
		r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL(docsURL)))

		r.With(app.BasicAuthMiddleware()).Get("/debug/vars", expvar.Handler().ServeHTTP)

		// Public session bootstrap: gives anonymous shoppers a stable cart key.
		r.Post("/session/guest", app.createGuestSessionHandler)

		r.Route("/products", func(r chi.Router) {
			r.Get("/", app.listProductsHandler)
			r.Get("/{productID}", app.getProductHandler)
			r.Get("/slug/{slug}", app.getProductBySlugHandler)
			r.With(app.AuthTokenMiddleware, app.RequireSeller).Post("/", app.createProductHandler)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Use(app.AuthTokenMiddleware)
			r.Get("/", app.getCartHandler)
			r.Delete("/", app.clearCartHandler)
			r.Post("/items", app.addCartItemHandler)
			r.Patch("/items/{productID}", app.updateCartItemHandler)
			r.Delete("/items/{productID}", app.removeCartItemHandler)
		})

		// Placeholder endpoints: the order/payment/seller backend is not
		// implemented yet and answers every verb with a stub message.
		r.Handle("/orders", app.stubHandler("order management"))
		r.Handle("/orders/{orderID}", app.stubHandler("order management"))
		r.Handle("/payments/history", app.stubHandler("payment history"))
		r.Handle("/seller/dashboard", app.stubHandler("seller dashboard"))
		r.Handle("/seller/orders", app.stubHandler("seller orders"))
		r.Handle("/users/profile", app.stubHandler("user profile"))
	})
	return r
}

func (app *application) run(mux http.Handler) error {
	// Docs
	docs.SwaggerInfo.Version = version
	docs.SwaggerInfo.Host = app.config.apiURL
	docs.SwaggerInfo.BasePath = "/v1"

	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: time.Second * 30,
		ReadTimeout:  time.Second * 10,
		IdleTimeout:  time.Minute,
	}

	// Implementing graceful shutdown
	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		app.logger.Infow("signal caught", "signal", s.String())

		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Infow("server has started", "addr", app.config.addr, "env", app.config.env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Infow("server has stopped", "addr", app.config.addr, "env", app.config.env)

	return nil
}
