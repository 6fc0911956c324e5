package handler

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"orderdesk/internal/metrics"
	"orderdesk/internal/mw"
	"orderdesk/internal/service"
)

type Deps struct {
	DB             *sql.DB
	Users          *service.UserService
	Orders         *service.OrderService
	Sessions       *mw.Sessions
	Metrics        *metrics.Metrics
	AllowedOrigins []string
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware)
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(d.Sessions.Middleware)

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(StaticFS())))
	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.Metrics.Handler())
	}
	if d.DB != nil {
		r.Get("/healthz", HealthHandler(d.DB))
	}

	r.Get("/", LoginPage())
	r.Get("/register", RegisterPage())
	r.Post("/register", RegisterHandler(d.Users))
	r.Post("/login", LoginHandler(d.Users, d.Sessions))
	r.Get("/logout", LogoutHandler(d.Sessions))

	r.Get("/personal_account", PersonalAccountPage())
	r.Post("/personal_account", PersonalAccountChoiceHandler())

	r.Get("/pending_orders", PendingOrdersHandler(d.Orders))
	r.Get("/processed_orders", ProcessedOrdersHandler(d.Orders))
	r.Get("/perform", PerformOrderHandler(d.Orders))
	r.Get("/delete_processed", DeleteProcessedHandler(d.Orders))
	r.Get("/create_order", CreateOrderPage())
	r.Post("/create_order", CreateOrderHandler(d.Orders))

	return r
}
