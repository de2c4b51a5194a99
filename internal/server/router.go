package server

import (
	"net/http"

	"apotek/internal/auth"
	"apotek/internal/handlers"
	"apotek/internal/logger"
	"apotek/internal/middleware"
	"apotek/internal/services"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

type Deps struct {
	Templates handlers.TemplateExecutor
	Sessions  *auth.SessionManager
	Users     *auth.UserService
	Inventory *services.InventoryService
	DB        handlers.Pinger
	Logger    logger.Logger
	StaticDir string
}

func NewRouter(d Deps) http.Handler {
	authHandler := handlers.NewAuthHandler(d.Templates, d.Sessions, d.Users, d.Logger)
	medicinesHandler := handlers.NewMedicinesHandler(d.Templates, d.Sessions, d.Inventory, d.Logger)
	historyHandler := handlers.NewHistoryHandler(d.Templates, d.Sessions, d.Inventory, d.Logger)
	healthHandler := handlers.NewHealthHandler(d.DB, d.Logger)

	authMiddleware := middleware.NewAuthMiddleware(d.Sessions, d.Users, d.Logger)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(d.Logger))
	r.Use(chimiddleware.Recoverer)

	if d.StaticDir != "" {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(d.StaticDir))))
	}
	r.Get("/healthz", healthHandler.Health)

	// Public pages; logged-in users go straight to the inventory.
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.RedirectIfAuthenticated)

		r.Get("/", authHandler.Landing)
		r.Get("/register", authHandler.RegisterPage)
		r.Post("/register", authHandler.Register)
		r.Get("/login", authHandler.LoginPage)
		r.Post("/login", authHandler.Login)
	})

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.RequireAuth)

		r.Get("/logout", authHandler.Logout)
		r.Post("/logout", authHandler.Logout)

		r.Get("/obat", medicinesHandler.List)
		r.Post("/tambah", medicinesHandler.Create)
		r.Post("/hapus/{id:[0-9]+}", medicinesHandler.Delete)
		r.Get("/edit/{id:[0-9]+}", medicinesHandler.Edit)
		r.Post("/update/{id:[0-9]+}", medicinesHandler.Update)

		r.Get("/riwayat", historyHandler.List)
	})

	return r
}
