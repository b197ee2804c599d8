package main

//go:generate swag init

import (
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/ledgerline/invoicing/db"
	_ "github.com/ledgerline/invoicing/docs"
	"github.com/ledgerline/invoicing/handlers"
)

//go:embed static/*
var staticFiles embed.FS

// @title           Invoicing API
// @version         1.0.0
// @description     API for managing clients, projects, invoices, and payments, with server-side invoice total calculation.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.basic  BasicAuth

func main() {
	// Configure structured logging
	level := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	// Open database
	database, err := db.Open()
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	// Run migrations
	if err := db.Migrate(database); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Set shared DB for handlers
	handlers.DB = database

	// Router setup
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// API routes with basic auth
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(handlers.BasicAuth)

		// Clients
		r.Get("/clients", handlers.ListClients)
		r.Post("/clients", handlers.CreateClient)
		r.Get("/clients/{id}", handlers.GetClient)
		r.Put("/clients/{id}", handlers.UpdateClient)
		r.Delete("/clients/{id}", handlers.DeleteClient)

		// Projects
		r.Get("/projects", handlers.ListProjects)
		r.Post("/projects", handlers.CreateProject)
		r.Get("/projects/{id}", handlers.GetProject)
		r.Put("/projects/{id}", handlers.UpdateProject)
		r.Delete("/projects/{id}", handlers.DeleteProject)

		// Invoices
		r.Get("/invoices", handlers.ListInvoices)
		r.Post("/invoices", handlers.CreateInvoice)
		r.Post("/invoices/preview", handlers.PreviewInvoice)
		r.Get("/invoices/{id}", handlers.GetInvoice)
		r.Put("/invoices/{id}", handlers.UpdateInvoice)
		r.Delete("/invoices/{id}", handlers.DeleteInvoice)
		r.Get("/invoices/{id}/totals", handlers.GetInvoiceTotals)
		r.Get("/invoices/{id}/payments", handlers.GetInvoicePayments)
		r.Get("/invoices/{id}/pdf", handlers.GetInvoicePDF)

		// Payments
		r.Get("/payments", handlers.ListPayments)
		r.Post("/payments", handlers.CreatePayment)
		r.Get("/payments/{id}", handlers.GetPayment)
		r.Put("/payments/{id}", handlers.UpdatePayment)
		r.Delete("/payments/{id}", handlers.DeletePayment)

		// Settings
		r.Get("/settings", handlers.GetSettings)
		r.Put("/settings", handlers.UpdateSettings)

		// Dashboard
		r.Get("/dashboard", handlers.GetDashboard)
	})

	// Shareable read-only invoice views (no auth)
	r.Get("/view/{key}", handlers.ViewInvoice)
	r.Get("/view/{key}/pdf", handlers.ViewInvoicePDF)

	// Serve static files (UI)
	staticFS, _ := fs.Sub(staticFiles, "static")
	r.Handle("/*", http.FileServer(http.FS(staticFS)))

	// Swagger UI
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	addr := fmt.Sprintf(":%s", port)
	slog.Info("server starting", "address", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
