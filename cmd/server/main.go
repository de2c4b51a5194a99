package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"apotek/internal/auth"
	"apotek/internal/config"
	"apotek/internal/database"
	"apotek/internal/handlers"
	"apotek/internal/logger"
	"apotek/internal/server"
	"apotek/internal/services"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, os.Stdout, cfg.IsDevelopment())

	webDir := cfg.WebDir
	if webDir == "" {
		webDir = getWebDir()
	}
	log.Info("Using web directory", map[string]interface{}{"path": webDir})

	db, err := database.New(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		log.Fatal("Failed to initialize database", map[string]interface{}{
			"driver": cfg.Database.Driver,
			"error":  err,
		})
	}
	defer db.Close()

	userService := auth.NewUserService(db)
	sessionManager := auth.NewSessionManager(cfg.Session.Secret, cfg.Session.MaxAge, cfg.Session.RememberMaxAge, cfg.Session.Secure)
	inventory := services.NewInventoryService(
		services.NewMedicineStore(db),
		services.NewAuditService(db, log.WithFields(map[string]interface{}{"component": "audit"})),
	)

	created, err := userService.EnsureDefaultUser(context.Background(), cfg.DefaultAdmin, cfg.DefaultPassword)
	if err != nil {
		log.Warn("Failed to create default user", map[string]interface{}{"error": err})
	} else if created {
		log.Info("Created default user", map[string]interface{}{"username": cfg.DefaultAdmin})
	}

	templates, err := handlers.LoadTemplates(filepath.Join(webDir, "templates"))
	if err != nil {
		log.Fatal("Failed to load templates", map[string]interface{}{"error": err})
	}

	router := server.NewRouter(server.Deps{
		Templates: templates,
		Sessions:  sessionManager,
		Users:     userService,
		Inventory: inventory,
		DB:        db,
		Logger:    log,
		StaticDir: filepath.Join(webDir, "static"),
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("Starting pharmacy inventory server", map[string]interface{}{
			"addr":   srv.Addr,
			"driver": cfg.Database.Driver,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", map[string]interface{}{"error": err})
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	log.Info("Shutting down...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Graceful shutdown failed", map[string]interface{}{"error": err})
	}
}

// getWebDir looks for web/ next to the binary, then in the working directory.
func getWebDir() string {
	var candidates []string
	if exe, err := os.Executable(); err == nil {
		dir := filepath.Dir(exe)
		candidates = append(candidates,
			filepath.Join(dir, "..", "web"),
			filepath.Join(dir, "..", "..", "web"),
		)
	}
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, "web"))
	}

	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && info.IsDir() {
			return c
		}
	}
	return "./web"
}
