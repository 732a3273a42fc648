package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kanmind/kanmind-be/internal/api"
	"github.com/kanmind/kanmind-be/internal/config"
	"github.com/kanmind/kanmind-be/internal/database"
	"github.com/kanmind/kanmind-be/internal/logger"
	"github.com/kanmind/kanmind-be/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Init(cfg.Environment)

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to apply database migrations: %v", err)
	}

	// Set up services
	access := services.NewAccessPolicy(db)
	userService := services.NewUserService(db)
	tokenService := services.NewTokenService(db)
	taskService := services.NewTaskService(db, access)
	boardService := services.NewBoardService(db, access, taskService)
	commentService := services.NewCommentService(db, access)

	// Set up router
	router := api.NewRouter(tokenService, userService, boardService, taskService, commentService, cfg.PageSize)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on port %d\n", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
