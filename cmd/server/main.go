// cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eventcast/live-session-service/internal/config"
	"github.com/eventcast/live-session-service/internal/platform"
	"github.com/eventcast/live-session-service/internal/server"
	"github.com/eventcast/live-session-service/internal/service"
	"github.com/eventcast/live-session-service/internal/store"
	"github.com/eventcast/live-session-service/pkg/grpc"
)

func main() {
	log.Println("🚀 Starting Live Session Service...")

	// Load configuration
	cfg := config.Load()
	log.Printf("📋 Configuration loaded: store=%s env=%s", cfg.StoreBackend, cfg.Environment)

	// Select the record store backend
	var recordStore store.RecordStore
	switch cfg.StoreBackend {
	case "memory":
		log.Println("🔧 Using in-memory record store")
		recordStore = store.NewMemoryStore()
	default:
		recordStore = store.NewDynamoStore(cfg, store.NewRedisCache(cfg))
	}

	// Guest identity collaborator
	guestClient, err := grpc.NewGuestServiceClient(cfg.GuestServiceGRPCAddr)
	if err != nil {
		log.Fatalf("❌ Failed to connect to Guest Service: %v", err)
	}
	defer guestClient.Close()

	// Live-video platform
	muxClient := platform.NewMuxClient(cfg)

	// Coordination service and HTTP surface
	liveService := service.NewLiveService(cfg, recordStore, muxClient, guestClient)
	router := server.NewRouter(cfg, liveService)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Printf("✅ Live Session Service started on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Failed to start HTTP server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("❌ Server forced to shutdown:", err)
	}

	log.Println("✅ Server exited")
}
