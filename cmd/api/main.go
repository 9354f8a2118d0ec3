// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"dkt-api-server/config"
	"dkt-api-server/internal/api/routes"
	"dkt-api-server/internal/auth"
	"dkt-api-server/internal/blockchain"
	"dkt-api-server/internal/database"
	"dkt-api-server/internal/identity"
	"dkt-api-server/internal/notify"
	"dkt-api-server/internal/payment"
	"dkt-api-server/internal/s3"
	"dkt-api-server/internal/shiprocket"
	"dkt-api-server/internal/socket"
	"dkt-api-server/internal/store"
	"dkt-api-server/internal/tracking"
	"dkt-api-server/internal/workflow"

	"github.com/joho/godotenv"
)

func main() {
	// 1. Load configuration (.env is optional)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment and config.yaml")
	}
	cfg, err := config.LoadConfig("./config")
	if err != nil {
		log.Fatalf("Could not load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. MongoDB, indexes and the first admin
	client, db, err := database.Connect(ctx, cfg.Mongo)
	if err != nil {
		log.Fatalf("CRITICAL: %v", err)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Printf("WARN: MongoDB disconnect: %v", err)
		}
	}()
	if err := store.EnsureIndexes(ctx, db); err != nil {
		log.Fatalf("CRITICAL: %v", err)
	}
	if err := database.SeedAdmin(ctx, db, cfg.AdminSeed); err != nil {
		log.Fatalf("CRITICAL: failed to seed admin: %v", err)
	}

	// 3. External boundaries
	tokens, err := auth.NewTokenManager(cfg.JWT)
	if err != nil {
		log.Fatalf("CRITICAL: %v", err)
	}
	courier := shiprocket.NewClient(cfg.Shiprocket)
	payments := payment.NewRazorpay(cfg.Razorpay)
	s3Uploader, err := s3.NewUploader(ctx, cfg.S3)
	if err != nil {
		log.Fatalf("CRITICAL: failed to initialize S3 uploader: %v", err)
	}

	// 4. Notifications: outbox for the mailer plus live websocket pushes
	wsHub := socket.NewHub()
	notifier := notify.Fanout{notify.NewOutbox(db), &notify.Push{Hub: wsHub}}

	// 5. Asset trail in Mongo, mirrored on the ledger when enabled
	mongoTrail := tracking.NewMongoTrail(db)
	trail := tracking.Fanout{mongoTrail}
	if cfg.Fabric.Enabled {
		ledger, err := blockchain.Dial(cfg.Fabric)
		if err != nil {
			log.Fatalf("CRITICAL: failed to open the ledger asset trail: %v", err)
		}
		defer ledger.Close()
		trail = append(trail, ledger)
		log.Println("Asset trail anchored on Fabric channel", cfg.Fabric.ChannelName)
	}

	// 6. Services
	directory := store.NewDirectory(db)
	identitySvc := identity.NewService(directory, tokens, notifier)
	workflowSvc := workflow.New(store.New(db), directory, courier, payments, s3Uploader, notifier, trail)
	workflowSvc.History = mongoTrail

	router := routes.SetupRouter(cfg, routes.Deps{
		Identity: identitySvc,
		Workflow: workflowSvc,
		Tokens:   tokens,
		Trail:    mongoTrail,
		Hub:      wsHub,
	})

	// 7. Serve until a shutdown signal arrives
	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}
	go func() {
		log.Printf("Starting API server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to run server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutdown signal received, stopping server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("WARN: server shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}
