package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	"github.com/pesio-ai/be-contracts/internal/client"
	"github.com/pesio-ai/be-contracts/internal/config"
	pb "github.com/pesio-ai/be-contracts/internal/contractspb"
	"github.com/pesio-ai/be-contracts/internal/handler"
	"github.com/pesio-ai/be-contracts/internal/logger"
	"github.com/pesio-ai/be-contracts/internal/middleware"
	"github.com/pesio-ai/be-contracts/internal/repository"
	"github.com/pesio-ai/be-contracts/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Environment: cfg.Service.Environment,
		ServiceName: cfg.Service.Name,
		Version:     cfg.Service.Version,
	})

	log.Info().
		Str("service", cfg.Service.Name).
		Str("version", cfg.Service.Version).
		Str("environment", cfg.Service.Environment).
		Str("storage", cfg.Storage.Backend).
		Msg("Starting Contracts Service")

	// Create context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize storage
	store, err := repository.OpenStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.Storage.Backend).Msg("Failed to open storage")
	}
	defer store.Close()
	log.Info().Str("backend", cfg.Storage.Backend).Msg("Storage opened")

	// Initialize repositories
	blueprintRepo := repository.NewBlueprintRepository(store, cfg.Storage.KeyPrefix)
	contractRepo := repository.NewContractRepository(store, cfg.Storage.KeyPrefix)

	// Lifecycle notifications are optional
	var notifier service.LifecycleNotifier
	if cfg.NATS.Enabled {
		nc, err := client.ConnectNATS(cfg.NATS.URL, cfg.Service.Name, log.Logger)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to NATS")
		}
		defer func() {
			if err := nc.Drain(); err != nil {
				log.Warn().Err(err).Msg("NATS drain failed")
			}
		}()
		notifier = client.NewNotificationPublisher(nc, cfg.NATS.SubjectPrefix, log.Logger)
		log.Info().
			Str("url", cfg.NATS.URL).
			Str("subject_prefix", cfg.NATS.SubjectPrefix).
			Msg("NATS notifications enabled")
	}

	// Initialize services
	blueprintService := service.NewBlueprintService(blueprintRepo, contractRepo, cfg.Lifecycle.ProtectReferencedBlueprints, log)
	contractService := service.NewContractService(contractRepo, blueprintRepo, notifier, log)
	lifecycleService := service.NewLifecycleService(contractRepo, blueprintRepo, notifier, log)

	if cfg.Storage.SeedSampleData {
		seeded, err := service.NewSampleDataSeeder(blueprintRepo, contractRepo, log).Seed(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to seed sample data")
		}
		log.Info().Bool("seeded", seeded).Msg("Sample data check complete")
	}

	// Setup HTTP routes
	httpHandler := handler.NewHTTPHandler(blueprintService, contractService, lifecycleService, log)
	mux := http.NewServeMux()
	httpHandler.RegisterRoutes(mux)

	// Apply middleware
	var h http.Handler = mux
	h = middleware.RequestID(h)
	h = middleware.Logger(&log.Logger)(h)
	h = middleware.Recovery(&log.Logger)(h)
	h = middleware.CORS(cfg.Server.CORSOrigins)(h)
	h = middleware.Timeout(cfg.Server.RequestTimeout)(h)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      h,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("Starting HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("HTTP server failed")
		}
	}()

	// Start gRPC server
	grpcHandler := handler.NewGRPCHandler(blueprintService, contractService, lifecycleService, log.Logger)

	grpcServer := grpc.NewServer()
	pb.RegisterContractLifecycleServer(grpcServer, grpcHandler)
	reflection.Register(grpcServer) // Enable reflection for debugging

	grpcListener, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Server.GRPCPort))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create gRPC listener")
	}

	go func() {
		log.Info().Int("port", cfg.Server.GRPCPort).Msg("Starting gRPC server")
		if err := grpcServer.Serve(grpcListener); err != nil {
			log.Error().Err(err).Msg("gRPC server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}

	// Stop gRPC server gracefully
	grpcServer.GracefulStop()

	log.Info().Msg("Server stopped")
}
