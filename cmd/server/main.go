package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eco-route-go/internal/client"
	"eco-route-go/internal/config"
	"eco-route-go/internal/database"
	"eco-route-go/internal/emissions"
	"eco-route-go/internal/handler"
	"eco-route-go/internal/health"
	"eco-route-go/internal/model"
	"eco-route-go/internal/repository"
	"eco-route-go/internal/service"
	"eco-route-go/internal/session"
	"eco-route-go/internal/ui"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"googlemaps.github.io/maps"
)

func main() {
	cfg := config.LoadConfig()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	logger.Info("Starting Eco Route Planner")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	monitor := health.NewMonitor(logger)

	// Search history is optional
	var searchRepo repository.SearchRepository
	if cfg.Database.Enabled {
		logger.Info("Connecting to search history database...")
		dbConfig := database.Config{
			Driver:   cfg.Database.Driver,
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			Database: cfg.Database.Name,
			Username: cfg.Database.User,
			Password: cfg.Database.Password,
			SSLMode:  cfg.Database.SSLMode,
		}
		if err := database.Connect(dbConfig, logger); err != nil {
			logger.Fatalf("Database connection failed: %v", err)
		}
		defer database.Close()

		if err := database.Migrate(logger); err != nil {
			logger.Fatalf("Database migration failed: %v", err)
		}
		if err := database.HealthCheck(); err != nil {
			logger.Fatalf("Database is unavailable: %v", err)
		}

		searchRepo = repository.NewSearchRepository(database.DB)
		monitor.Register("database", func(context.Context) error { return database.HealthCheck() })
	} else {
		logger.Info("Search history disabled")
	}

	monitor.Register("maps", func(context.Context) error {
		if cfg.Maps.APIKey == "" {
			return errors.New("MAPS_API_KEY is not set")
		}
		return nil
	})
	logger.WithField("checks", monitor.Names()).Info("Health checks registered")

	// Clients
	var directions service.Directions
	directionsClient, err := client.NewDirectionsClient(cfg.Maps.APIKey, "", cfg.ClientTimeout(), logger)
	if err != nil {
		logger.WithError(err).Error("Directions client unavailable, route searches will fail")
		directions = unavailableDirections{err: err}
	} else {
		directions = directionsClient
	}
	emissionsFunction := client.NewEmissionsFunctionClient(cfg.Emissions.FunctionURL, cfg.ClientTimeout(), logger)
	if !emissionsFunction.Configured() {
		logger.Warn("EMISSIONS_FUNCTION_URL is not set, detailed emissions are unavailable")
	}

	// Services
	historyService := service.NewHistoryService(searchRepo, logger)
	routeService := service.NewRouteService(directions, emissions.DefaultFactors(), historyService, logger)
	emissionsService := service.NewEmissionsService(emissionsFunction, logger)

	// The page talks to this process unless a remote routing API is configured
	var pageAPI ui.RouteAPI = service.NewLocalAPI(routeService, emissionsService)
	if cfg.RoutesAPI.BaseURL != "" {
		logger.WithField("base_url", cfg.RoutesAPI.BaseURL).Info("Using remote routing API")
		pageAPI = client.NewRoutesAPIClient(cfg.RoutesAPI.BaseURL, cfg.ClientTimeout(), logger)
	}

	store := session.NewStore(session.Options{
		API:        pageAPI,
		MapsAPIKey: cfg.Maps.APIKey,
		TTL:        cfg.SessionTTL(),
		Logger:     logger,
	})
	go store.Run(ctx, time.Minute)

	// Handlers
	apiHandler := handler.NewAPIHandler(routeService, emissionsService, historyService, monitor, logger)
	uiHandler := handler.NewUIHandler(store, int(cfg.SessionTTL().Seconds()), cfg.Server.Environment == "production", logger)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "HX-Request", "HX-Target", "HX-Trigger", "HX-Current-URL"}
	router.Use(cors.New(corsConfig))

	router.Static("/static", cfg.Server.StaticDir)

	apiHandler.RegisterRoutes(router)
	uiHandler.RegisterRoutes(router)

	// gRPC health service
	go func() {
		lis, err := net.Listen("tcp", fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.GRPC.HealthPort))
		if err != nil {
			logger.Errorf("gRPC health listener failed: %v", err)
			return
		}
		if err := monitor.Serve(ctx, lis); err != nil {
			logger.Errorf("gRPC health server stopped: %v", err)
		}
	}()
	go monitor.Run(ctx, 30*time.Second)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	go func() {
		<-ctx.Done()
		logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Errorf("Graceful shutdown failed: %v", err)
		}
	}()

	logger.Infof("Server listening on %s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("Server failed: %v", err)
	}
}

// unavailableDirections stands in when no directions client can be built.
type unavailableDirections struct {
	err error
}

func (u unavailableDirections) Directions(context.Context, model.RouteRequest) ([]maps.Route, error) {
	return nil, u.err
}
