package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/rastreapp/fleet-api/internal/api"
	"github.com/rastreapp/fleet-api/internal/cache"
	"github.com/rastreapp/fleet-api/internal/config"
	"github.com/rastreapp/fleet-api/internal/db"
	"github.com/rastreapp/fleet-api/internal/handlers"
	"github.com/rastreapp/fleet-api/internal/service"
)

const version = "1.0.0"

func main() {
	cfg := config.Load()

	log.SetFormatter(&log.JSONFormatter{})
	if !cfg.IsProduction() {
		log.SetLevel(log.DebugLevel)
	}

	client, err := db.ConnectMongo(cfg.MongoURI)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to MongoDB")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.WithError(err).Error("failed to disconnect from MongoDB")
		}
	}()
	log.WithField("database", cfg.MongoDB).Info("connected to MongoDB")

	database := client.Database(cfg.MongoDB)
	indexCtx, cancelIndexes := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelIndexes()
	if err := db.EnsureIndexes(indexCtx, database); err != nil {
		log.WithError(err).Fatal("failed to create indexes")
	}

	shipments := &db.MongoShipmentCollection{Collection: database.Collection(db.ShipmentsCollection)}
	vehicles := &db.MongoVehicleCollection{Collection: database.Collection(db.VehiclesCollection)}
	drivers := &db.MongoDriverCollection{Collection: database.Collection(db.DriversCollection)}

	shipmentCache := cache.New(cache.ListTTL)
	vehicleCache := cache.New(cache.ListTTL)
	driverCache := cache.New(cache.ListTTL)
	dashboardCache := cache.New(cache.DashboardTTL)
	invalidate := cache.NewGroup(shipmentCache, vehicleCache, driverCache, dashboardCache)

	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()
	invalidate.StartSweeper(sweepCtx, cache.SweepInterval)

	assignment := service.NewAssignment(drivers, vehicles)

	e := echo.New()
	e.HideBanner = true
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.NewErrorHandler(cfg.IsProduction())

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{cfg.CORSOrigin},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
	}))

	api.SetupRoutes(e,
		handlers.NewShipmentHandler(shipments, shipmentCache, invalidate),
		handlers.NewVehicleHandler(vehicles, assignment, vehicleCache, invalidate),
		handlers.NewDriverHandler(drivers, assignment, driverCache, invalidate),
		handlers.NewDashboardHandler(shipments, vehicles, drivers, dashboardCache),
		handlers.NewHealthHandler(version, cfg.Environment),
	)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.WithError(err).Fatal("forced shutdown")
	}
}
