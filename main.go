// File: consultly/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"consultly/config"
	"consultly/cron"
	"consultly/database"
	consultationRepoPkg "consultly/database/repository/consultation"
	messageRepoPkg "consultly/database/repository/message"
	notificationRepoPkg "consultly/database/repository/notification"
	slotRepoPkg "consultly/database/repository/slot"
	"consultly/handlers"
	"consultly/routes"
	"consultly/services/broadcast"
	"consultly/services/consultation"
	"consultly/services/messagelog"
	"consultly/services/notification"
	"consultly/services/tasks"
	"consultly/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitAuthCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	// repositories.
	slotRepo := slotRepoPkg.NewMongoSlotRepo()
	consultationRepo := consultationRepoPkg.NewMongoConsultationRepo(slotRepo)
	messageRepo := messageRepoPkg.NewMongoMessageRepo()
	notificationRepo := notificationRepoPkg.NewMongoNotificationRepo()

	// Broadcast hub and its sweep loop.
	hub := broadcast.NewHub(logger)
	go hub.Run()

	broadcaster := &broadcast.Broadcaster{
		Hub:    hub,
		Logger: logger,
	}

	// services.
	notificationService := &notification.DefaultNotificationService{
		Repo:        notificationRepo,
		Broadcaster: broadcaster,
		Push:        &notification.LogPushProvider{Logger: logger},
		Logger:      logger,
	}

	reminderScheduler := tasks.NewReminderScheduler(logger)
	defer reminderScheduler.Close()

	consultationService := &consultation.DefaultConsultationService{
		Repo:            consultationRepo,
		Slots:           slotRepo,
		Broadcaster:     broadcaster,
		NotificationSvc: notificationService,
		Reminders:       reminderScheduler,
		Logger:          logger,
	}
	// The engine is also the snapshot source for everything the hub pushes.
	broadcaster.Source = consultationService

	messageLogService := &messagelog.DefaultMessageLogService{
		Repo:          messageRepo,
		Consultations: consultationRepo,
		Broadcaster:   broadcaster,
		Logger:        logger,
	}

	go cron.InitReminderWorker(consultationRepo, notificationService)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		Consultations: consultationService,
		Messages:      messageLogService,
		Notifications: notificationService,
		Slots:         slotRepo,
		Hub:           hub,
		Logger:        logger,
	}

	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}
	hub.Shutdown()

	logger.Sugar().Info("main: server stopped gracefully")
}
