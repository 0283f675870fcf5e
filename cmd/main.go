package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"simplesurvey/clients"
	"simplesurvey/clients/sheets"
	slackclient "simplesurvey/clients/slack"
	"simplesurvey/config"
	"simplesurvey/db"
	"simplesurvey/handlers"
	"simplesurvey/middleware"
	"simplesurvey/models"
	"simplesurvey/services"
	"simplesurvey/services/eventdedup"
	"simplesurvey/services/surveythreads"
	"simplesurvey/services/triggers"
	"simplesurvey/usecases/dispatch"
	"simplesurvey/usecases/lifecycle"
	"simplesurvey/usecases/reconciler"
	"simplesurvey/usecases/survey"
)

func main() {
	if err := run(); err != nil {
		log.Printf("❌ Fatal error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	ctx := context.Background()

	alertMiddleware := middleware.NewErrorAlertMiddleware(middleware.SlackAlertConfig{
		WebhookURL:  cfg.SlackConfig.AlertWebhookURL,
		Environment: cfg.Environment,
		AppName:     "simplesurvey",
		LogsURL:     cfg.ServerLogsURL,
	})

	dbConn, err := db.NewConnection(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	if err := db.Migrate(ctx, dbConn, cfg.DatabaseSchema); err != nil {
		return err
	}

	triggersRepo := db.NewPostgresTriggersRepository(dbConn, cfg.DatabaseSchema)
	surveyThreadsRepo := db.NewPostgresSurveyThreadsRepository(dbConn, cfg.DatabaseSchema)

	triggersService := triggers.NewTriggersService(triggersRepo, cfg.SurveyConfig.AppID)
	surveyThreadsService := surveythreads.NewSurveyThreadsService(surveyThreadsRepo)

	var eventDedupService services.EventDedupService = eventdedup.NewOptionalEventDedupService()
	if cfg.RedisConfig.IsConfigured() {
		redisClient, err := eventdedup.NewRedisClient(ctx, cfg.RedisConfig.URL)
		if err != nil {
			return err
		}
		defer redisClient.Close()
		eventDedupService = eventdedup.NewEventDedupService(redisClient, eventdedup.DefaultTTL)
	}

	slackClient := slackclient.NewSlackClient(cfg.SlackConfig.BotToken)

	var sheetsClient clients.SheetsClient = sheets.NewOptionalSheetsClient()
	if cfg.GoogleConfig.IsConfigured() {
		sheetsClient, err = sheets.NewSheetsClient(ctx, cfg.GoogleConfig.CredentialsFile)
		if err != nil {
			return err
		}
	}

	reconcilerUseCase := reconciler.NewReconcilerUseCase(triggersService, cfg.SurveyConfig.ActorFilterScope)
	lifecycleUseCase := lifecycle.NewLifecycleUseCase(slackClient, triggersService, surveyThreadsService)
	surveyUseCase := survey.NewSurveyUseCase(
		slackClient,
		sheetsClient,
		triggersService,
		surveyThreadsService,
		reconcilerUseCase,
		lifecycleUseCase,
		cfg.SurveyConfig.StagePolicy,
	)
	dispatchUseCase := dispatch.NewDispatchUseCase(triggersService, surveyUseCase, slackClient)

	slackEventsHandler := handlers.NewSlackEventsHandler(cfg.SlackConfig.SigningSecret, dispatchUseCase, eventDedupService)
	slackInteractionsHandler := handlers.NewSlackInteractionsHandler(
		cfg.SlackConfig.SigningSecret,
		dispatchUseCase,
		surveyUseCase,
	)
	adminHandler := handlers.NewAdminHTTPHandler(reconcilerUseCase)

	router := mux.NewRouter()
	slackEventsHandler.SetupEndpoints(router)
	slackInteractionsHandler.SetupEndpoints(router)
	adminHandler.SetupEndpoints(router, middleware.NewAPIKeyAuthMiddleware(cfg.AdminAPIKey))

	// Periodic channel membership maintenance
	maintenanceTicker := time.NewTicker(cfg.SurveyConfig.MaintenanceInterval)
	go func() {
		for range maintenanceTicker.C {
			_ = alertMiddleware.WrapBackgroundTask(models.WorkflowMaintenanceJob, func() error {
				return surveyUseCase.RunWorkflow(context.Background(), models.WorkflowMaintenanceJob, nil, nil)
			})()
		}
	}()
	defer maintenanceTicker.Stop()

	allowedOrigins := strings.Split(cfg.CORSAllowedOrigins, ",")
	for i, origin := range allowedOrigins {
		allowedOrigins[i] = strings.TrimSpace(origin)
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: false,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           alertMiddleware.HTTPMiddleware(c.Handler(router)),
		ReadHeaderTimeout: 30 * time.Second,
	}

	return handleGracefulShutdown(server)
}

func handleGracefulShutdown(server *http.Server) error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("✅ Listening on http://localhost%s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("❌ Server error: %v", err)
		}
	}()

	<-stop
	log.Printf("🛑 Shutdown signal received, cleaning up...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("❌ Server shutdown error: %v", err)
		return err
	}

	log.Printf("✅ Server stopped gracefully")
	return nil
}
