package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"time"

	"intake-connector/internal/config"
	Irepository "intake-connector/internal/domain/interfaces/repository"
	Iservices "intake-connector/internal/domain/interfaces/services"
	"intake-connector/internal/infra/handlers"
	"intake-connector/internal/infra/logger"
	"intake-connector/internal/infra/provider"
	"intake-connector/internal/infra/report"
	"intake-connector/internal/infra/repository"
	"intake-connector/internal/infra/routes"
	"intake-connector/internal/infra/services"
	"intake-connector/internal/middleware"
	client "intake-connector/internal/pkg"

	"github.com/gorilla/mux"
	openai "github.com/sashabaranov/go-openai"
)

func main() {
	config.LoadEnv()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	log := logger.NewLogger(ctx, true)

	mongoClient := client.MongoClient()
	sessionsDB := mongoClient.Database("IntakeConnector")

	router := mux.NewRouter()
	router.Use(middleware.LoggingMiddleware(log))

	var sessionRepo Irepository.SessionRepository = repository.NewMongoSessionRepository(sessionsDB)

	httpClient := &http.Client{Timeout: 30 * time.Second}
	var conversationClient Iservices.IConversationClient = provider.NewConversationProvider(
		log,
		httpClient,
		config.GetEnv("CONVERSATION_API_URL"),
		config.GetEnv("CONVERSATION_API_KEY"),
	)

	openaiClient := openai.NewClient(config.GetEnv("OPENAI_API_KEY"))
	var analyzer Iservices.ITranscriptAnalyzer = services.NewAnalyzerService(
		log,
		openaiClient,
		config.GetEnvOrDefault("OPENAI_MODEL_ANALYSIS", "gpt-4o-mini"),
	)

	var renderer Iservices.IReportRenderer = report.NewPDFRenderer(log)

	smtpPort, err := strconv.Atoi(config.GetEnvOrDefault("SMTP_PORT", "587"))
	if err != nil {
		log.Fatal(fmt.Sprintf("Invalid SMTP_PORT: %v", err))
	}
	var mailer Iservices.IReportMailer = services.NewMailerService(
		log,
		config.GetEnv("SMTP_HOST"),
		smtpPort,
		config.GetEnv("SMTP_USERNAME"),
		config.GetEnv("SMTP_PASSWORD"),
		config.GetEnv("REPORT_FROM_ADDRESS"),
	)

	var reportService Iservices.IIntakeReportService = services.NewReportService(
		log, sessionRepo, conversationClient, analyzer, renderer, mailer,
	)

	pollSeconds, err := strconv.Atoi(config.GetEnvOrDefault("POLL_INTERVAL_SECONDS", "60"))
	if err != nil {
		log.Fatal(fmt.Sprintf("Invalid POLL_INTERVAL_SECONDS: %v", err))
	}
	poller := services.NewPollerService(log, sessionRepo, conversationClient, reportService, time.Duration(pollSeconds)*time.Second)
	poller.Start(ctx)

	webhookHandlers := handlers.NewWebhookHandlers(log, sessionRepo, reportService)
	demoHandlers := handlers.NewDemoHandlers(log, sessionRepo, reportService)

	routes := routes.NewRoutes(
		router,
		webhookHandlers,
		demoHandlers,
	)

	routes.Init()

	port := config.GetEnv("PORT")
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", port),
		Handler: router,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)

	go func() {
		log.Info(fmt.Sprintf("Server is running on port %s", port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(fmt.Sprintf("Error running HTTP server: %s", err))
			os.Exit(1)
		}
	}()

	<-stop
	log.Info("Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error(fmt.Sprintf("Server forced to shutdown: %v", err))
	} else {
		log.Info("Server stopped gracefully.")
	}
}
