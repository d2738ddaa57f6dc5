package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver

	"shiftledger.service/internal/config"
	"shiftledger.service/internal/core"
	"shiftledger.service/internal/ports/messaging"
	"shiftledger.service/internal/ports/repository"
	"shiftledger.service/internal/worker"
	"shiftledger.service/internal/worker/companyapi"
	"shiftledger.service/internal/worker/report"
	"shiftledger.service/pkg/aws"
	"shiftledger.service/pkg/database"
	"shiftledger.service/pkg/logger"
)

func main() {
	// Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Could not load configuration: %v", err)
	}

	logger.Setup(cfg.IsLocalDev)

	// DB connection
	db, err := database.NewConnection(cfg)
	if err != nil {
		log.Fatalf("Error opening database: %v", err)
	}
	defer db.Close()
	log.Println("Successfully connected to the database.")

	// AWS SDK Config
	awsCfg, err := aws.NewAWSConfig(context.Background(), cfg)
	if err != nil {
		log.Fatalf("unable to load SDK config: %v", err)
	}

	// Initialize Dependencies
	sqsClient := sqs.NewFromConfig(awsCfg)
	sesClient := ses.NewFromConfig(awsCfg)

	repo := repository.NewEventRepository(db, nil)
	producer := messaging.NewSQSProducer(sqsClient, cfg.ReportSQSQueueURL)
	service := core.NewShiftLogService(repo, producer, nil)

	reportService := core.NewSESReportService(sesClient, cfg.ReportSender)
	companyClient := companyapi.NewHTTPClient(cfg.CompanyAPIURL)
	processor := report.NewProcessor(service, reportService, companyClient, nil, cfg.ReportRecipient)

	// Start Worker
	ctx, cancel := context.WithCancel(context.Background())
	app := worker.NewWorker(sqsClient, cfg.ReportSQSQueueURL, processor)

	go func() {
		app.Start(ctx)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down worker...")

	// Cancel the context to signal the worker to stop polling.
	cancel()

	log.Println("Worker exited gracefully")
}
