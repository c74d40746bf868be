package main

import (
	"context"
	"log"
	"os"
	_ "time/tzdata"

	"solarweb/internal"
	"solarweb/internal/config"
	"solarweb/internal/container"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Load application configuration
	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := internal.NewLogger(os.Stderr, internal.ParseLogLevel(appConfig.LogLevel))

	appContainer, err := container.New(appConfig, logger)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}
	defer appContainer.Shutdown(context.Background())

	if err := appContainer.InitStorage(context.Background()); err != nil {
		log.Fatalf("Failed to initialize upload history: %v", err)
	}

	app, err := appContainer.UIApp()
	if err != nil {
		log.Fatalf("Failed to initialize server: %v", err)
	}

	logger.Info("Analysis service at %s (timeout %s)", appConfig.AnalysisAPI.URL, appConfig.AnalysisAPI.Timeout)
	if err := app.Start(":" + appConfig.Server.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
