package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/emre/sinavmarket/internal/pkg/logger"
	"github.com/emre/sinavmarket/internal/server"
)

// @title sinavmarket API
// @version 1.0
// @description API for the sinavmarket exam preparation store and online exam platform
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@sinavmarket.com

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization

func main() {
	// A missing .env file is fine, the environment may already be set
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg("No .env file found, using process environment")
	}

	// NewServer orchestrates LoadConfigAndSetupLogger, SetupDatabase,
	// BuildDependencies and SetupRouter
	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	// Run blocks until a shutdown signal arrives
	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
	os.Exit(0)
}
