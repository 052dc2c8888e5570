package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/tablecraft/staffing-api-go/pkg/assignment"
	"github.com/tablecraft/staffing-api-go/pkg/auth"
	"github.com/tablecraft/staffing-api-go/pkg/database"
	"github.com/tablecraft/staffing-api-go/pkg/handlers"
	"github.com/tablecraft/staffing-api-go/pkg/store"
)

func main() {
	// Load .env if it exists
	// Try root and parent directories for flexibility
	envPaths := []string{".env", "../.env", "../../.env"}
	for _, p := range envPaths {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			break
		}
	}

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	logger, err := zap.NewProduction()
	if os.Getenv("DEBUG") == "true" {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	db := database.InitDB()
	if err := auth.EnsureAdminExists(db); err != nil {
		logger.Warn("could not ensure admin user", zap.Error(err))
	}

	svc := assignment.NewService(store.New(db), logger)
	h := handlers.New(db, svc, logger)

	handlers.RegisterValidators()

	r := gin.New()
	r.Use(handlers.RequestLogger(logger), gin.Recovery())
	h.Register(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}

	logger.Info("server starting", zap.String("port", port))
	if err := r.Run(":" + port); err != nil {
		logger.Fatal("could not run server", zap.Error(err))
	}
}
