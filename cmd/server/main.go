package main

import (
	"fmt"
	"log"

	"github.com/palletwise/backend/config"
	"github.com/palletwise/backend/internal/catalog"
	httpDelivery "github.com/palletwise/backend/internal/delivery/http"
	"github.com/palletwise/backend/internal/logging"
	"github.com/palletwise/backend/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Development: cfg.Logging.Development,
	})
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	cat, err := catalog.Load()
	if err != nil {
		logger.Fatalw("catalog failed validation", "err", err)
	}

	planner := usecase.NewPlanner(usecase.PlannerConfig{})
	quotes := usecase.NewQuoteService(cat, planner)

	handler := httpDelivery.NewHandler(quotes)
	router := httpDelivery.SetupRouter(cfg, handler)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	logger.Infow("quote API listening",
		"addr", addr,
		"environment", cfg.Server.Environment,
		"catalogKeys", len(cat.Keys()),
	)

	if err := router.Run(addr); err != nil {
		logger.Fatalw("server stopped", "err", err)
	}
}
