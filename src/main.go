package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/Ngo-Miingg/Parking-Smart/logger"
	"github.com/Ngo-Miingg/Parking-Smart/src/config"
	"github.com/Ngo-Miingg/Parking-Smart/src/server"
)

func main() {
	cfg := loadConfig()
	setupLogging(cfg)

	srv, err := server.NewServer(&cfg)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	if err := srv.Run(); err != nil {
		log.Fatalf("Server stopped with error: %v", err)
	}
}

func loadConfig() config.GlobalConfig {
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	return cfg
}

func setupLogging(cfg config.GlobalConfig) {
	logger.Init(cfg.LogLevel)

	handler := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(handler)
}
