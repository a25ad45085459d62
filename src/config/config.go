package config

import (
	"fmt"
	"os"
	"strconv"
)

type GlobalConfig struct {
	LogLevel string
	Host     string
	Port     string

	DBHost string
	DBPort int
	DBUser string
	DBPass string
	DBName string

	// RabbitURL is optional: when empty the service runs without realtime
	// event publication.
	RabbitURL     string
	EventExchange string

	// Camera endpoints (host or host:port on the LAN, no scheme).
	CamEntry string
	CamExit  string

	CaptureDir string

	// Detection/OCR model service endpoints. Optional: when either is empty
	// the recognizer reports not-ready and every lane read degrades to
	// UNKNOWN.
	DetectorAddr string
	OCRAddr      string
}

func NewConfig() (GlobalConfig, error) {
	host := os.Getenv("HOST")
	if host == "" {
		return GlobalConfig{}, fmt.Errorf("HOST environment variable is required")
	}

	port := os.Getenv("PORT")
	if port == "" {
		return GlobalConfig{}, fmt.Errorf("PORT environment variable is required")
	}

	dbHost := os.Getenv("DB_HOST")
	if dbHost == "" {
		return GlobalConfig{}, fmt.Errorf("DB_HOST environment variable is required")
	}

	dbPortStr := os.Getenv("DB_PORT")
	if dbPortStr == "" {
		return GlobalConfig{}, fmt.Errorf("DB_PORT environment variable is required")
	}
	dbPort, err := strconv.Atoi(dbPortStr)
	if err != nil {
		return GlobalConfig{}, fmt.Errorf("DB_PORT must be a valid integer: %w", err)
	}

	dbUser := os.Getenv("DB_USER")
	if dbUser == "" {
		return GlobalConfig{}, fmt.Errorf("DB_USER environment variable is required")
	}

	dbPass := os.Getenv("DB_PASS")
	if dbPass == "" {
		return GlobalConfig{}, fmt.Errorf("DB_PASS environment variable is required")
	}

	dbName := os.Getenv("DB_NAME")
	if dbName == "" {
		return GlobalConfig{}, fmt.Errorf("DB_NAME environment variable is required")
	}

	return GlobalConfig{
		LogLevel:      envOr("LOG_LEVEL", "info"),
		Host:          host,
		Port:          port,
		DBHost:        dbHost,
		DBPort:        dbPort,
		DBUser:        dbUser,
		DBPass:        dbPass,
		DBName:        dbName,
		RabbitURL:     os.Getenv("RABBITMQ_URL"),
		EventExchange: envOr("EVENT_EXCHANGE", "parking.events"),
		CamEntry:      envOr("CAM_ENTRY_IP", "172.31.106.40"),
		CamExit:       envOr("CAM_EXIT_IP", "172.31.106.41"),
		CaptureDir:    envOr("CAPTURE_DIR", "static/captures"),
		DetectorAddr:  os.Getenv("DETECTOR_ADDR"),
		OCRAddr:       os.Getenv("OCR_ADDR"),
	}, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
