package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Ngo-Miingg/Parking-Smart/logger"
	"github.com/Ngo-Miingg/Parking-Smart/src/camera"
	"github.com/Ngo-Miingg/Parking-Smart/src/config"
	"github.com/Ngo-Miingg/Parking-Smart/src/db"
	"github.com/Ngo-Miingg/Parking-Smart/src/gate"
	"github.com/Ngo-Miingg/Parking-Smart/src/rabbitmq"
	"github.com/Ngo-Miingg/Parking-Smart/src/recognizer"
	"github.com/Ngo-Miingg/Parking-Smart/src/repository"
	"github.com/Ngo-Miingg/Parking-Smart/src/router"
	"github.com/Ngo-Miingg/Parking-Smart/src/service"
)

// Server represents the HTTP server and its owned collaborators.
type Server struct {
	config          *config.GlobalConfig
	database        *db.DB
	notifier        *rabbitmq.Notifier
	http            *http.Server
	shutdownHandler ShutdownHandlerInterface
}

// NewServer wires the full service: database, notifier, camera, recognition
// pipeline, access controller, gate queue and routes.
func NewServer(cfg *config.GlobalConfig) (*Server, error) {
	database, err := db.NewDB(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	server := &Server{
		config:   cfg,
		database: database,
	}

	// The notifier is optional; without a broker the service still decides,
	// it just has no live dashboard feed.
	var notifier service.Notifier = service.NopNotifier{}
	if cfg.RabbitURL != "" {
		amqpNotifier, err := rabbitmq.NewNotifier(cfg.RabbitURL, cfg.EventExchange)
		if err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
		}
		server.notifier = amqpNotifier
		notifier = amqpNotifier
	} else {
		slog.Warn("RABBITMQ_URL not set, realtime events disabled")
	}

	evidence, err := camera.NewEvidenceStore(cfg.CaptureDir)
	if err != nil {
		server.closeCollaborators()
		return nil, err
	}

	var det recognizer.Detector
	var ocr recognizer.OCR
	if cfg.DetectorAddr != "" && cfg.OCRAddr != "" {
		det = recognizer.NewHTTPDetector(cfg.DetectorAddr)
		ocr = recognizer.NewHTTPOCR(cfg.OCRAddr)
	} else {
		slog.Warn("DETECTOR_ADDR/OCR_ADDR not set, plate recognition disabled")
	}
	rec := recognizer.New(det, ocr, logger.Logger)

	capturer := camera.NewClient(logger.Logger)
	loop := service.NewSnapRecognizeLoop(capturer, evidence, rec, logger.Logger)

	sessions := repository.NewSessionRepository(database)
	vehicles := repository.NewVehicleRepository(database)

	access := service.NewAccessService(sessions, loop, notifier, logger.Logger, cfg.CamEntry, cfg.CamExit)
	queue := gate.NewCommandQueue()

	r := router.NewRouter(router.Deps{
		Access:     access,
		Queue:      queue,
		Sessions:   sessions,
		Vehicles:   vehicles,
		Notifier:   notifier,
		CaptureDir: cfg.CaptureDir,
	})

	server.http = &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Handler: r,
	}

	// Create and assign shutdown handler
	server.shutdownHandler = NewShutdownHandler(server)

	return server, nil
}

// Run starts the server with graceful shutdown using ShutdownHandler
func (s *Server) Run() error {
	osSignals := make(chan os.Signal, 1)
	signal.Notify(osSignals, syscall.SIGINT, syscall.SIGTERM)

	serverDone := s.startServerGoroutine()

	return s.shutdownHandler.HandleShutdown(serverDone, osSignals)
}

// startServerGoroutine starts the HTTP server in a goroutine and returns a
// channel for errors
func (s *Server) startServerGoroutine() chan error {
	serverDone := make(chan error, 1)

	go func() {
		slog.Info("Starting parking access service",
			"host", s.config.Host,
			"port", s.config.Port)

		err := s.http.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			serverDone <- err
			return
		}
		serverDone <- nil
	}()

	return serverDone
}

func (s *Server) closeCollaborators() {
	if s.notifier != nil {
		s.notifier.Close()
	}
	if s.database != nil {
		s.database.Close()
	}
}
