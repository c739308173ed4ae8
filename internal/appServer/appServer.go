package appServer

import (
	"context"
	"crypto/tls"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ds124wfegd/WB_L3/realtyedit/config"
	"github.com/ds124wfegd/WB_L3/realtyedit/internal/database/postgres"
	"github.com/ds124wfegd/WB_L3/realtyedit/internal/pkg/gemini"
	"github.com/ds124wfegd/WB_L3/realtyedit/internal/pkg/kafka"
	"github.com/ds124wfegd/WB_L3/realtyedit/internal/pkg/rabbitMQ"
	"github.com/ds124wfegd/WB_L3/realtyedit/internal/pkg/ratelimit"
	"github.com/ds124wfegd/WB_L3/realtyedit/internal/pkg/storage"
	"github.com/ds124wfegd/WB_L3/realtyedit/internal/service"
	"github.com/ds124wfegd/WB_L3/realtyedit/internal/session"
	"github.com/ds124wfegd/WB_L3/realtyedit/internal/transport"
	"github.com/ds124wfegd/WB_L3/realtyedit/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type Server struct {
	httpServer *http.Server
}

func (s *Server) Run(cfg *config.Config, handler http.Handler) error {
	s.httpServer = &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler,
		MaxHeaderBytes:    1 << 20,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       cfg.Server.Idle_timeout,
		ReadHeaderTimeout: 3 * time.Second,
		TLSConfig:         &tls.Config{MinVersion: tls.VersionTLS12},
		ErrorLog:          log.New(os.Stderr, "SERVER ERROR: ", log.LstdFlags),
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func NewServer(cfg *config.Config) {

	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	level, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	// Edit journal
	var journal postgres.JournalRepository
	if cfg.Database.Host != "" {
		db, err := postgres.NewPostgresDB(&cfg.Database)
		if err != nil {
			logrus.Fatalf("Failed to initialize database: %v", err)
		}
		defer db.Close()

		if err := postgres.RunMigrations(db); err != nil {
			logrus.Fatalf("Failed to run migrations: %v", err)
		}
		journal = postgres.NewJournalRepository(db)
		logrus.Info("Edit journal enabled")
	} else {
		logrus.Warn("Database host not provided, edit journal disabled")
	}

	sessionOptions := []session.Option{
		session.WithEditTimeout(cfg.App.EditTimeout),
		session.WithMaxPixels(cfg.App.MaxImagePixels),
	}

	// Rate limiting
	if cfg.Redis.Host != "" && cfg.App.EditsPerMinute > 0 {
		redisClient, err := ratelimit.NewRedisClient(&cfg.Redis)
		if err != nil {
			logrus.Errorf("Failed to connect to Redis: %v. Continuing without rate limiting...", err)
		} else {
			defer redisClient.Close()
			sessionOptions = append(sessionOptions,
				session.WithLimiter(ratelimit.NewLimiter(redisClient, cfg.App.EditsPerMinute, time.Minute)))
			logrus.WithField("edits_per_minute", cfg.App.EditsPerMinute).Info("Edit rate limiting enabled")
		}
	}

	// Edit events
	publisher, publisherCheck := newPublisher(cfg)
	defer publisher.Close()

	recorder := service.NewEditRecorder(cfg.Events.BufferSize)
	sessionOptions = append(sessionOptions, session.WithRecorder(recorder))

	// Download archive
	var archive service.ArchiveService
	if cfg.Storage.ArchiveDir != "" {
		archive = service.NewArchiveService(storage.NewFileStorage(cfg.Storage.ArchiveDir))
		logrus.WithField("dir", cfg.Storage.ArchiveDir).Info("Download archive enabled")
	}

	editor := gemini.NewClient(gemini.Config{
		BaseURL: cfg.Gemini.BaseURL,
		Model:   cfg.Gemini.Model,
		Timeout: cfg.Gemini.Timeout,
	}, cfg.APIKey)
	if cfg.APIKey() == "" {
		logrus.Warn("API_KEY is not set, edit requests will fail until it is provided")
	}

	sessionService := service.NewSessionService(editor, sessionOptions...)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	workers, workersCtx := errgroup.WithContext(ctx)

	cleanupWorker := worker.NewSessionCleanupWorker(sessionService, archive, cfg.App.CleanupInterval, cfg.App.SessionTTL)
	workers.Go(func() error {
		cleanupWorker.Start(workersCtx)
		return nil
	})

	journalWorker := worker.NewEditJournalWorker(recorder.Records(), journal, publisher)
	workers.Go(func() error {
		journalWorker.Start(workersCtx)
		return nil
	})

	sessionHandler := transport.NewSessionHandler(sessionService, archive, journal, cfg.App.MaxUploadSize)
	if publisherCheck != nil {
		sessionHandler.AddHealthCheck("events", publisherCheck)
	}

	if cfg.Server.Mode == "release" || cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := new(Server)
	go func() {
		if err := srv.Run(cfg, transport.InitRoutes(sessionHandler, cfg.App.EditTimeout+30*time.Second)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("error occured while running http server: %s", err.Error())
		}
	}()

	logrus.Print("App Started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logrus.Print("App Shutting Down")

	sessionHandler.Shutdown()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("error occured on server shutting down: %s", err.Error())
	}

	recorder.Close()
	cancel()
	if err := workers.Wait(); err != nil {
		logrus.Errorf("error occured on workers shutting down: %s", err.Error())
	}
}

// newPublisher picks the edit event sink. check is non-nil when the sink has
// a connection worth reporting on /health.
func newPublisher(cfg *config.Config) (publisher service.EventPublisher, check func() error) {
	switch cfg.Events.Driver {
	case "kafka":
		logrus.Info("Publishing edit events to Kafka")
		return kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic), nil
	case "rabbitmq":
		mq, err := rabbitMQ.NewPublisher(rabbitMQ.Config{
			URL:       cfg.RabbitMQ.URL,
			QueueName: cfg.RabbitMQ.QueueName,
		})
		if err != nil {
			logrus.Errorf("Failed to connect to RabbitMQ: %v. Logging edit events instead...", err)
			return service.NewLogPublisher(), nil
		}
		logrus.Info("Publishing edit events to RabbitMQ")
		return mq, mq.Ping
	default:
		return service.NewLogPublisher(), nil
	}
}
