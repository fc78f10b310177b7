package main

import (
	"context"
	"flag"
	"io"
	"log/syslog"
	"os"
	"os/signal"
	"time"

	"github.com/buzkaaclicker/elsewhere"
	"github.com/buzkaaclicker/elsewhere/persistent"
	"github.com/buzkaaclicker/elsewhere/transport/rest"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/sirupsen/logrus"
	logrusys "github.com/sirupsen/logrus/hooks/syslog"
	"github.com/tidwall/buntdb"
	"github.com/uptrace/bun"
	"gopkg.in/natefinch/lumberjack.v2"
)

const iconsPrefix = "/elsewhere/img/"

type config struct {
	debug         bool
	pgDsn         string
	cacheBackend  string
	buntPath      string
	redisAddr     string
	redisPassword string
	iconsDir      string
	logFile       string
	// Comma separated, as accepted by the cors middleware.
	corsOrigins string
}

func getEnv(key string, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func configFromEnv() config {
	requireEnv := func(key string) string {
		value := os.Getenv(key)
		if value == "" {
			logrus.Fatalln("Environment variable " + key + " is not set!")
		}
		return value
	}
	cfg := config{
		debug:         os.Getenv("DEBUG") == "true",
		pgDsn:         requireEnv("POSTGRES_DSN"),
		cacheBackend:  getEnv("CACHE_BACKEND", "bunt"),
		buntPath:      getEnv("BUNT_PATH", "kv.db"),
		redisPassword: os.Getenv("REDIS_PASSWORD"),
		iconsDir:      getEnv("ICONS_DIR", "./icons/"),
		logFile:       os.Getenv("LOG_FILE"),
		corsOrigins:   getEnv("CORS_ORIGINS", "*"),
	}
	if cfg.cacheBackend == "redis" {
		cfg.redisAddr = requireEnv("REDIS_ADDR")
	}
	return cfg
}

func setupLogger(verbose bool, logFile string) {
	logrus.SetFormatter(&logrus.TextFormatter{
		TimestampFormat: time.Stamp,
		FullTimestamp:   true,
	})
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}
	if logFile != "" {
		logrus.SetOutput(io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    100, // megabytes
			MaxBackups: 5,
			MaxAge:     28, // days
			Compress:   true,
		}))
	}

	syslogHook, err := logrusys.NewSyslogHook("", "", syslog.LOG_USER, "elsewhere")
	if err != nil {
		logrus.WithError(err).Warningln("Could not create syslog hook.")
		return
	}
	logrus.AddHook(syslogHook)
}

// Returns the cache backend and its close func.
func openCacheBackend(ctx context.Context, cfg config) (elsewhere.CacheBackend, func()) {
	switch cfg.cacheBackend {
	case "redis":
		client, err := persistent.RedisOpen(ctx, cfg.redisAddr, cfg.redisPassword)
		if err != nil {
			logrus.WithError(err).Fatalln("Could not connect to redis.")
		}
		return &persistent.RedisCache{Client: client}, func() { client.Close() }
	case "bunt":
		bdb, err := buntdb.Open(cfg.buntPath)
		if err != nil {
			logrus.WithError(err).Fatalln("Could not open buntdb.")
		}
		return &persistent.BuntCache{DB: bdb}, func() { bdb.Close() }
	default:
		logrus.WithField("backend", cfg.cacheBackend).Fatalln("Unknown cache backend.")
		return nil, nil
	}
}

func listenAndServe(ctx context.Context, db *bun.DB, backend elsewhere.CacheBackend, cfg config) func() error {
	userStore := &persistent.UserStore{DB: db}
	profileStore := &persistent.ProfileStore{DB: db}
	networkStore := &persistent.NetworkStore{DB: db}
	networkCache := &elsewhere.NetworkCache{Backend: backend, Store: networkStore}
	networkStore.Cache = networkCache

	if err := elsewhere.SeedAllNetworks(ctx, networkStore, networkCache); err != nil {
		logrus.WithError(err).Fatalln("Could not seed networks.")
	}

	networkController := rest.NetworkController{Cache: networkCache, Store: networkStore}
	profileController := rest.ProfileController{
		Store: profileStore,
		Cache: networkCache,
		Icons: elsewhere.StaticIconUrlFactory(iconsPrefix),
	}

	server := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorHandler: rest.ErrorHandler,
	})
	server.Use(rest.LogHandler())

	server.Use(cors.New(cors.Config{AllowOrigins: cfg.corsOrigins}))

	requestAuthorizer := rest.RequestAuthorizer(userStore)
	server.Get("/api/status", monitor.New())
	networkController.InstallTo(requestAuthorizer, server)
	profileController.InstallTo(requestAuthorizer, server)

	server.Static(iconsPrefix, cfg.iconsDir, fiber.Static{
		Browse: false,
		MaxAge: int((24 * time.Hour).Seconds()),
	})

	server.Use(rest.NotFoundHandler)

	var addr string
	if cfg.debug {
		addr = "127.0.0.1:2137"
	} else {
		addr = ":2137"
	}
	go func() {
		if err := server.Listen(addr); err != nil {
			logrus.WithError(err).Errorln("Fiber listen failed.")
		}
	}()

	return server.Shutdown
}

func awaitInterruption() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	<-c
}

func main() {
	flag.Parse()
	cfg := configFromEnv()
	setupLogger(cfg.debug, cfg.logFile)
	logrus.Infoln("Starting elsewhere.")
	ctx := context.Background()

	logrus.Infoln("Opening database.")
	pg := persistent.PgOpen(ctx, cfg.pgDsn)
	defer pg.Close()
	if err := persistent.Migrate(ctx, pg.DB); err != nil {
		logrus.WithError(err).Fatalln("Could not migrate database.")
	}

	backend, closeBackend := openCacheBackend(ctx, cfg)
	defer closeBackend()

	logrus.Infoln("Starting listening... To shut down use ^C")
	shutdown := listenAndServe(ctx, pg, backend, cfg)

	awaitInterruption()

	logrus.Infoln("Shutting down...")
	if err := shutdown(); err != nil {
		logrus.WithError(err).Warningln("Fiber shutdown failed.")
	}
}
