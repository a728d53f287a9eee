package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/handlers"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/cors"

	"github.com/funpoker/funpoker/pkg/logging"
	"github.com/funpoker/funpoker/pkg/server"
)

func main() {
	var (
		configPath string
		addr       string
		dbPath     string
		debugLevel string
	)
	flag.StringVar(&configPath, "config", "", "Path to yaml config file")
	flag.StringVar(&addr, "addr", "", "Listen address (overrides config)")
	flag.StringVar(&dbPath, "db", "", "Path to SQLite database file (overrides config)")
	flag.StringVar(&debugLevel, "debuglevel", "", "Logging level: trace, debug, info, warn, error")
	flag.Parse()

	cfg, err := server.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if addr != "" {
		cfg.Addr = addr
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	if debugLevel != "" {
		cfg.DebugLevel = debugLevel
	}

	logBackend, err := logging.NewLogBackend(logging.LogConfig{
		LogFile:    cfg.LogPath,
		DebugLevel: cfg.DebugLevel,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logging: %v\n", err)
		os.Exit(1)
	}
	defer logBackend.Close()
	log := logBackend.Logger("SRVR")

	store, err := server.NewStore(cfg.DBPath)
	if err != nil {
		log.Errorf("failed to open store: %v", err)
		os.Exit(1)
	}
	defer store.Close()

	workers := server.NewWorkerPool(cfg.WorkerCount, cfg.WorkerCount*4, log)
	defer workers.Stop()

	pool := server.NewSocketPool(logBackend.Logger("SOCK"))
	defer pool.Close()

	bots := server.NewBotClient(cfg.BotURL, cfg.BotTimeout, logBackend.Logger("BOT"))

	orc, err := server.NewOrchestrator(cfg, store, pool, bots, workers, logBackend.Logger("GAME"))
	if err != nil {
		log.Errorf("failed to build orchestrator: %v", err)
		os.Exit(1)
	}
	pool.StartHealthChecker(cfg.PingInterval, orc.HandleConnectionClosed)

	h := server.NewHandlers(orc, pool, logBackend.Logger("HTTP"))
	handler := cors.New(cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(handlers.CombinedLoggingHandler(os.Stdout, h.Routes()))

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: handler,
	}

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		log.Infof("shutting down")
		srv.Close()
	}()

	log.Infof("listening on %s", cfg.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Errorf("serve error: %v", err)
		os.Exit(1)
	}
}
