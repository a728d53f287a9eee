package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/funpoker/funpoker/pkg/bot"
	"github.com/funpoker/funpoker/pkg/logging"
	"github.com/funpoker/funpoker/pkg/utils"
)

func main() {
	var (
		addr       string
		datadir    string
		debugLevel string
	)
	flag.StringVar(&addr, "addr", ":5000", "Listen address for the move service")
	flag.StringVar(&datadir, "datadir", "", "Data directory for logs (empty for stdout only)")
	flag.StringVar(&debugLevel, "debuglevel", "info", "Logging level: trace, debug, info, warn, error")
	flag.Parse()

	var logFile string
	if datadir != "" {
		if err := utils.EnsureDataDirExists(datadir); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		logFile = filepath.Join(datadir, "logs", "funpokerbot.log")
	}

	logBackend, err := logging.NewLogBackend(logging.LogConfig{
		LogFile:    logFile,
		DebugLevel: debugLevel,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logging: %v\n", err)
		os.Exit(1)
	}
	defer logBackend.Close()
	log := logBackend.Logger("BOT")

	srv := bot.NewServer(log)
	log.Infof("move service listening on %s", addr)
	if err := http.ListenAndServe(addr, srv.Routes()); err != nil {
		log.Errorf("serve error: %v", err)
		os.Exit(1)
	}
}
