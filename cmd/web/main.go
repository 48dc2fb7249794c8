package main

import (
	"net"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/invaders/internal/config"
	"github.com/tomz197/invaders/internal/scores"
)

const (
	defaultHost   = "0.0.0.0"
	defaultPort   = "8080"
	defaultDBPath = "/app/data/scores.db"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "web",
	})

	host := config.GetEnv("WEB_HOST", defaultHost)
	port := config.GetEnv("WEB_PORT", defaultPort)
	sshHost := config.GetEnv("SSH_DISPLAY_HOST", "your-server.com")
	sshPort := config.GetEnv("SSH_DISPLAY_PORT", "22")
	dbPath := config.GetEnv("INVADERS_DB", defaultDBPath)
	topN := config.GetEnvInt("RANKINGS_LIMIT", 20)

	store, err := scores.OpenStore(dbPath)
	if err != nil {
		logger.Fatal("failed to open score database", "path", dbPath, "err", err)
	}
	defer store.Close()

	srv := &http.Server{
		Addr:              net.JoinHostPort(host, port),
		Handler:           newSite(store, sshHost, sshPort, topN, logger).routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting web server", "addr", "http://"+srv.Addr)
	if err := srv.ListenAndServe(); err != nil {
		logger.Fatal("server error", "err", err)
	}
}
