package main

import (
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/sanonone/grafodb/internal/server"
	"github.com/sanonone/grafodb/pkg/engine"
)

func main() {
	httpAddr := flag.String("http-addr", ":9091", "Address and port for the REST API server (e.g. :9091)")
	configPath := flag.String("config", "", "Path to the YAML schema file applied at startup (labels and indexes)")
	authToken := flag.String("auth-token", "", "Bearer token required on API calls; empty disables auth")
	logLevel := flag.String("log-level", "info", "Minimum log level: debug, info, warn, error")

	flag.Parse()

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		log.Fatalf("Invalid log level %q: %v", *logLevel, err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	opts := engine.DefaultOptions()
	opts.ConfigPath = *configPath
	opts.Logger = logger

	eng, err := engine.Open(opts)
	if err != nil {
		log.Fatalf("Unable to open the engine: %v", err)
	}

	srv, err := server.NewServer(eng, *httpAddr, *authToken)
	if err != nil {
		log.Fatalf("Unable to create the server: %v", err)
	}

	// channel listening for the interrupt signal (Ctrl+c)
	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	// run the HTTP server in a goroutine so main can wait on the signal
	go func() {
		log.Fatal(srv.Run())
	}()

	<-shutdownChan

	// clean shutdown: server first, then the engine
	srv.Shutdown()
	if err := eng.Close(); err != nil {
		log.Printf("Engine close error: %v", err)
	}
}
