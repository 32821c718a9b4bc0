package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Robo-91/grocery-inventory/config"
	"github.com/Robo-91/grocery-inventory/internal/app"
	"github.com/Robo-91/grocery-inventory/internal/webserver"
)

var (
	cfile = flag.String("c", "", "config file path")
	debug = flag.Bool("d", false, "enable debug mode")
)

func main() {
	flag.Parse()
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(*cfile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if *debug {
		cfg.System.Debug = true
		cfg.Logger.Mode = "development"
	}

	application := app.NewApplication(cfg)
	if err := application.Init(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "init application: %v\n", err)
		os.Exit(1)
	}
	defer application.Release()

	server, err := webserver.NewWebServer(cfg, application.Store())
	if err != nil {
		zap.S().Fatalf("init web server: %v", err)
	}

	application.StartBackgroundJobs()

	go func() {
		if err := server.Start(); err != nil {
			zap.S().Fatalf("web server error: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	zap.S().Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		zap.S().Errorf("shutdown error: %v", err)
	}
}
