// Command seeddb populates sample records for every product category.
//
// Usage: seeddb <mongodb-uri>
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Robo-91/grocery-inventory/config"
	"github.com/Robo-91/grocery-inventory/internal/app"
	"github.com/Robo-91/grocery-inventory/internal/seeds"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: seeddb <mongodb-uri>")
		os.Exit(2)
	}
	_ = godotenv.Load()

	cfg := config.DefaultConfig()
	cfg.Database.URI = os.Args[1]
	cfg.Logger.FileEnable = false

	application := app.NewApplication(cfg)
	if err := application.Init(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "init application: %v\n", err)
		os.Exit(1)
	}
	defer application.Release()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	if err := seeds.Run(ctx, application.Store()); err != nil {
		zap.S().Errorf("seeding failed: %v", err)
		application.Release()
		os.Exit(1)
	}
	zap.S().Info("seeding complete")
}
