//go:build ignore

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"pguncle/internal/config"
	"pguncle/internal/logger"
	"pguncle/internal/storage"
)

// Creates the relational tables and prints the resulting schema.
//
//	go run scripts/migrate.go -env prod
func main() {
	envFlag := flag.String("env", "dev", "Environment (dev, test, prod)")
	envFileFlag := flag.String("env-file", "", "Path to .env file")
	flag.Parse()

	loadEnv(*envFlag, *envFileFlag)

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("❌ Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(logger.Options{Format: cfg.Log.Format, Level: cfg.Log.Level})
	defer log.Close()

	// NewMySQLStore runs the schema refresh on connect.
	store, err := storage.NewMySQLStore(cfg.Database, log)
	if err != nil {
		log.Fatal("MIGRATE", "Migration failed: "+err.Error())
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := store.Ping(ctx); err != nil {
		log.Fatal("MIGRATE", "Database not reachable after migration: "+err.Error())
	}

	snap := store.Schema()
	for _, table := range snap.TableNames() {
		fmt.Printf("  %s: %v\n", table, snap.Tables[table])
	}
	fmt.Println("Migration completed successfully")
}

func loadEnv(env string, envFile string) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err == nil {
			fmt.Printf("Loaded environment from %s\n", envFile)
			return
		}
	}

	envSpecificFile := fmt.Sprintf(".env.%s", env)
	if err := godotenv.Load(envSpecificFile); err == nil {
		fmt.Printf("Loaded environment from %s\n", envSpecificFile)
		return
	}

	if err := godotenv.Load(); err == nil {
		fmt.Println("Loaded environment from .env")
		return
	}

	fmt.Println("No .env file found, using default or system environment variables")
}
