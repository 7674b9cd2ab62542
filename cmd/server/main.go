package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"carmarket/internal/config"
	"carmarket/internal/database"
	"carmarket/internal/database/migrations"
	"carmarket/internal/queue"
	"carmarket/internal/redis"
	transport "carmarket/internal/transport/http"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "carmarket",
	Short: "Car marketplace API server",
	// Running the binary with no subcommand starts the API.
	RunE: runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := transport.Run(ctx, cfg); err != nil {
		log.Printf("Server failed: %v", err)
		return err
	}
	return nil
}

// migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		db, err := database.Connect(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := migrations.MigrateUp(db.DB); err != nil {
			return err
		}
		fmt.Println("Migrations applied")
		return nil
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		db, err := database.Connect(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		st, err := migrations.GetStatus(db.DB)
		if err != nil {
			return err
		}
		fmt.Printf("Version: %d\n", st.Version)
		fmt.Printf("Latest:  %d\n", st.Latest)
		fmt.Printf("Dirty:   %t\n", st.Dirty)
		return nil
	},
}

// events command
var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Inspect the marketplace event stream",
}

var eventsCount int64

var eventsRecentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Print the newest marketplace events",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if cfg.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is not set")
		}

		client, err := redis.NewClient(cfg.RedisURL)
		if err != nil {
			return err
		}
		defer client.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()

		msgs, err := queue.NewReader(client.Client).Recent(ctx, queue.StreamMarketplace, eventsCount)
		if err != nil {
			return err
		}
		if len(msgs) == 0 {
			fmt.Println("No events")
			return nil
		}
		for _, m := range msgs {
			e := m.Event
			fmt.Printf("%s  %-12s  %s  car=%s", m.ID, e.Type, time.Unix(e.Timestamp, 0).UTC().Format(time.RFC3339), e.CarID)
			if e.MessageID != "" {
				fmt.Printf(" message=%s sender=%s receiver=%s", e.MessageID, e.SenderID, e.ReceiverID)
			} else {
				fmt.Printf(" seller=%s", e.SellerID)
			}
			fmt.Println()
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(migrateCmd)

	eventsRecentCmd.Flags().Int64VarP(&eventsCount, "count", "n", 20, "number of events to show")
	eventsCmd.AddCommand(eventsRecentCmd)
	rootCmd.AddCommand(eventsCmd)
}
