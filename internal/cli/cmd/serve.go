package cmd

import (
	"context"
	"dropletbot/internal/app"
	"dropletbot/internal/bot"
	"dropletbot/internal/config"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Connect to Discord and serve the droplet panel",
	Run: func(cmd *cobra.Command, args []string) {
		handleServe()
	},
}

func init() {
	RootCmd.AddCommand(serveCmd)
}

func handleServe() {
	log.Println("Starting dropletbot...")

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	secrets, err := config.LoadSecrets(cfg.KeysPath)
	if err != nil {
		log.Fatalf("Error loading secrets: %v", err)
	}

	log.Printf("Using database: %s", cfg.DatabasePath)
	log.Printf("Managing droplet: %s", cfg.DropletID)

	container, err := app.NewContainer(cfg, secrets.DigitalOceanToken, nil)
	if err != nil {
		log.Fatalf("Fatal: %v", err)
	}
	defer container.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := bot.New(container, cfg, secrets).Run(ctx); err != nil {
		log.Fatalf("Bot error: %v", err)
	}
}
