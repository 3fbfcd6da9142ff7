package cmd

import (
	"context"
	"dropletbot/internal/app"
	"dropletbot/internal/cli/ui"
	"dropletbot/internal/config"
	"dropletbot/internal/domain"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
)

var actionTier string

var actionCmd = &cobra.Command{
	Use:       "action [power_on|power_off|reboot|resize]",
	Short:     "Run a droplet action from the terminal after confirmation",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"power_on", "power_off", "reboot", "resize"},
	Run: func(cmd *cobra.Command, args []string) {
		handleAction(args[0], actionTier)
	},
}

func init() {
	actionCmd.Flags().StringVar(&actionTier, "tier", "", "Size tier for resize (low or peak)")
	RootCmd.AddCommand(actionCmd)
}

func handleAction(kind, tier string) {
	action, err := domain.ParseAction(kind, tier)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	token, err := config.LoadAPIToken(cfg.KeysPath)
	if err != nil {
		log.Fatalf("Error loading secrets: %v", err)
	}

	container, err := app.NewContainer(cfg, token, nil)
	if err != nil {
		log.Fatalf("Fatal: %v", err)
	}
	defer container.Close()

	w := container.Workflows.Request(action, "terminal")
	outcome, ok, err := ui.RunConfirm(context.Background(), container.Workflows, w)
	if err != nil {
		log.Fatalf("Error running prompt: %v", err)
	}
	if !ok {
		fmt.Println(outcome)
		container.Close()
		os.Exit(1)
	}
	fmt.Println(outcome)
}
