package cmd

import (
	"dropletbot/internal/config"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var ConfigDir string

var RootCmd = &cobra.Command{
	Use:   "dropletbot",
	Short: "Discord bot for managing a DigitalOcean droplet",
}

func Execute() {
	RootCmd.PersistentFlags().StringVar(&ConfigDir, "config-dir", "", "Directory holding config.json, keys/ and the settings database")

	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	dir := ConfigDir
	if dir == "" {
		var err error
		dir, err = config.DefaultConfigDir()
		if err != nil {
			return nil, err
		}
	}
	return config.LoadConfig(dir)
}
