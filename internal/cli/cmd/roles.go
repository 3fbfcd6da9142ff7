package cmd

import (
	"dropletbot/internal/domain"
	"dropletbot/internal/settings"
	"dropletbot/internal/storage"
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

var rolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "Manage the roles allowed to use the droplet panel",
}

var rolesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List authorized role IDs",
	Run: func(cmd *cobra.Command, args []string) {
		handleListRoles()
	},
}

var rolesSetCmd = &cobra.Command{
	Use:   "set [role-id...]",
	Short: "Replace the authorized role IDs (no IDs allows everyone)",
	Run: func(cmd *cobra.Command, args []string) {
		handleSetRoles(args)
	},
}

func init() {
	rolesCmd.AddCommand(rolesListCmd, rolesSetCmd)
	RootCmd.AddCommand(rolesCmd)
}

func openState() (*settings.State, func()) {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	store, err := storage.NewGormStore(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Error opening settings database: %v", err)
	}

	state, err := settings.Load(store)
	if err != nil {
		store.Close()
		log.Fatalf("Error loading settings: %v", err)
	}
	return state, func() { store.Close() }
}

func handleListRoles() {
	state, closeStore := openState()
	defer closeStore()

	roles := state.AuthorizedRoles().Sorted()
	if len(roles) == 0 {
		fmt.Println("No authorized roles configured: everyone can use the panel.")
		return
	}
	fmt.Println("Authorized roles:")
	for _, id := range roles {
		fmt.Printf("- %s\n", id)
	}
}

func handleSetRoles(args []string) {
	roles := domain.NewRoleSet()
	for _, arg := range args {
		id, err := domain.ParseRoleID(arg)
		if err != nil {
			log.Fatalf("Error: %v", err)
		}
		roles[id] = struct{}{}
	}

	state, closeStore := openState()
	defer closeStore()

	if err := state.SetAuthorizedRoles(roles); err != nil {
		log.Fatalf("Error saving roles: %v", err)
	}
	fmt.Println("Authorized roles updated successfully.")
	fmt.Println("A running bot keeps its loaded roles until it is restarted.")
}
