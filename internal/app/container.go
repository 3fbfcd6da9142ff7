package app

import (
	"dropletbot/internal/access"
	"dropletbot/internal/clock"
	"dropletbot/internal/config"
	"dropletbot/internal/confirm"
	"dropletbot/internal/droplet"
	"dropletbot/internal/panel"
	"dropletbot/internal/settings"
	"dropletbot/internal/storage"
	"fmt"
)

type Container struct {
	Store     *storage.GormStore
	State     *settings.State
	Client    *droplet.Client
	Workflows *confirm.Manager
	Surface   *panel.Surface
}

// NewContainer opens the settings database and wires every component once. A nil
// clock means wall time.
func NewContainer(cfg *config.Config, apiToken string, clk clock.Clock) (*Container, error) {
	store, err := storage.NewGormStore(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("could not open settings database: %w", err)
	}

	state, err := settings.Load(store)
	if err != nil {
		store.Close()
		return nil, err
	}

	client := droplet.NewClient(droplet.Options{
		BaseURL:   cfg.APIBaseURL,
		Token:     apiToken,
		DropletID: cfg.DropletID,
		Sizes:     cfg.Sizes(),
		Timeout:   cfg.HTTPTimeout(),
	})
	workflows := confirm.NewManager(client, clk, cfg.ConfirmTimeout())

	return &Container{
		Store:     store,
		State:     state,
		Client:    client,
		Workflows: workflows,
		Surface:   panel.NewSurface(access.NewGate(state), workflows),
	}, nil
}

func (c *Container) Close() error {
	return c.Store.Close()
}
