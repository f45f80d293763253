package cmd

import (
	"context"
	"fmt"

	configadapter "github.com/bnema/vmsim/internal/adapters/config"
	boardadapter "github.com/bnema/vmsim/internal/adapters/render/board"
	tomlrepo "github.com/bnema/vmsim/internal/adapters/repo/toml"
	"github.com/bnema/vmsim/internal/application"
	"github.com/bnema/vmsim/internal/ports"
	"github.com/spf13/viper"
)

type app struct {
	repo          *tomlrepo.Repository
	settings      configadapter.Settings
	clock         ports.Clock
	boardRenderer func(application.Snapshot, boardadapter.RenderOptions) (string, error)
}

func wireApp() (*app, error) {
	cfg := viper.New()

	settings, err := configadapter.Load(cfg)
	if err != nil {
		return nil, fmt.Errorf("wire settings: %w", err)
	}

	repo, err := tomlrepo.NewRepository(cfg)
	if err != nil {
		return nil, fmt.Errorf("wire catalog repository: %w", err)
	}

	return &app{
		repo:          repo,
		settings:      settings,
		clock:         ports.SystemClock{},
		boardRenderer: boardadapter.Render,
	}, nil
}

// newSimulator loads the catalog and builds a fresh simulator. instant
// drops every simulated latency.
func (a *app) newSimulator(ctx context.Context, instant bool) (*application.Simulator, error) {
	delays := a.settings.Delays
	if instant {
		delays = application.Delays{}
	}

	return application.NewSimulator(ctx, a.repo, a.clock, application.Options{
		Delays:          delays,
		CapacityOptions: a.settings.CapacityOptions,
	})
}
