package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/salescope/salescope/internal/config"
	"github.com/salescope/salescope/internal/market"
	"github.com/salescope/salescope/internal/salesapi"
	"github.com/salescope/salescope/internal/tui"
)

func runDashboard(cfg config.Config) {
	client := salesapi.New(cfg.API.BaseURL, time.Duration(cfg.API.TimeoutSeconds)*time.Second)

	model := tui.NewModel(
		client,
		market.ParseTimeWindow(cfg.UI.WindowMonths),
		cfg.API.Pages,
		time.Duration(cfg.UI.RefreshIntervalSeconds)*time.Second,
	)

	program := tea.NewProgram(model, tea.WithAltScreen())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		err := config.Watch(ctx, config.ConfigPath(), func(next config.Config) {
			program.Send(tui.ConfigMsg{
				RefreshIntervalSeconds: next.UI.RefreshIntervalSeconds,
			})
		})
		if err != nil && ctx.Err() == nil {
			log.Printf("config watch stopped: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
		program.Quit()
	}()

	if _, err := program.Run(); err != nil {
		log.SetOutput(os.Stderr)
		log.Fatalf("TUI error: %v", err)
	}
}
