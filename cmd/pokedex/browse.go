package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Sternrassler/pokedex-client/internal/tui"
	"github.com/Sternrassler/pokedex-client/pkg/logging"
	"github.com/Sternrassler/pokedex-client/pkg/view"
)

func newBrowseCommand(a *app) *cobra.Command {
	var (
		mode    string
		noColor bool
	)

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse the catalog interactively",
		Long: `Start the interactive browser.

Keys: v toggles page controls / load more, ←/→ change page, ↑/↓ move,
enter opens details, esc goes back, m loads more, r retries, q quits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := view.ParseMode(mode)
			if err != nil {
				return err
			}
			if !isTerminal(os.Stdin) || !isTerminal(os.Stdout) {
				return errBrowseNeedsTerminal
			}
			if noColor || os.Getenv("NO_COLOR") != "" {
				lipgloss.SetColorProfile(termenv.Ascii)
			}

			// The browser owns the terminal.
			if a.settings.LogFile == "" {
				logging.Setup(logging.Config{Level: logging.LevelDisabled})
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			a.startBackground(ctx)

			scroll := tui.NewScrollSignal()
			ctrl := a.controller(view.WithScrollHook(scroll.Hook()))
			ctrl.SetMode(ctx, m)

			log.Info().Str("mode", m.String()).Int("per_page", a.settings.PerPage).Msg("Starting browser")

			p := tea.NewProgram(tui.New(ctx, ctrl, tui.WithScrollSignal(scroll)), tea.WithAltScreen(), tea.WithContext(ctx))
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("run browser: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&mode, "mode", view.ModePageControls.String(), "initial mode (pagination, load-more)")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colors")
	return cmd
}

var errBrowseNeedsTerminal = errors.New("browse requires a terminal; use the list or show commands for scripting")

// isTerminal is a variable so tests can stand in for a TTY.
var isTerminal = func(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
