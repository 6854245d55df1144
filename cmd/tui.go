package cmd

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/tasklist/internal/tui"
	"github.com/twiced-technology-gmbh/tasklist/internal/watcher"
)

func runTUI(_ *cobra.Command, _ []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	model := tui.NewApp(s.store, tui.Options{
		Title:       s.cfg.Name,
		ShowCreated: s.cfg.TUI.ShowCreated,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go startTUIWatcher(ctx, s, p)

	_, err = p.Run()
	return err
}

// startTUIWatcher reloads the list whenever another process rewrites its
// storage file.
func startTUIWatcher(ctx context.Context, s *session, p *tea.Program) {
	names := []string{s.store.Key() + ".json"}
	w, err := watcher.New(s.st.Dir(), names, func() {
		p.Send(tui.ReloadMsg{})
	})
	if err != nil {
		s.log.Warn("live reload disabled", "error", err)
		p.Send(tui.WatchErrorMsg{Err: err})
		return // non-fatal: TUI works without live refresh
	}
	defer w.Close()
	w.Run(ctx, func(err error) {
		s.log.Warn("watcher error", "error", err)
		p.Send(tui.WatchErrorMsg{Err: err})
	})
}
