package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"filesaver/internal/config"
	"filesaver/pkg/types"
)

// styles renders report parts in the configured theme. Colors are dropped
// automatically when w is not a terminal.
type styles struct {
	header  lipgloss.Style
	success lipgloss.Style
	warning lipgloss.Style
	failure lipgloss.Style
	muted   lipgloss.Style
}

func (a *app) palette() config.Palette {
	return config.GetTheme(a.cfg.Theme)
}

func newStyles(w io.Writer, p config.Palette) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		header:  r.NewStyle().Foreground(lipgloss.Color(p.Primary)).Bold(true),
		success: r.NewStyle().Foreground(lipgloss.Color(p.Success)),
		warning: r.NewStyle().Foreground(lipgloss.Color(p.Warning)),
		failure: r.NewStyle().Foreground(lipgloss.Color(p.Error)).Bold(true),
		muted:   r.NewStyle().Foreground(lipgloss.Color(p.Muted)),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// newProgress returns a progress bar on terminals and nil elsewhere
func newProgress(w io.Writer, total int, description string, enabled bool) *progressbar.ProgressBar {
	if !enabled || total < 2 || !isTerminal(w) {
		return nil
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// reportOrder lists every path of result, following order where given.
func reportOrder(result *types.SaveResult, order []string) []string {
	if order != nil {
		return order
	}
	paths := append([]string{}, result.SuccessfullySavedFiles...)
	failed := make([]string, 0, len(result.Errors))
	for p := range result.Errors {
		failed = append(failed, p)
	}
	sort.Strings(failed)
	return append(paths, failed...)
}

func renderSaveResult(w io.Writer, result *types.SaveResult, order []string, p config.Palette, asJSON bool) error {
	if asJSON {
		return writeJSON(w, result)
	}
	st := newStyles(w, p)

	for _, msg := range result.GlobalErrors {
		fmt.Fprintln(w, st.failure.Render("error: "+msg))
	}
	if len(result.GlobalErrors) > 0 {
		return nil
	}

	saved := make(map[string]bool, len(result.SuccessfullySavedFiles))
	for _, path := range result.SuccessfullySavedFiles {
		saved[path] = true
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"File", "Status", "Detail"})
	for _, path := range reportOrder(result, order) {
		switch {
		case saved[path]:
			tw.AppendRow(table.Row{path, st.success.Render("saved"), result.RenamedFiles[path]})
		case result.Errors[path] != "":
			tw.AppendRow(table.Row{path, st.failure.Render("failed"), result.Errors[path]})
		}
	}
	if tw.Length() > 0 {
		fmt.Fprintln(w, tw.Render())
	}

	summary := fmt.Sprintf("%d saved, %d failed", len(result.SuccessfullySavedFiles), len(result.Errors))
	if result.DryRun {
		summary += st.muted.Render(" (dry run, nothing was changed)")
	}
	style := st.header
	if len(result.Errors) > 0 {
		style = st.warning
	}
	fmt.Fprintln(w, style.Render(summary))
	return nil
}

func renderRemoveResult(w io.Writer, result *types.RemoveResult, order []string, p config.Palette, asJSON bool) error {
	if asJSON {
		return writeJSON(w, result)
	}
	st := newStyles(w, p)

	failed := make(map[string]bool, len(result.FailedFiles))
	for _, path := range result.FailedFiles {
		failed[path] = true
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"File", "Status"})
	for _, path := range order {
		status := st.success.Render("trashed")
		if failed[path] {
			status = st.failure.Render("failed")
		}
		tw.AppendRow(table.Row{path, status})
	}
	fmt.Fprintln(w, tw.Render())

	summary := fmt.Sprintf("%d trashed, %d failed", len(order)-len(result.FailedFiles), len(result.FailedFiles))
	if result.Success {
		fmt.Fprintln(w, st.header.Render(summary))
	} else {
		fmt.Fprintln(w, st.warning.Render(summary))
	}
	return nil
}
