// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package commandline implements the command-line display of shape inference: a progress bar over the
// inference passes, with a table of stats.
package commandline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/gomlx/shapeinfer/graph"
	"github.com/muesli/termenv"
	"github.com/schollz/progressbar/v3"
)

// ProgressbarStyle to use. Defaults to the ASCII version.
// Consider "progressbar.ThemeUnicode" for a prettier version.
// But it requires some of the graphical symbols to be supported.
var ProgressbarStyle = progressbar.ThemeASCII

var (
	normalStyle       = lipgloss.NewStyle().Padding(0, 1)
	rightAlignedStyle = lipgloss.NewStyle().Align(lipgloss.Right).Padding(0, 1)
	tableBorderColor  = "#705090"
)

// ProgressBar displays the progress of graph.Inferrer: it implements graph.Progress.
type ProgressBar struct {
	out   io.Writer
	bar   *progressbar.ProgressBar
	start time.Time

	// lipgloss-based display of the pass stats.
	termenv       *termenv.Output
	statsStyle    lipgloss.Style
	statsTable    *lgtable.Table
	isFirstOutput bool
	numRows       int
}

var _ graph.Progress = (*ProgressBar)(nil)

// NewProgressBar creates a ProgressBar writing to out (usually os.Stdout).
func NewProgressBar(out io.Writer) *ProgressBar {
	return &ProgressBar{
		out:           out,
		start:         time.Now(),
		termenv:       termenv.NewOutput(out),
		statsStyle:    lipgloss.NewStyle().PaddingLeft(8),
		isFirstOutput: true,
		statsTable: lgtable.New().
			Border(lipgloss.RoundedBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color(tableBorderColor))).
			StyleFunc(func(row, col int) lipgloss.Style {
				if col == 0 {
					return rightAlignedStyle
				}
				return normalStyle
			}),
	}
}

// Update implements graph.Progress.
func (pBar *ProgressBar) Update(stats graph.PassStats) {
	if pBar.bar == nil {
		pBar.bar = progressbar.NewOptions(stats.Total,
			progressbar.OptionSetDescription("Shape inference"),
			progressbar.OptionUseANSICodes(true),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionShowCount(),
			progressbar.OptionSetItsString("nodes"),
			progressbar.OptionSetTheme(ProgressbarStyle),
			progressbar.OptionSetWriter(pBar.out),
		)
	}
	resolved := stats.Total - stats.Pending
	pBar.statsTable.Data(lgtable.NewStringData())
	pBar.statsTable.Row("Pass", humanize.Comma(int64(stats.Pass)))
	pBar.statsTable.Row("Resolved nodes", fmt.Sprintf("%s of %s", humanize.Comma(int64(resolved)), humanize.Comma(int64(stats.Total))))
	pBar.statsTable.Row("Resolved in pass", humanize.Comma(int64(stats.Resolved)))
	pBar.statsTable.Row("Elapsed", FormatDuration(time.Since(pBar.start)))

	// Clear the previous lines that will be overwritten.
	pBar.termenv.HideCursor()
	if !pBar.isFirstOutput {
		// Rows, plus the top and bottom borders, plus the bar line.
		pBar.termenv.CursorPrevLine(pBar.numRows + 2 + 1)
	}
	pBar.isFirstOutput = false
	pBar.numRows = 4

	_, _ = fmt.Fprintln(pBar.out, pBar.statsStyle.Render(pBar.statsTable.String()))
	_ = pBar.bar.Add(stats.Resolved) // Prints progress bar line.
	_, _ = fmt.Fprintln(pBar.out)
	pBar.termenv.ShowCursor()
}

// Done implements graph.Progress. If inference failed, the bar is left where it stopped.
func (pBar *ProgressBar) Done() {
	pBar.termenv.ShowCursor()
	_, _ = fmt.Fprintln(pBar.out)
}
