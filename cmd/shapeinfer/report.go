// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/gomlx/shapeinfer/graph"
	"github.com/gomlx/shapeinfer/ops"
	"github.com/gomlx/shapeinfer/types/shapes"
)

var (
	headerRowStyle = lipgloss.NewStyle().Reverse(true).
			Padding(0, 2, 0, 2).Align(lipgloss.Center)
	oddRowStyle = lipgloss.NewStyle().Faint(false).
			PaddingLeft(1).PaddingRight(1)
	evenRowStyle = lipgloss.NewStyle().Faint(true).
			PaddingLeft(1).PaddingRight(1)
	redRowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "9", Dark: "9"}).
			Bold(true).
			PaddingLeft(1).PaddingRight(1)

	titleStyle = lipgloss.NewStyle().Bold(true).Padding(1, 4, 1, 4)
)

// tableWithReds is a table where some rows (the unresolved nodes) are highlighted in red.
type tableWithReds struct {
	Table *lgtable.Table
	Count int
	Reds  map[int]bool
}

// Row adds a row to the table.
func (t *tableWithReds) Row(isRed bool, row ...string) {
	if isRed {
		t.Reds[t.Count] = true
	}
	t.Table.Row(row...)
	t.Count++
}

func newPlainTable() *lgtable.Table {
	return newPlainTableWithReds().Table
}

func newPlainTableWithReds() *tableWithReds {
	t := &tableWithReds{
		Reds: make(map[int]bool),
	}
	t.Table = lgtable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("99"))).
		StyleFunc(func(row, col int) (s lipgloss.Style) {
			if row < 0 {
				s = headerRowStyle
				return
			}
			switch {
			case t.Reds[row]:
				s = redRowStyle
			case row%2 == 0:
				s = oddRowStyle
			default:
				s = evenRowStyle
			}
			if col == 0 {
				s = s.Align(lipgloss.Right)
			} else {
				s = s.Align(lipgloss.Left)
			}
			return
		})
	return t
}

// writeReport writes a summary of g and the table of its nodes, with their inferred types.
// If withQuant is set, the quantization parameters of the nodes are included.
func writeReport(w io.Writer, g *graph.Graph, withQuant bool) {
	var numResolved, totalSize int
	var totalMemory uintptr
	for _, node := range g.Nodes() {
		if !node.IsResolved() {
			continue
		}
		numResolved++
		for _, shape := range node.OutputShapes() {
			if !shape.IsDynamic() {
				totalSize += shape.Size()
				totalMemory += shape.Memory()
			}
		}
	}

	_, _ = fmt.Fprintln(w, titleStyle.Render("Summary"))
	table := newPlainTable()
	table.Row("graph", g.Name())
	table.Row("id", g.ID().String())
	table.Row("# nodes", humanize.Comma(int64(g.NumNodes())))
	table.Row("# parameters", humanize.Comma(int64(len(g.Parameters()))))
	table.Row("# resolved", humanize.Comma(int64(numResolved)))
	table.Row("# elements", humanize.Comma(int64(totalSize)))
	table.Row("# bytes", humanize.Bytes(uint64(totalMemory)))
	_, _ = fmt.Fprintln(w, table.Render())

	_, _ = fmt.Fprintln(w, titleStyle.Render("Nodes"))
	nodesTable := newPlainTableWithReds()
	headers := []string{"#", "Op", "Name", "Inputs", "Type", "Elements", "Bytes"}
	if withQuant {
		headers = append(headers, "Scales (in/out/kernel)", "Zero points (in/out/kernel)", "Range")
	}
	nodesTable.Table.Headers(headers...)
	for _, node := range g.Nodes() {
		nodesTable.Row(!node.IsResolved(), nodeRow(node, withQuant)...)
	}
	_, _ = fmt.Fprintln(w, nodesTable.Table.Render())
}

func nodeRow(node *graph.Node, withQuant bool) []string {
	inputs := make([]string, len(node.Inputs()))
	for ii, input := range node.Inputs() {
		inputs[ii] = fmt.Sprintf("#%d", input.Id())
	}
	outputs := node.OutputShapes()
	types := make([]string, len(outputs))
	for ii, shape := range outputs {
		types[ii] = shape.String()
	}
	row := []string{
		fmt.Sprintf("#%d", node.Id()),
		node.Type().String(),
		node.Name(),
		strings.Join(inputs, ", "),
		strings.Join(types, ", "),
		shapeSize(outputs[0]),
		shapeMemory(outputs[0]),
	}
	if withQuant {
		row = append(row, quantColumns(node.Attributes())...)
	}
	return row
}

// shapeSize returns the humanized number of elements of shape, or "?" if it is not known.
func shapeSize(shape shapes.Shape) string {
	if !shape.Ok() || shape.IsDynamic() {
		return "?"
	}
	return humanize.Comma(int64(shape.Size()))
}

// shapeMemory returns the humanized number of bytes of shape, or "?" if it is not known.
func shapeMemory(shape shapes.Shape) string {
	if !shape.Ok() || shape.IsDynamic() {
		return "?"
	}
	return humanize.Bytes(uint64(shape.Memory()))
}

func quantColumns(attrs ops.Attributes) []string {
	if attrs == nil || !attrs.Quant().IsSet() {
		return []string{"", "", ""}
	}
	q := attrs.Quant()
	var valueRange string
	if len(q.MinValues) > 0 || len(q.MaxValues) > 0 {
		valueRange = fmt.Sprintf("%v .. %v", q.MinValues, q.MaxValues)
	}
	return []string{
		fmt.Sprintf("%g / %g / %g", q.InputScale, q.OutputScale, q.KernelScale),
		fmt.Sprintf("%d / %d / %d", q.InputZeroPoint, q.OutputZeroPoint, q.KernelZeroPoint),
		valueRange,
	}
}
