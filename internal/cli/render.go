package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/specialistvlad/emlc/internal/app"
	"github.com/specialistvlad/emlc/internal/registry"
)

var (
	successStyle = pterm.NewStyle(pterm.BgLightGreen, pterm.FgBlack)
	labelColor   = pterm.FgLightGreen
)

func renderKinds(entries []registry.Entry) (string, error) {
	data := pterm.TableData{{"Kind", "Node type"}}
	for _, e := range entries {
		data = append(data, []string{e.Kind, e.Type.String()})
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return "", err
	}
	return table + "\n", nil
}

func renderSummary(r *app.Report) (string, error) {
	data := pterm.TableData{
		{"Nodes", strconv.Itoa(r.Nodes)},
		{"Inputs", fmt.Sprintf("%d (%d elements)", r.Inputs, r.InputElements)},
		{"Outputs", fmt.Sprintf("%d (%d elements)", r.Outputs, r.OutputElements)},
		{"Globals", strconv.FormatUint(r.Globals, 10)},
		{"Temp slots", strconv.Itoa(r.TempSlots)},
	}
	table, err := pterm.DefaultTable.WithData(data).Srender()
	if err != nil {
		return "", err
	}
	banner := successStyle.Sprint(" Compiled ") + " " + labelColor.Sprintf("%s (%s backend)", r.Function, r.Backend)
	return banner + "\n" + table + "\n", nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
