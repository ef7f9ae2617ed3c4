package main

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/provide-io/mmconvert/internal/convert"
)

// reportColumns lists the summary table columns; numeric ones align right.
var reportColumns = []struct {
	name  string
	align text.Align
}{
	{"Input", text.AlignLeft},
	{"Slot", text.AlignRight},
	{"Category", text.AlignLeft},
	{"Size", text.AlignRight},
	{"Status", text.AlignLeft},
	{"Detail", text.AlignLeft},
}

// renderReport draws one row per slot or input file, followed by the
// registry counters when a registry was written.
func renderReport(report *convert.Report) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, 0, len(reportColumns))
	configs := make([]table.ColumnConfig, 0, len(reportColumns))
	for i, col := range reportColumns {
		header = append(header, col.name)
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       col.align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)

	for _, res := range report.Results {
		tw.AppendRow(reportRow(res))
	}

	out := tw.Render()
	if report.Registry != "" {
		s := report.Summary
		out += fmt.Sprintf("\n%d scene(s), %d kankyo → scene_max=%d kankyo_max=%d\n%s",
			s.SceneCount, s.AmbientCount, s.SceneMax, s.AmbientMax, report.Registry)
	}
	return out
}

func reportRow(res convert.Result) table.Row {
	slot, category, size := "-", "-", "-"
	if res.Index >= 0 {
		slot = strconv.Itoa(res.Index)
		category = res.Category.String()
	}
	if res.Size > 0 {
		size = humanize.Bytes(uint64(res.Size))
	}

	detail := res.Reason
	if res.Status == convert.StatusConverted {
		detail = res.Output
	}

	return table.Row{res.Name, slot, category, size, string(res.Status), detail}
}
