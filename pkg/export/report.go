package export

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/vanderheijden86/sectorlens/pkg/analysis"
	"github.com/vanderheijden86/sectorlens/pkg/model"
	"github.com/vanderheijden86/sectorlens/pkg/state"
)

// WriteReport prints the KPI summary and the ranked sector table for the
// view. The selected sector is marked with "*" after its rank.
func WriteReport(w io.Writer, ds *model.Dataset, v state.View) error {
	idx := v.YearIndex
	fmt.Fprintf(w, "Year %s  Segment %s\n\n", ds.YearLabel(idx), v.Segment)

	for _, c := range analysis.ComputeKPI(ds, v).Cards() {
		fmt.Fprintf(w, "%-18s %-14s %s\n", c.Label, c.Value, c.Trend)
	}
	fmt.Fprintln(w)

	rows := analysis.Table(ds, v)
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No sectors in this segment.")
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header(analysis.TableHeader)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	data := make([][]string, 0, len(rows))
	for _, r := range rows {
		cells := r.Cells()
		if r.Selected {
			cells[0] += "*"
		}
		data = append(data, cells)
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
