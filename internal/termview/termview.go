// Package termview renders explorer snapshots for the terminal.
package termview

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/yumyai/blutable/pkg/grouping"
	"github.com/yumyai/blutable/pkg/model"
	"github.com/yumyai/blutable/pkg/view"
)

var header = []string{"QUERY", "PROPOSED", "RANK", "IDENTITY", "BIT SCORE", "CONSENSUS", "OCCURRENCES", "RULE"}

// ColorsEnabled follows NO_COLOR and dumb terminals.
func ColorsEnabled() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return os.Getenv("TERM") != "dumb"
}

type Printer struct {
	out       io.Writer
	useColors bool
}

func NewPrinter(out io.Writer, useColors bool) *Printer {
	return &Printer{out: out, useColors: useColors}
}

// Snapshot prints the stats line followed by one table per group on the
// page. Table mode prints a single table.
func (p *Printer) Snapshot(source string, snap *view.Snapshot) error {
	fmt.Fprintf(p.out, "%s: %d results in %d %s", source, snap.Filtered, snap.StatsCount(), snap.PageUnit())
	fmt.Fprintf(p.out, " (page %d/%d, mode %s)\n", snap.Page.Number, max(snap.Page.Count, 1), snap.State.Mode)

	if len(snap.Page.Items) == 0 {
		fmt.Fprintln(p.out, "No results.")
		return nil
	}

	if snap.State.Mode == grouping.Table {
		var rows [][]string
		for _, g := range snap.Page.Items {
			rows = append(rows, p.groupRows(g)...)
		}
		return p.render(header, rows)
	}

	for _, g := range snap.Page.Items {
		p.groupHeader(g)
		if err := p.render(header, p.groupRows(g)); err != nil {
			return err
		}
	}
	return nil
}

func (p *Printer) groupRows(g grouping.Group) [][]string {
	rows := make([][]string, 0, len(g.Chunk))
	for _, r := range g.Chunk {
		rows = append(rows, p.rowCells(view.NewRow(r)))
	}
	return rows
}

// Detail prints every consensus bean of one result.
func (p *Printer) Detail(r *model.Result) error {
	row := view.NewRow(r)
	p.title(fmt.Sprintf("%s: %s", r.Query, row.ProposedName()))
	fmt.Fprintf(p.out, "%s %s\n", p.badge(row.Consensus.Rule), row.RuleText)

	if r.Taxon == nil {
		return nil
	}
	for _, seg := range row.Lineage {
		if seg.Rank == "" {
			fmt.Fprintf(p.out, "  %s\n", seg.Raw)
			continue
		}
		fmt.Fprintf(p.out, "  %-8s %s\n", seg.Rank, seg.Name)
	}

	rows := make([][]string, 0, len(r.Taxon.ConsensusBeans))
	for _, bean := range r.Taxon.ConsensusBeans {
		rows = append(rows, []string{
			model.KebabToSciName(bean.Identifier, bean.Rank),
			bean.Rank,
			strconv.Itoa(bean.Occurrences),
			strconv.Itoa(len(bean.Accessions)),
		})
	}
	return p.render([]string{"NAME", "RANK", "OCCURRENCES", "ACCESSIONS"}, rows)
}

func (p *Printer) render(headers []string, rows [][]string) error {
	t := tablewriter.NewTable(p.out, tableOptions()...)
	t.Header(headers)
	if err := t.Bulk(rows); err != nil {
		return err
	}
	return t.Render()
}

func tableOptions() []tablewriter.Option {
	return []tablewriter.Option{
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoWrap: tw.WrapNone},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoFormat: tw.Off},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{ShowHeader: tw.Off},
			},
		}),
	}
}

func (p *Printer) rowCells(row view.Row) []string {
	r := row.Result
	cells := []string{r.Query, row.ProposedName(), "", "", "", row.ConsensusName(), "", p.badge(row.Consensus.Rule)}
	if r.Taxon == nil {
		return cells
	}
	cells[2] = r.Taxon.ReachedRank
	cells[3] = strconv.FormatFloat(r.Taxon.PercIdentity, 'f', 2, 64)
	cells[4] = strconv.FormatFloat(r.Taxon.BitScore, 'f', 1, 64)
	if row.Consensus.Bean != nil {
		cells[6] = fmt.Sprintf("%d/%d", row.Consensus.Bean.Occurrences, row.Composition.Total)
	}
	return cells
}

func (p *Printer) groupHeader(g grouping.Group) {
	name := g.Name
	if g.GroupedBy == grouping.GroupedByTaxonomy && g.Name != grouping.UnidentifiedGroup {
		name = model.KebabToSciName(g.Name, g.Rank)
	}
	p.title(fmt.Sprintf("%s (%d)", name, len(g.Chunk)))
}

func (p *Printer) title(text string) {
	if p.useColors {
		color.New(color.FgWhite, color.Bold).Fprintf(p.out, "\n%s\n", text)
		return
	}
	fmt.Fprintf(p.out, "\n%s\n", text)
}

// badge colours the rule id: no beans red, absolute green, twice-of-second yellow.
func (p *Printer) badge(rule model.Rule) string {
	label := fmt.Sprintf("[%d]", int(rule))
	if !p.useColors {
		return label
	}
	switch rule {
	case model.RuleNoBeans:
		return color.RedString(label)
	case model.RuleAbsoluteBean:
		return color.GreenString(label)
	default:
		return color.YellowString(label)
	}
}
