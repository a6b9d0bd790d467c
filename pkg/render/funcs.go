package render

import (
	"fmt"
	"html/template"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/yumyai/blutable/pkg/model"
)

// sciName renders a taxon name, italic for species and genus.
func sciName(identifier, rank string) template.HTML {
	name := template.HTMLEscapeString(model.KebabToSciName(identifier, rank))
	if model.IsBinomialRank(rank) {
		return template.HTML("<i>" + name + "</i>")
	}
	return template.HTML(name)
}

func px(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}

// lineageText is the tooltip form of a lineage, one rank per line.
func lineageText(segments []model.LineageSegment) string {
	lines := make([]string, 0, len(segments))
	for _, seg := range segments {
		if seg.Rank == "" {
			lines = append(lines, seg.Raw)
			continue
		}
		lines = append(lines, seg.Rank+": "+model.KebabToPlain(seg.Name))
	}
	return strings.Join(lines, "\n")
}

func ruleBadge(rule model.Rule) template.HTML {
	return template.HTML(fmt.Sprintf(`<span class="rule rule-%d">%d</span>`, int(rule), int(rule)))
}

var funcMap = template.FuncMap{
	"add":       func(a, b int) int { return a + b },
	"sub":       func(a, b int) int { return a - b },
	"px":        px,
	"sciName":   sciName,
	"lineage":   lineageText,
	"ruleBadge": ruleBadge,
	"join":      strings.Join,
	"pct":       func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) },
	"tooltip":   func(text string, content template.HTML) template.HTML { return widgets.Tooltip(text, content) },
	"copy":      func(value, label string) template.HTML { return widgets.Copy(value, label) },
	"modal":     func(id, title string, body template.HTML) template.HTML { return widgets.Modal(id, title, body) },
	"ago":       humanize.Time,
}
