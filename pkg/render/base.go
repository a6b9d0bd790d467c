package render

import (
	"html/template"

	"github.com/yumyai/blutable/pkg/model"
	"github.com/yumyai/blutable/pkg/view"
)

const headTmpl = `
	{{define "head"}}
	<meta charset="utf-8">
	<meta name="viewport" content="width=device-width, initial-scale=1">
	<link href="/static/style.css" rel="stylesheet">
	<style>
		body { font-family: sans-serif; margin: 0 1.5rem; }
		.app-header { display: flex; align-items: baseline; gap: 1rem; }
		.error { color: #b00020; }
		.result-row { display: grid; grid-template-columns: 14rem 16rem 6rem 6rem 13rem 1fr 4rem; align-items: center; box-sizing: border-box; border-bottom: 1px solid #eee; overflow: hidden; }
		.result-head { font-weight: bold; border-bottom: 2px solid #ccc; }
		.composition { display: flex; height: 12px; }
		.composition span { display: block; height: 12px; }
		.rule { display: inline-block; min-width: 1.2em; text-align: center; border-radius: 3px; color: #fff; }
		.rule-0 { background: #b00020; }
		.rule-1 { background: #2e7d32; }
		.rule-2 { background: #f9a825; }
		.tooltip { position: relative; }
		.tooltip-text { display: none; position: absolute; z-index: 2; white-space: pre; background: #333; color: #fff; padding: .3rem; border-radius: 3px; }
		.tooltip:hover .tooltip-text, .tooltip:focus .tooltip-text { display: block; }
		.layout { display: flex; gap: 1.5rem; }
		.sidebar { min-width: 14rem; max-height: 80vh; overflow: auto; }
		.vsection-viewport { overflow-y: auto; }
		.pagination { margin: 1rem 0; display: flex; gap: 1rem; }
	</style>
	{{end}}`

const scriptTmpl = `
	{{define "script"}}
	<script>
	document.addEventListener("click", function (ev) {
		var btn = ev.target.closest("button.copy");
		if (btn) {
			navigator.clipboard.writeText(btn.dataset.copy);
			return;
		}
		var link = ev.target.closest("a.detail");
		if (link) {
			ev.preventDefault();
			fetch(link.href + "&fragment=1").then(function (r) { return r.text(); }).then(function (body) {
				var holder = document.createElement("div");
				holder.innerHTML = body;
				var dialog = holder.querySelector("dialog");
				document.body.appendChild(dialog);
				dialog.addEventListener("close", function () { dialog.remove(); });
				dialog.showModal();
			});
		}
	});

	// Sections load their rows once they first scroll into view and then
	// stay mounted. Only the newest response for a section is applied.
	(function () {
		function load(section, scrollTop) {
			var seq = (section._seq || 0) + 1;
			section._seq = seq;
			var url = section.dataset.url + "&scroll_top=" + Math.floor(scrollTop);
			fetch(url).then(function (r) { return r.text(); }).then(function (body) {
				if (section._seq !== seq) { return; }
				section.querySelector(".vsection-body").innerHTML = body;
			});
		}
		var observer = new IntersectionObserver(function (entries) {
			entries.forEach(function (entry) {
				if (!entry.isIntersecting) { return; }
				var section = entry.target;
				observer.unobserve(section);
				var viewport = section.querySelector(".vsection-viewport");
				var pending = false;
				viewport.addEventListener("scroll", function () {
					if (pending) { return; }
					pending = true;
					requestAnimationFrame(function () {
						pending = false;
						load(section, viewport.scrollTop);
					});
				});
				load(section, 0);
			});
		});
		document.querySelectorAll(".vsection").forEach(function (s) { observer.observe(s); });
	})();
	</script>
	{{end}}`

// rowTmpl renders one result. The caller sets the row height.
const rowTmpl = `
	{{define "rowHeader"}}
	<div class="result-row result-head">
		<span>Query</span><span>Proposed</span><span>Identity</span><span>Bit score</span><span>Consensus</span><span>Name</span><span></span>
	</div>
	{{end}}

	{{define "row"}}
	<div class="result-row" style="height: {{px .Height}}">
		<span>{{.Row.Result.Query}} {{copy .Row.Result.Query "⧉"}}</span>
		{{with .Row.Result.Taxon}}
			<span>{{tooltip (lineage $.Row.Lineage) (sciName .Identifier .ReachedRank)}} <small>{{.ReachedRank}}</small></span>
			<span>{{pct .PercIdentity}}%</span>
			<span>{{.BitScore}}</span>
		{{else}}
			<span class="no-match">{{$.NoMatch}}</span><span></span><span></span>
		{{end}}
		<span class="composition" title="{{.Row.Composition.Total}} occurrences">
			{{range .Row.Composition.Bars}}<span style="width: {{px .Width}}; background: {{.Color}}" title="{{.Bean.Identifier}}: {{.Bean.Occurrences}}"></span>{{end}}
			{{if .Row.Composition.More}}<small>&hellip;</small>{{end}}
		</span>
		<span>
			{{tooltip .Row.RuleText (ruleBadge .Row.Consensus.Rule)}}
			{{with .Row.Consensus.Bean}}{{sciName .Identifier .Rank}}{{end}}
		</span>
		<span><a class="detail" href="/results/query?query={{.Row.Result.Query}}">detail</a></span>
	</div>
	{{end}}`

// rowData is what the "row" template receives.
type rowData struct {
	Row     view.Row
	Height  float64
	NoMatch string
}

func newRowData(rows []view.Row, height float64) []rowData {
	out := make([]rowData, len(rows))
	for i, row := range rows {
		out[i] = rowData{Row: row, Height: height, NoMatch: model.NO_MATCH_LABEL}
	}
	return out
}

func newPage(name string, tmpls ...string) *template.Template {
	t := template.New(name).Funcs(funcMap)
	for _, tmpl := range append([]string{headTmpl, scriptTmpl, rowTmpl}, tmpls...) {
		t = template.Must(t.Parse(tmpl))
	}
	return t
}
