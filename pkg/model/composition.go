package model

const (
	CompositionBars     = 5
	CompositionMaxWidth = 200.0
)

// CompositionBar is one slice of the stacked consensus composition chart.
type CompositionBar struct {
	Bean  *ConsensusBean
	Width float64
	Color string
}

type Composition struct {
	Bars  []CompositionBar
	Total int
	More  bool // more beans than bars
}

// NewComposition lays out at most CompositionBars beans, in received order,
// with widths proportional to their share of the total evidence.
func NewComposition(taxon *Taxon, maxWidth float64) Composition {
	if taxon == nil {
		return Composition{}
	}

	total := taxon.Occurrences()
	comp := Composition{
		Total: total,
		More:  len(taxon.ConsensusBeans) > CompositionBars,
	}

	for i, bean := range taxon.ConsensusBeans {
		if i == CompositionBars {
			break
		}
		width := 0.0
		if total > 0 {
			width = float64(bean.Occurrences) / float64(total) * maxWidth
		}
		comp.Bars = append(comp.Bars, CompositionBar{
			Bean:  bean,
			Width: width,
			Color: SEQUENTIAL_COLORS[i%len(SEQUENTIAL_COLORS)],
		})
	}

	return comp
}
