package model

// ResultDocument is the consensus report produced by blutils.
type ResultDocument struct {
	Results []*Result `json:"results"`
	Config  *Config   `json:"config,omitempty"`
}

// One classified query. Taxon is nil when there was no significant match.
type Result struct {
	Query string `json:"query"`
	Taxon *Taxon `json:"taxon,omitempty"`
}

type Taxon struct {
	ReachedRank    string           `json:"reachedRank"`
	MaxAllowedRank string           `json:"maxAllowedRank,omitempty"`
	Identifier     string           `json:"identifier"`
	PercIdentity   float64          `json:"percIdentity"`
	BitScore       float64          `json:"bitScore"`
	Taxonomy       string           `json:"taxonomy"`
	Mutated        bool             `json:"mutated"`
	SingleMatch    bool             `json:"singleMatch"`
	ConsensusBeans []*ConsensusBean `json:"consensusBeans"`
}

// ConsensusBean is one candidate sub-classification and its supporting evidence.
type ConsensusBean struct {
	Rank        string   `json:"rank"`
	Identifier  string   `json:"identifier"`
	Occurrences int      `json:"occurrences"`
	Taxonomy    string   `json:"taxonomy"`
	Accessions  []string `json:"accessions"`
}

// Provenance of the run, carried through untouched.
type Config struct {
	BlutilsVersion string  `json:"blutilsVersion"`
	SubjectReads   string  `json:"subjectReads"`
	Taxon          string  `json:"taxon"`
	OutFormat      string  `json:"outFormat"`
	MaxTargetSeqs  int     `json:"maxTargetSeqs"`
	PercIdentity   float64 `json:"percIdentity"`
	QueryCov       float64 `json:"queryCov"`
	Strand         string  `json:"strand"`
	EValue         float64 `json:"eValue"`
	WordSize       int     `json:"wordSize"`
}

// Occurrences is the total evidence count behind the taxon call.
func (t *Taxon) Occurrences() int {
	if t == nil {
		return 0
	}
	total := 0
	for _, bean := range t.ConsensusBeans {
		total += bean.Occurrences
	}
	return total
}

// Matched reports whether the query had a significant match.
func (r *Result) Matched() bool {
	return r.Taxon != nil
}

// Identifier of the matched taxon, or "" when unmatched.
func (r *Result) Identifier() string {
	if r.Taxon == nil {
		return ""
	}
	return r.Taxon.Identifier
}
