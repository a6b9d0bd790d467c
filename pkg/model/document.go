package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var ErrEmptyDocument = errors.New("document is empty")

// ParseDocument decodes a blutils consensus JSON report.
//
// Results with a missing taxon or no consensus beans are valid. Only input
// that is not JSON, or whose shape cannot be decoded into a ResultDocument,
// is rejected.
func ParseDocument(body []byte) (*ResultDocument, error) {

	if len(bytes.TrimSpace(body)) == 0 {
		return nil, ErrEmptyDocument
	}

	var doc ResultDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode result document: %w", err)
	}

	// Drop nil entries ("results": [null], "consensusBeans": [null]) so
	// downstream code never checks.
	kept := doc.Results[:0]
	for _, r := range doc.Results {
		if r == nil {
			continue
		}
		if r.Taxon != nil {
			r.Taxon.ConsensusBeans = dropNilBeans(r.Taxon.ConsensusBeans)
		}
		kept = append(kept, r)
	}
	doc.Results = kept

	return &doc, nil
}

func dropNilBeans(beans []*ConsensusBean) []*ConsensusBean {
	kept := beans[:0]
	for _, b := range beans {
		if b != nil {
			kept = append(kept, b)
		}
	}
	return kept
}

// Unmatched counts results without a taxon.
func (d *ResultDocument) Unmatched() int {
	n := 0
	for _, r := range d.Results {
		if r.Taxon == nil {
			n++
		}
	}
	return n
}
