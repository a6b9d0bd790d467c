package model

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// LineageSegment is one `prefix__name` bit of a taxonomy string. Raw is set
// (and Rank/Name are empty) when the segment does not follow that encoding.
type LineageSegment struct {
	Rank string
	Name string
	Raw  string
}

// ParseLineage splits "d__bacteria;p__proteobacteria;..." into segments.
func ParseLineage(taxonomy string) []LineageSegment {
	if taxonomy == "" {
		return nil
	}

	bits := strings.Split(taxonomy, ";")
	segments := make([]LineageSegment, 0, len(bits))

	for _, bit := range bits {
		parts := strings.Split(bit, "__")
		if len(parts) == 2 {
			segments = append(segments, LineageSegment{
				Rank: TranslateRank(parts[0]),
				Name: parts[1],
			})
			continue
		}
		segments = append(segments, LineageSegment{Raw: bit})
	}

	return segments
}

// TranslateRank expands the single letter rank prefixes used in lineages.
func TranslateRank(rank string) string {
	switch rank {
	case "superkingdom":
		return "kingdom"
	case "d":
		return "domain"
	case "p":
		return "phylum"
	case "c":
		return "class"
	case "o":
		return "order"
	case "f":
		return "family"
	case "g":
		return "genus"
	case "s":
		return "species"
	default:
		return rank
	}
}

// KebabToPlain turns "escherichia-coli" into "Escherichia Coli".
func KebabToPlain(value string) string {
	words := strings.Split(strings.ReplaceAll(value, "-", " "), " ")
	for i, w := range words {
		words[i] = upperFirst(w)
	}
	return strings.Join(words, " ")
}

// IsBinomialRank reports whether names at this rank are written in italics.
func IsBinomialRank(rank string) bool {
	return rank == "species" || rank == "genus"
}

// KebabToSciName formats an identifier for display. Species and genus names
// only get their first word capitalised; other ranks go through KebabToPlain.
func KebabToSciName(value, rank string) string {
	if !IsBinomialRank(rank) {
		return KebabToPlain(value)
	}

	words := strings.Split(strings.ReplaceAll(value, "-", " "), " ")
	if len(words) > 0 {
		words[0] = upperFirst(words[0])
	}
	return strings.Join(words, " ")
}

func upperFirst(w string) string {
	if w == "" {
		return w
	}
	r, size := utf8.DecodeRuneInString(w)
	return string(unicode.ToUpper(r)) + w[size:]
}
