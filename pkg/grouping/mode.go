package grouping

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrInvalidPageSize      = errors.New("page size must be positive")
)

// GroupMode selects how results are bucketed.
type GroupMode int

const (
	Table GroupMode = iota
	GroupedBySubject
	GroupedByTaxonomy
)

func (m GroupMode) String() string {
	switch m {
	case Table:
		return "table"
	case GroupedBySubject:
		return "subject"
	case GroupedByTaxonomy:
		return "taxonomy"
	default:
		return fmt.Sprintf("GroupMode(%d)", int(m))
	}
}

func (m GroupMode) Valid() bool {
	return m == Table || m == GroupedBySubject || m == GroupedByTaxonomy
}

// ParseGroupMode accepts the names produced by String. Unknown names are an
// ErrInvalidConfiguration, never a silent fallback.
func ParseGroupMode(raw string) (GroupMode, error) {
	switch raw {
	case "table":
		return Table, nil
	case "subject":
		return GroupedBySubject, nil
	case "taxonomy":
		return GroupedByTaxonomy, nil
	default:
		return Table, fmt.Errorf("%w: unknown group mode %q", ErrInvalidConfiguration, raw)
	}
}

func (m GroupMode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: unknown group mode %d", ErrInvalidConfiguration, int(m))
	}
	return []byte(m.String()), nil
}

func (m *GroupMode) UnmarshalText(text []byte) error {
	parsed, err := ParseGroupMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// UnmatchedAction decides what happens to results without a taxon.
type UnmatchedAction int

const (
	ShowAlso UnmatchedAction = iota
	ShowOnly
	Omit
)

func (a UnmatchedAction) String() string {
	switch a {
	case ShowAlso:
		return "show_also"
	case ShowOnly:
		return "show_only"
	case Omit:
		return "omit"
	default:
		return fmt.Sprintf("UnmatchedAction(%d)", int(a))
	}
}

func ParseUnmatchedAction(raw string) (UnmatchedAction, error) {
	switch raw {
	case "show_also", "":
		return ShowAlso, nil
	case "show_only":
		return ShowOnly, nil
	case "omit":
		return Omit, nil
	default:
		return ShowAlso, fmt.Errorf("%w: unknown unmatched action %q", ErrInvalidConfiguration, raw)
	}
}

func (a UnmatchedAction) MarshalText() ([]byte, error) {
	if a < ShowAlso || a > Omit {
		return nil, fmt.Errorf("%w: unknown unmatched action %d", ErrInvalidConfiguration, int(a))
	}
	return []byte(a.String()), nil
}

func (a *UnmatchedAction) UnmarshalText(text []byte) error {
	parsed, err := ParseUnmatchedAction(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
