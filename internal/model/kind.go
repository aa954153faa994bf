package model

import (
	"fmt"
	"strings"
)

// TableKind is the closed set of table shapes.
type TableKind uint8

const (
	SquareTable TableKind = iota + 1
	RoundTable
)

func (k TableKind) String() string {
	switch k {
	case SquareTable:
		return "square"
	case RoundTable:
		return "round"
	}
	return fmt.Sprintf("TableKind(%d)", uint8(k))
}

// Valid reports whether k is one of the known table kinds. The zero value
// is not.
func (k TableKind) Valid() bool { return k == SquareTable || k == RoundTable }

func (k TableKind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("unknown table kind %d", uint8(k))
	}
	return []byte(k.String()), nil
}

func (k *TableKind) UnmarshalText(b []byte) error {
	v, ok := ParseTableKind(string(b))
	if !ok {
		return fmt.Errorf("unknown table kind %q", string(b))
	}
	*k = v
	return nil
}

// ChairKind is the closed set of chair shapes.
type ChairKind uint8

const (
	SquareChair ChairKind = iota + 1
	RoundChair
)

func (k ChairKind) String() string {
	switch k {
	case SquareChair:
		return "square"
	case RoundChair:
		return "round"
	}
	return fmt.Sprintf("ChairKind(%d)", uint8(k))
}

// Valid reports whether k is one of the known chair kinds. The zero value
// is not.
func (k ChairKind) Valid() bool { return k == SquareChair || k == RoundChair }

func (k ChairKind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("unknown chair kind %d", uint8(k))
	}
	return []byte(k.String()), nil
}

func (k *ChairKind) UnmarshalText(b []byte) error {
	v, ok := ParseChairKind(string(b))
	if !ok {
		return fmt.Errorf("unknown chair kind %q", string(b))
	}
	*k = v
	return nil
}

// Labels accepted from stored layouts and from the detector's class names.
var (
	tableLabels = map[string]TableKind{
		"square":          SquareTable,
		"square_table":    SquareTable,
		"mesa_cuadrada":   SquareTable,
		"mesas_cuadradas": SquareTable,
		"round":           RoundTable,
		"round_table":     RoundTable,
		"mesa_redonda":    RoundTable,
		"mesas_redondas":  RoundTable,
	}
	chairLabels = map[string]ChairKind{
		"square":           SquareChair,
		"square_chair":     SquareChair,
		"silla":            SquareChair,
		"silla_cuadrada":   SquareChair,
		"sillas_cuadradas": SquareChair,
		"round":            RoundChair,
		"round_chair":      RoundChair,
		"silla_redonda":    RoundChair,
		"sillas_redondas":  RoundChair,
	}
)

// ParseTableKind resolves a stored or detected table label.
func ParseTableKind(s string) (TableKind, bool) {
	k, ok := tableLabels[normalizeLabel(s)]
	return k, ok
}

// ParseChairKind resolves a stored or detected chair label.
func ParseChairKind(s string) (ChairKind, bool) {
	k, ok := chairLabels[normalizeLabel(s)]
	return k, ok
}

func normalizeLabel(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(s)
}

// TableState is a table's occupancy.
type TableState string

const (
	TableFree     TableState = "free"
	TableReserved TableState = "reserved"
)

// Orientation of a cluster row: the axis the merged tables line up along.
type Orientation string

const (
	Horizontal Orientation = "horizontal"
	Vertical   Orientation = "vertical"
)

// Orientations is the fixed order in which cluster orientations are tried.
var Orientations = [2]Orientation{Horizontal, Vertical}

// Valid reports whether o is one of the two orientations.
func (o Orientation) Valid() bool { return o == Horizontal || o == Vertical }
