package domain

import "fmt"

// Operator is one of the four French mobile network operators present in the
// site inventory.
type Operator string

const (
	OperatorOrange   Operator = "Orange"
	OperatorSFR      Operator = "SFR"
	OperatorBouygues Operator = "Bouygues"
	OperatorFree     Operator = "Free"
)

// Operators lists all known operators in a stable order.
var Operators = []Operator{
	OperatorOrange,
	OperatorSFR,
	OperatorBouygues,
	OperatorFree,
}

// ParseOperator maps a raw inventory value to an Operator.
func ParseOperator(s string) (Operator, error) {
	switch s {
	case "Orange":
		return OperatorOrange, nil
	case "SFR":
		return OperatorSFR, nil
	case "Bouygues":
		return OperatorBouygues, nil
	case "Free":
		return OperatorFree, nil
	default:
		return "", fmt.Errorf("unknown operator %q", s)
	}
}

// Point is a WGS84 position in degrees.
type Point struct {
	Lat float64 `json:"lat" db:"lat"`
	Lon float64 `json:"lon" db:"lon"`
}

// TechnologyCoverage holds the per-technology availability flags of a site or
// of an aggregated operator result.
type TechnologyCoverage struct {
	Has2G bool `json:"2G" db:"has_2g"`
	Has3G bool `json:"3G" db:"has_3g"`
	Has4G bool `json:"4G" db:"has_4g"`
}

// MobileSite is one physical transmitter site. Sites are created at ingest
// time and read-only afterwards.
type MobileSite struct {
	ID       int64              `json:"id" db:"id"`
	Operator Operator           `json:"operator" db:"operator"`
	Location Point              `json:"location"`
	Coverage TechnologyCoverage `json:"coverage"`
}
