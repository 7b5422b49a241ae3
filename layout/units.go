package layout

// This file defines unit-safe helpers for length conversion.
// Layout computes in millimeters; the font system speaks points, and
// the boundary conversion happens through these constants.

// Unit represents the unit a length value was specified in.
type Unit int

const (
	UnitNone Unit = iota // unit-less numbers like factors
	UnitMM               // millimeters
	UnitPT               // points
)

// Conversion constants between pt and mm.
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
)

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

// Pt constructs a point-denominated length (how font sizes are declared).
func Pt(v float64) Length { return Length{Value: v, Unit: UnitPT} }

// Mm constructs a millimeter-denominated length.
func Mm(v float64) Length { return Length{Value: v, Unit: UnitMM} }

// To converts this length to target unit. Supported targets: UnitMM, UnitPT.
func (l Length) To(target Unit) float64 {
	switch l.Unit {
	case UnitMM:
		if target == UnitPT {
			return l.Value * MmToPt
		}
		return l.Value
	case UnitPT:
		if target == UnitPT {
			return l.Value
		}
		return l.Value * PtToMm
	default:
		return l.Value
	}
}

func (l Length) ToMM() float64 { return l.To(UnitMM) }
func (l Length) ToPT() float64 { return l.To(UnitPT) }
