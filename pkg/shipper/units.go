package shipper

import "math"

const (
	lbPerKG = 2.20462
	inPerCM = 0.393701
)

// WeightIn converts the parcel weight to unit, rounded to 2 decimals.
// Parcels without a unit are assumed to be in kilograms.
func (p Parcel) WeightIn(unit WeightUnit) float64 {
	from := p.WeightUnit
	if from == "" {
		from = WeightKG
	}
	w := p.Weight
	switch {
	case from == unit:
	case from == WeightKG && unit == WeightLB:
		w *= lbPerKG
	case from == WeightLB && unit == WeightKG:
		w /= lbPerKG
	}
	return round2(w)
}

// DimensionsIn returns length, width and height converted to unit.
// Parcels without a unit are assumed to be in centimeters.
func (p Parcel) DimensionsIn(unit DimensionUnit) (length, width, height float64) {
	from := p.DimensionUnit
	if from == "" {
		from = DimensionCM
	}
	factor := 1.0
	switch {
	case from == DimensionCM && unit == DimensionIN:
		factor = inPerCM
	case from == DimensionIN && unit == DimensionCM:
		factor = 1 / inPerCM
	}
	return round2(p.Length * factor), round2(p.Width * factor), round2(p.Height * factor)
}

// HasDimensions reports whether any dimension is set.
func (p Parcel) HasDimensions() bool {
	return p.Length > 0 || p.Width > 0 || p.Height > 0
}

// TotalWeight sums the parcels' weights in unit.
func TotalWeight(parcels []Parcel, unit WeightUnit) float64 {
	var total float64
	for _, p := range parcels {
		total += p.WeightIn(unit)
	}
	return round2(total)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
