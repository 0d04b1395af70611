package drift

import (
	"math"
)

// fenceCapacityCoeff and fenceCapacityExp define the storage capacity of a
// 50%-porous snow fence: Qc (t/m) = 8.5 · H^2.2 with H in metres.
const (
	fenceCapacityCoeff = 8.5
	fenceCapacityExp   = 2.2
)

// fenceCapacity returns the storage capacity in tonnes per metre of a
// fence row of the given height.
func fenceCapacity(heightM float64) float64 {
	return fenceCapacityCoeff * math.Pow(heightM, fenceCapacityExp)
}

// sizeFence converts a season transport total into a fence specification.
// The required height is the single-row height whose storage capacity
// equals the season transport, rounded up to the next decimetre. When that
// height exceeds the practical maximum, the transport is split across
// multiple rows at the maximum height.
func sizeFence(label string, transportKgPerM float64, p Params) FenceSpec {
	spec := FenceSpec{Season: label}
	if transportKgPerM <= 0 {
		return spec
	}

	tonnesPerM := transportKgPerM / 1000
	spec.CapacityTonnesPerM = tonnesPerM

	height := math.Pow(tonnesPerM/fenceCapacityCoeff, 1/fenceCapacityExp)
	height = math.Ceil(height*10) / 10

	if height <= p.MaxFenceHeight {
		spec.RequiredHeightM = height
		spec.Rows = 1
		return spec
	}

	spec.RequiredHeightM = p.MaxFenceHeight
	spec.Rows = int(math.Ceil(tonnesPerM / fenceCapacity(p.MaxFenceHeight)))
	return spec
}
