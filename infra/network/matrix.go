package network

import (
	"math"

	"github.com/fleetsim/ridepool/core/model"
)

// Location is re-exported for brevity in construction helpers.
type Location = model.Location

// Matrix is a fixed travel-time table. Missing entries are unreachable except
// for the zero-cost diagonal. Useful for hand-built scenarios and tests.
type Matrix map[Location]map[Location]float64

// Set records the travel time for one directed pair.
func (m Matrix) Set(from, to Location, tt float64) {
	if m[from] == nil {
		m[from] = make(map[Location]float64)
	}
	m[from][to] = tt
}

// TravelTime implements network.TravelTimeOracle.
func (m Matrix) TravelTime(from, to Location) float64 {
	if from == to {
		return 0
	}
	if tt, ok := m[from][to]; ok {
		return tt
	}
	return math.Inf(1)
}
