package network

import "github.com/fleetsim/ridepool/core/model"

// TravelTimeOracle answers shortest travel-time queries between two network
// locations, in seconds. Implementations must be deterministic within an
// epoch: the same query always returns the same answer. A missing path is
// reported as math.Inf(1), which the pipeline treats as infeasibility rather
// than an error.
type TravelTimeOracle interface {
	TravelTime(from, to model.Location) float64
}
