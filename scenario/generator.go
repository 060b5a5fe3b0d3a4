package scenario

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/google/uuid"

	"github.com/fleetsim/ridepool/core/model"
	corenetwork "github.com/fleetsim/ridepool/core/network"
)

// GeneratorConfig parameterizes random scenario generation.
type GeneratorConfig struct {
	Vehicles int `json:"vehicles"`
	Requests int `json:"requests"`
	// Capacity is assigned to every generated vehicle.
	Capacity int `json:"capacity"`
	// MaxOnboard bounds the number of passengers a vehicle already carries
	// at the epoch, drawn uniformly in [0, MaxOnboard].
	MaxOnboard int   `json:"max_onboard"`
	Seed       int64 `json:"seed"`
}

// SetDefaults applies sane defaults.
func (c *GeneratorConfig) SetDefaults() {
	if c.Vehicles == 0 {
		c.Vehicles = 25
	}
	if c.Requests == 0 {
		c.Requests = 50
	}
	if c.Capacity == 0 {
		c.Capacity = 2
	}
}

// Validate checks the configuration.
func (c GeneratorConfig) Validate() error {
	if c.Vehicles < 0 || c.Requests < 0 {
		return fmt.Errorf("vehicle and request counts must be >= 0")
	}
	if c.Capacity < 1 {
		return fmt.Errorf("capacity must be >= 1, got %d", c.Capacity)
	}
	if c.MaxOnboard < 0 || c.MaxOnboard > c.Capacity {
		return fmt.Errorf("max onboard must be in [0, capacity]")
	}
	return nil
}

// onboardOffset spaces already-picked-up passengers backwards in time.
const onboardOffset = -80.0

// maxDrawAttempts bounds origin-destination sampling retries on sparse or
// partly disconnected networks.
const maxDrawAttempts = 100

// Generate samples a random scenario over the given network nodes. The same
// seed always produces the same scenario.
func Generate(cfg GeneratorConfig, nodes []model.Location, oracle corenetwork.TravelTimeOracle) (*Def, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(nodes) < 2 {
		return nil, fmt.Errorf("network has %d nodes, need at least 2", len(nodes))
	}
	rng := rand.New(rand.NewSource(cfg.Seed))
	d := &Def{Name: uuid.NewString()}

	for i := 0; i < cfg.Vehicles; i++ {
		loc := nodes[rng.Intn(len(nodes))]
		v := VehicleDef{
			ID:       fmt.Sprintf("veh%04d", i+1),
			Capacity: cfg.Capacity,
			Location: int64(loc),
		}
		onboard := 0
		if cfg.MaxOnboard > 0 {
			onboard = rng.Intn(cfg.MaxOnboard + 1)
		}
		for p := 0; p < onboard; p++ {
			// The passenger was picked up at the vehicle's current
			// position trail; its origin is the vehicle location for
			// the first, a random node afterwards.
			origin := loc
			if p > 0 {
				origin = nodes[rng.Intn(len(nodes))]
			}
			dest, ok := drawDestination(rng, nodes, oracle, origin)
			if !ok {
				continue
			}
			v.Onboard = append(v.Onboard, RequestDef{
				ID:          fmt.Sprintf("%s-p%d", v.ID, p+1),
				Origin:      int64(origin),
				Destination: int64(dest),
				RequestTime: float64(p+1) * onboardOffset,
			})
		}
		d.Vehicles = append(d.Vehicles, v)
	}

	for i := 0; i < cfg.Requests; i++ {
		var origin, dest model.Location
		found := false
		for attempt := 0; attempt < maxDrawAttempts; attempt++ {
			origin = nodes[rng.Intn(len(nodes))]
			var ok bool
			dest, ok = drawDestination(rng, nodes, oracle, origin)
			if ok {
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("could not sample a reachable origin-destination pair after %d attempts", maxDrawAttempts)
		}
		d.Requests = append(d.Requests, RequestDef{
			ID:          fmt.Sprintf("r%04d", i+1),
			Origin:      int64(origin),
			Destination: int64(dest),
			RequestTime: 0,
		})
	}
	return d, nil
}

// drawDestination samples a destination distinct from and reachable from the
// origin.
func drawDestination(rng *rand.Rand, nodes []model.Location, oracle corenetwork.TravelTimeOracle, origin model.Location) (model.Location, bool) {
	for attempt := 0; attempt < maxDrawAttempts; attempt++ {
		dest := nodes[rng.Intn(len(nodes))]
		if dest == origin {
			continue
		}
		if !math.IsInf(oracle.TravelTime(origin, dest), 1) {
			return dest, true
		}
	}
	return 0, false
}

// SplitReachable partitions requests into those whose origin at least one
// vehicle can reach and those no vehicle can serve.
func SplitReachable(vehicles []model.Vehicle, requests []model.Request, oracle corenetwork.TravelTimeOracle) (reachable, unreachable []model.Request) {
	for _, r := range requests {
		ok := false
		for _, v := range vehicles {
			if !math.IsInf(oracle.TravelTime(v.Location, r.Origin), 1) {
				ok = true
				break
			}
		}
		if ok {
			reachable = append(reachable, r)
		} else {
			unreachable = append(unreachable, r)
		}
	}
	return reachable, unreachable
}
