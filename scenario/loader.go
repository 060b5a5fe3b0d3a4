// Package scenario loads and generates decision-epoch inputs: the vehicle
// fleet, the request pool and the epoch parameters.
package scenario

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fleetsim/ridepool/core/model"
	"github.com/fleetsim/ridepool/infra/network"
)

// RequestDef is the serialized form of a ride request.
type RequestDef struct {
	ID          string  `yaml:"id"`
	Origin      int64   `yaml:"origin"`
	Destination int64   `yaml:"destination"`
	RequestTime float64 `yaml:"request_time"`
}

// ToModel converts the definition to the core model.
func (r RequestDef) ToModel() model.Request {
	return model.Request{
		ID:          r.ID,
		Origin:      model.Location(r.Origin),
		Destination: model.Location(r.Destination),
		RequestTime: r.RequestTime,
	}
}

// VehicleDef is the serialized form of a fleet vehicle.
type VehicleDef struct {
	ID       string       `yaml:"id"`
	Capacity int          `yaml:"capacity"`
	Location int64        `yaml:"location"`
	Onboard  []RequestDef `yaml:"onboard,omitempty"`
}

// ToModel converts the definition to the core model.
func (v VehicleDef) ToModel() model.Vehicle {
	veh := model.Vehicle{
		ID:       v.ID,
		Capacity: v.Capacity,
		Location: model.Location(v.Location),
	}
	for _, r := range v.Onboard {
		veh.Onboard = append(veh.Onboard, r.ToModel())
	}
	return veh
}

// ParamsDef overrides the epoch parameters from the scenario file. Fields are
// pointers so an explicit zero (a valid wait or delay) is distinguishable from
// an absent key.
type ParamsDef struct {
	MaxWaitSeconds  *float64 `yaml:"max_wait_seconds,omitempty"`
	MaxDelaySeconds *float64 `yaml:"max_delay_seconds,omitempty"`
	UnservedPenalty *float64 `yaml:"unserved_penalty,omitempty"`
}

// Def is a complete scenario file: network, fleet, requests and optional
// parameter overrides.
type Def struct {
	Name     string            `yaml:"name"`
	Params   *ParamsDef        `yaml:"params,omitempty"`
	Network  []network.EdgeDef `yaml:"network"`
	Vehicles []VehicleDef      `yaml:"vehicles"`
	Requests []RequestDef      `yaml:"requests"`
}

// Load reads a scenario definition from a YAML file.
func Load(path string) (*Def, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	var d Def
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	return &d, nil
}

// Save writes the scenario definition to a YAML file.
func (d *Def) Save(path string) error {
	data, err := yaml.Marshal(d)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ModelVehicles converts all vehicle definitions.
func (d *Def) ModelVehicles() []model.Vehicle {
	out := make([]model.Vehicle, 0, len(d.Vehicles))
	for _, v := range d.Vehicles {
		out = append(out, v.ToModel())
	}
	return out
}

// ModelRequests converts all request definitions.
func (d *Def) ModelRequests() []model.Request {
	out := make([]model.Request, 0, len(d.Requests))
	for _, r := range d.Requests {
		out = append(out, r.ToModel())
	}
	return out
}

// Oracle builds the travel-time oracle from the embedded network edges.
func (d *Def) Oracle() (*network.Network, error) {
	if len(d.Network) == 0 {
		return nil, fmt.Errorf("scenario %s has no network edges", d.Name)
	}
	return network.FromEdges(d.Network)
}

// ApplyParams overlays the scenario's parameter overrides on p.
func (d *Def) ApplyParams(p model.Params) model.Params {
	if d.Params == nil {
		return p
	}
	if d.Params.MaxWaitSeconds != nil {
		p.MaxWait = *d.Params.MaxWaitSeconds
	}
	if d.Params.MaxDelaySeconds != nil {
		p.MaxDelay = *d.Params.MaxDelaySeconds
	}
	if d.Params.UnservedPenalty != nil {
		p.UnservedPenalty = *d.Params.UnservedPenalty
	}
	return p
}
