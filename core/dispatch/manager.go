package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/fleetsim/ridepool/core/events"
	"github.com/fleetsim/ridepool/core/logger"
	"github.com/fleetsim/ridepool/core/metrics"
	"github.com/fleetsim/ridepool/core/model"
	"github.com/fleetsim/ridepool/core/network"
	"github.com/fleetsim/ridepool/core/rtv"
	"github.com/fleetsim/ridepool/core/rvgraph"
	"github.com/fleetsim/ridepool/core/solver"
	"github.com/fleetsim/ridepool/internal/eventbus"
)

// Manager runs the full decision epoch: RV graph, trip enumeration,
// assignment and extraction. The exact strategy runs under a timeout; any
// failure falls back to the greedy heuristic from a clean state, surfaced
// only as an advisory on the resulting assignment.
type Manager struct {
	oracle        network.TravelTimeOracle
	params        model.Params
	exact         *ExactStrategy
	greedy        GreedyStrategy
	solverTimeout time.Duration
	workers       int
	topK          int
	log           logger.Logger
	sink          metrics.MetricsSink
	bus           eventbus.EventBus
}

// NewManager wires an epoch manager. ip may be nil to force the greedy
// strategy regardless of cfg.Strategy. sink and bus may be nil.
func NewManager(oracle network.TravelTimeOracle, params model.Params, ip solver.Solver, cfg Config, sink metrics.MetricsSink, bus eventbus.EventBus, log logger.Logger) (*Manager, error) {
	if oracle == nil {
		return nil, fmt.Errorf("travel time oracle is required")
	}
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("epoch params: %w", err)
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("dispatch config: %w", err)
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	m := &Manager{
		oracle:        oracle,
		params:        params,
		solverTimeout: time.Duration(cfg.SolverTimeoutSeconds) * time.Second,
		workers:       cfg.Workers,
		topK:          cfg.TopK,
		log:           log,
		sink:          sink,
		bus:           bus,
	}
	if cfg.Strategy == "exact" && ip != nil {
		m.exact = &ExactStrategy{Solver: ip, Penalty: params.UnservedPenalty, WarmStart: cfg.WarmStart}
	}
	return m, nil
}

// RunEpoch computes the assignment for one epoch. Inputs are read-only; the
// epoch is a pure function of vehicles, requests and the oracle.
func (m *Manager) RunEpoch(ctx context.Context, vehicles []model.Vehicle, requests []model.Request) (model.Assignment, error) {
	for _, v := range vehicles {
		if err := v.Validate(); err != nil {
			return model.Assignment{}, err
		}
	}
	for _, r := range requests {
		if err := r.Validate(); err != nil {
			return model.Assignment{}, err
		}
	}

	start := time.Now()
	rvb := rvgraph.NewBuilder(m.oracle, m.params, m.log)
	rvb.TopK = m.topK
	rvg := rvb.Build(vehicles, requests)

	enum := rtv.NewEnumerator(m.oracle, m.params, m.workers, m.log)
	g := enum.Build(vehicles, requests, rvg)
	if g.Empty() {
		m.log.Infof("epoch: no feasible trips, %d requests unserved", len(requests))
	}

	sel, strategy := m.solve(ctx, g, requests)
	asn := BuildAssignment(g, sel, requests, strategy, m.params.UnservedPenalty)

	elapsed := time.Since(start)
	if m.bus != nil {
		m.bus.Publish(events.EpochEvent{
			Vehicles:  len(vehicles),
			Requests:  len(requests),
			Served:    asn.Served(),
			Unserved:  len(asn.Unserved),
			Strategy:  strategy,
			Objective: asn.Objective,
			Duration:  elapsed,
		})
	}
	if err := m.sink.RecordEpoch(metrics.EpochResult{
		Vehicles:  len(vehicles),
		Requests:  len(requests),
		Served:    asn.Served(),
		Unserved:  len(asn.Unserved),
		Strategy:  strategy,
		Objective: asn.Objective,
		Duration:  elapsed,
	}); err != nil {
		m.log.Warnf("metrics sink: %v", err)
	}
	m.log.Infof("epoch done: strategy=%s served=%d unserved=%d objective=%.1f in %s",
		strategy, asn.Served(), len(asn.Unserved), asn.Objective, elapsed)
	return asn, nil
}

// solve tries the exact strategy under its timeout and falls back to greedy.
// The greedy pass always starts from a clean selection, so a canceled exact
// attempt leaves no partial commitments behind.
func (m *Manager) solve(ctx context.Context, g *rtv.Graph, requests []model.Request) (Selection, string) {
	if m.exact != nil {
		if m.bus != nil {
			m.bus.Publish(events.StrategyEvent{Action: "exact_attempt"})
		}
		sctx := ctx
		if m.solverTimeout > 0 {
			var cancel context.CancelFunc
			sctx, cancel = context.WithTimeout(ctx, m.solverTimeout)
			defer cancel()
		}
		sel, err := m.exact.Solve(sctx, g, requests)
		if err == nil {
			return sel, m.exact.Name()
		}
		if m.bus != nil {
			m.bus.Publish(events.StrategyEvent{Action: "exact_failure", Err: err})
		}
		m.log.Warnf("exact solve failed: %v, falling back to greedy", err)
		if m.bus != nil {
			m.bus.Publish(events.StrategyEvent{Action: "greedy_fallback"})
		}
	}
	sel, _ := m.greedy.Solve(ctx, g, requests)
	return sel, m.greedy.Name()
}
