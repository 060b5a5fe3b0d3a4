// Package app wires configuration, scenario input, the epoch pipeline and
// result export into a runnable service.
package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fleetsim/ridepool/config"
	"github.com/fleetsim/ridepool/core/dispatch"
	"github.com/fleetsim/ridepool/core/events"
	coremetrics "github.com/fleetsim/ridepool/core/metrics"
	"github.com/fleetsim/ridepool/core/model"
	corenetwork "github.com/fleetsim/ridepool/core/network"
	"github.com/fleetsim/ridepool/infra/logger"
	"github.com/fleetsim/ridepool/infra/metrics"
	"github.com/fleetsim/ridepool/infra/network"
	infrasolver "github.com/fleetsim/ridepool/infra/solver"
	"github.com/fleetsim/ridepool/internal/eventbus"
	"github.com/fleetsim/ridepool/pkg/export"
	"github.com/fleetsim/ridepool/scenario"
)

// Service runs decision epochs from configuration.
type Service struct {
	cfg  *config.Config
	log  logger.Logger
	bus  *eventbus.Bus
	sink coremetrics.MetricsSink
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logg := logger.New("service")
	var sink coremetrics.MetricsSink = coremetrics.NopSink{}
	if cfg.Metrics.PrometheusEnabled {
		s, err := metrics.NewPromSink(cfg.Metrics)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sink = s
	}
	svc := &Service{cfg: cfg, log: logg, bus: eventbus.New(), sink: sink}
	go svc.logEvents(svc.bus.Subscribe())
	return svc, nil
}

// RunScenario executes one epoch from a scenario file.
func (s *Service) RunScenario(ctx context.Context, path string) error {
	def, err := scenario.Load(path)
	if err != nil {
		return err
	}
	oracle, err := def.Oracle()
	if err != nil {
		return err
	}
	params := def.ApplyParams(s.cfg.Epoch.Params())
	s.log.Infof("scenario %s: %d vehicles, %d requests", def.Name, len(def.Vehicles), len(def.Requests))
	return s.runEpoch(ctx, oracle, def.ModelVehicles(), def.ModelRequests(), params)
}

// RunGenerated builds a synthetic grid network, samples a random scenario and
// executes one epoch.
func (s *Service) RunGenerated(ctx context.Context) error {
	net, err := network.GenerateGrid(s.cfg.Grid, s.cfg.Generator.Seed)
	if err != nil {
		return err
	}
	def, err := scenario.Generate(s.cfg.Generator, net.Nodes(), net)
	if err != nil {
		return err
	}
	vehicles := def.ModelVehicles()
	requests := def.ModelRequests()
	reachable, unreachable := scenario.SplitReachable(vehicles, requests, net)
	if len(unreachable) > 0 {
		s.log.Warnf("%d of %d requests unreachable by any vehicle", len(unreachable), len(requests))
	}
	s.log.Infof("scenario %s: %d vehicles, %d reachable requests", def.Name, len(vehicles), len(reachable))
	return s.runEpoch(ctx, net, vehicles, requests, s.cfg.Epoch.Params())
}

// GenerateScenario samples a random scenario and writes it to path.
func (s *Service) GenerateScenario(path string) error {
	net, err := network.GenerateGrid(s.cfg.Grid, s.cfg.Generator.Seed)
	if err != nil {
		return err
	}
	def, err := scenario.Generate(s.cfg.Generator, net.Nodes(), net)
	if err != nil {
		return err
	}
	def.Network = net.Edges()
	s.log.Infof("generated scenario %s: %d vehicles, %d requests", def.Name, len(def.Vehicles), len(def.Requests))
	return def.Save(path)
}

func (s *Service) runEpoch(ctx context.Context, oracle corenetwork.TravelTimeOracle, vehicles []model.Vehicle, requests []model.Request, params model.Params) error {
	if s.cfg.Metrics.PrometheusEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	ip := infrasolver.New(s.cfg.Solver.MaxNodes)
	manager, err := dispatch.NewManager(oracle, params, ip, s.cfg.Dispatch, s.sink, s.bus, s.log)
	if err != nil {
		return err
	}
	asn, err := manager.RunEpoch(ctx, vehicles, requests)
	if err != nil {
		return err
	}
	return s.export(asn)
}

func (s *Service) export(asn model.Assignment) error {
	var w io.Writer = os.Stdout
	if p := s.cfg.Output.Path; p != "" && p != "-" {
		f, err := os.Create(p)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil {
				s.log.Errorf("close output: %v", cerr)
			}
		}()
		w = f
	}
	if s.cfg.Output.Format == "csv" {
		return export.WriteCSV(w, asn)
	}
	return export.WriteJSON(w, asn)
}

func (s *Service) logEvents(ch <-chan eventbus.Event) {
	for ev := range ch {
		switch e := ev.(type) {
		case events.StrategyEvent:
			fields := map[string]any{"action": e.Action}
			if e.Err != nil {
				fields["error"] = e.Err.Error()
			}
			s.log.Debugw("strategy", fields)
		case events.EpochEvent:
			s.log.Debugw("epoch", map[string]any{
				"strategy": e.Strategy,
				"served":   e.Served,
				"unserved": e.Unserved,
				"duration": e.Duration.String(),
			})
		}
	}
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	return nil
}
