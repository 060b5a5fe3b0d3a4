package dispatch

import (
	"sort"

	"github.com/fleetsim/ridepool/core/model"
	"github.com/fleetsim/ridepool/core/rtv"
)

// BuildAssignment maps a solver selection back to concrete vehicle routes and
// the residual unserved-request list. It is a pure transformation with no
// decision logic.
func BuildAssignment(g *rtv.Graph, sel Selection, requests []model.Request, strategy string, penalty float64) model.Assignment {
	asn := model.Assignment{Strategy: strategy}
	served := make(map[string]bool)
	for _, idx := range sel.EdgeIdx {
		e := g.Edges[idx]
		asn.Routes = append(asn.Routes, model.Route{
			VehicleID: e.VehicleID,
			Trip:      e.Trip,
			Stops:     append([]model.Stop(nil), e.Stops...),
			Cost:      e.Cost,
		})
		asn.Objective += e.Cost
		for _, r := range e.Trip.Requests {
			served[r.ID] = true
		}
	}
	sort.Slice(asn.Routes, func(i, j int) bool { return asn.Routes[i].VehicleID < asn.Routes[j].VehicleID })

	for _, r := range requests {
		if !served[r.ID] {
			asn.Unserved = append(asn.Unserved, r.ID)
		}
	}
	sort.Strings(asn.Unserved)
	asn.Objective += penalty * float64(len(asn.Unserved))
	return asn
}
