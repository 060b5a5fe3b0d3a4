// Package export serializes epoch assignments for the visualization
// collaborator. The core has no dependency on the rendering side; these are
// plain data dumps.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/fleetsim/ridepool/core/model"
)

// WriteJSON writes the assignment to w in indented JSON.
func WriteJSON(w io.Writer, a model.Assignment) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(assignmentDoc(a))
}

// WriteCSV writes one row per stop plus one row per unserved request.
func WriteCSV(w io.Writer, a model.Assignment) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"vehicle_id", "seq", "event", "request_id", "location", "time_s"}); err != nil {
		return err
	}
	for _, rt := range a.Routes {
		for i, s := range rt.Stops {
			rec := []string{
				rt.VehicleID,
				strconv.Itoa(i),
				s.Kind.String(),
				s.RequestID,
				strconv.FormatInt(int64(s.Location), 10),
				strconv.FormatFloat(s.Time, 'f', 1, 64),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
	}
	for _, id := range a.Unserved {
		if err := cw.Write([]string{"", "", "unserved", id, "", ""}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

type stopDoc struct {
	Event     string  `json:"event"`
	RequestID string  `json:"request_id"`
	Location  int64   `json:"location"`
	Time      float64 `json:"time_s"`
}

type routeDoc struct {
	VehicleID string    `json:"vehicle_id"`
	Requests  []string  `json:"requests"`
	Cost      float64   `json:"cost"`
	Stops     []stopDoc `json:"stops"`
}

type doc struct {
	Strategy  string     `json:"strategy"`
	Objective float64    `json:"objective"`
	Routes    []routeDoc `json:"routes"`
	Unserved  []string   `json:"unserved"`
}

func assignmentDoc(a model.Assignment) doc {
	d := doc{Strategy: a.Strategy, Objective: a.Objective, Unserved: a.Unserved}
	for _, rt := range a.Routes {
		r := routeDoc{VehicleID: rt.VehicleID, Cost: rt.Cost}
		for _, req := range rt.Trip.Requests {
			r.Requests = append(r.Requests, req.ID)
		}
		for _, s := range rt.Stops {
			r.Stops = append(r.Stops, stopDoc{
				Event:     s.Kind.String(),
				RequestID: s.RequestID,
				Location:  int64(s.Location),
				Time:      s.Time,
			})
		}
		d.Routes = append(d.Routes, r)
	}
	return d
}
