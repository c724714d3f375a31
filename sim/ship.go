// Defines the Ship struct that models one scheduled vessel in the simulation.
// Tracks planned and actual arrival, unload duration, and berth timestamps.

package sim

// ShipState is the derived lifecycle state of a ship.
type ShipState string

const (
	StateAtSea     ShipState = "at_sea" // not yet arrived, or arrived this instant and not yet queued
	StateQueued    ShipState = "queued"
	StateUnloading ShipState = "unloading"
	StateFinished  ShipState = "finished"
)

// Ship models a single ship's lifecycle: at sea → queued → unloading → finished.
// At most one of Queued, Unloading, Finished is true at any instant. Assigned
// is true exactly while the ship occupies a crane.
type Ship struct {
	Name          string
	Type          CargoType
	Arrival       int64 // planned arrival
	ActualArrival int64 // planned + jitter, floored at 0
	Weight        int64
	UnloadTime    int64 // always >= 1

	Queued    bool
	Unloading bool
	Assigned  bool
	Finished  bool

	StartUnload *int64 // nil until a crane picks the ship up
	Finish      *int64 // nil until a crane picks the ship up
}

// State returns the ship's current lifecycle state.
func (s *Ship) State() ShipState {
	switch {
	case s.Finished:
		return StateFinished
	case s.Unloading:
		return StateUnloading
	case s.Queued:
		return StateQueued
	}
	return StateAtSea
}

// Waiting reports whether the ship has arrived by now but has not begun unloading.
func (s *Ship) Waiting(now int64) bool {
	return !s.Finished && !s.Unloading && s.ActualArrival <= now
}

// berthable reports whether a queue entry still refers to a ship a crane may take.
func (s *Ship) berthable() bool {
	return !s.Unloading && !s.Finished && !s.Assigned
}
