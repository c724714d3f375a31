// Package trace provides event-trace recording for port simulation analysis.
// It has no dependencies on sim/ and stores pure data types.
package trace

// ArrivalRecord captures a ship joining its cargo type's berth queue.
type ArrivalRecord struct {
	Ship          string
	Cargo         string
	Clock         int64 // clock value at which the ship was queued
	PlannedTime   int64
	ActualArrival int64
}

// BerthRecord captures a crane assignment.
type BerthRecord struct {
	Ship   string
	Cargo  string
	Crane  int   // index in the port's crane list
	Clock  int64 // unload start
	Finish int64
	Wait   int64 // Clock - actual arrival
}

// DepartureRecord captures a ship finishing its unload.
type DepartureRecord struct {
	Ship       string
	Cargo      string
	Clock      int64 // clock value at which completion was observed
	Finish     int64 // scheduled unload finish
	Turnaround int64 // Finish - actual arrival
}
