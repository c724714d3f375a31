// Tracks port-wide performance metrics such as waiting time, turnaround,
// crane occupancy and the accumulated late fine.

package sim

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Metrics aggregates statistics about the port at one instant, for reporting
// at the end of a run or on demand from the service.
type Metrics struct {
	Now int64 `json:"now"`

	TotalShips     int `json:"total_ships"`
	AtSeaShips     int `json:"at_sea_ships"`
	QueuedShips    int `json:"queued_ships"`
	UnloadingShips int `json:"unloading_ships"`
	FinishedShips  int `json:"finished_ships"`

	TotalFine float64 `json:"total_fine"`

	// Wait = unload start - actual arrival, over every ship that has berthed.
	MeanWait float64 `json:"mean_wait"`
	P90Wait  float64 `json:"p90_wait"`
	MaxWait  int64   `json:"max_wait"`
	// Turnaround = unload finish - actual arrival, over finished ships.
	MeanTurnaround float64 `json:"mean_turnaround"`

	TotalCranes int     `json:"total_cranes"`
	BusyCranes  int     `json:"busy_cranes"`
	CraneUsage  float64 `json:"crane_usage"` // busy / total at this instant

	FinishedByCargo map[string]int `json:"finished_by_cargo"`
}

// Metrics computes the current Metrics of the port. Safe before Reset.
func (p *Port) Metrics() *Metrics {
	m := &Metrics{
		Now:             p.now,
		TotalShips:      len(p.ships),
		TotalFine:       p.fine,
		TotalCranes:     len(p.cranes),
		FinishedByCargo: make(map[string]int),
	}
	for _, t := range CargoTypes() {
		m.FinishedByCargo[t.String()] = 0
	}

	var waits, turnarounds []int64
	for _, s := range p.ships {
		switch s.State() {
		case StateAtSea:
			m.AtSeaShips++
		case StateQueued:
			m.QueuedShips++
		case StateUnloading:
			m.UnloadingShips++
		case StateFinished:
			m.FinishedShips++
			m.FinishedByCargo[s.Type.String()]++
		}
		if s.StartUnload != nil {
			waits = append(waits, *s.StartUnload-s.ActualArrival)
		}
		if s.Finished && s.Finish != nil {
			turnarounds = append(turnarounds, *s.Finish-s.ActualArrival)
		}
	}

	if len(waits) > 0 {
		sorted := sortedCopy(waits)
		m.MeanWait = CalculateMean(sorted)
		m.P90Wait = CalculatePercentile(sorted, 90)
		m.MaxWait = sorted[len(sorted)-1]
	}
	m.MeanTurnaround = CalculateMean(turnarounds)

	for _, c := range p.cranes {
		if c.Busy {
			m.BusyCranes++
		}
	}
	if m.TotalCranes > 0 {
		m.CraneUsage = float64(m.BusyCranes) / float64(m.TotalCranes)
	}
	return m
}

// Print writes the metrics to w as a human-readable table.
func (m *Metrics) Print(w io.Writer) {
	fmt.Fprintln(w, "=== Port Simulation Metrics ===")
	fmt.Fprintf(w, "Clock              : %d min (%s)\n", m.Now, FormatClock(m.Now))
	fmt.Fprintf(w, "Ships              : %d total, %d finished, %d unloading, %d queued, %d at sea\n",
		m.TotalShips, m.FinishedShips, m.UnloadingShips, m.QueuedShips, m.AtSeaShips)
	fmt.Fprintf(w, "Late Fine          : %.2f\n", m.TotalFine)
	if m.FinishedShips+m.UnloadingShips > 0 {
		fmt.Fprintf(w, "Mean Wait          : %.2f min\n", m.MeanWait)
		fmt.Fprintf(w, "P90 Wait           : %.2f min\n", m.P90Wait)
		fmt.Fprintf(w, "Max Wait           : %d min\n", m.MaxWait)
	}
	if m.FinishedShips > 0 {
		fmt.Fprintf(w, "Mean Turnaround    : %.2f min\n", m.MeanTurnaround)
	}
	fmt.Fprintf(w, "Cranes Busy        : %d / %d\n", m.BusyCranes, m.TotalCranes)
	for _, t := range CargoTypes() {
		fmt.Fprintf(w, "Finished %-10s: %d\n", t.String(), m.FinishedByCargo[t.String()])
	}
}

// SaveResults writes the metrics as indented JSON to path.
func (m *Metrics) SaveResults(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling metrics: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	logrus.Infof("Metrics written to %s", path)
	return nil
}

// FormatClock renders a minute count as "<d>d <h>h <m>m".
func FormatClock(minutes int64) string {
	sign := ""
	if minutes < 0 {
		sign = "-"
		minutes = -minutes
	}
	return fmt.Sprintf("%s%dd %dh %dm", sign, minutes/Day, (minutes%Day)/Hour, minutes%Hour)
}
