package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalArrivals   int
	TotalBerths     int
	TotalDepartures int
	MeanWait        float64
	MaxWait         int64
	MeanTurnaround  float64
	BerthsByCargo   map[string]int // cargo tag → number of crane assignments
	BerthsByCrane   map[int]int    // crane index → number of ships served
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		BerthsByCargo: make(map[string]int),
		BerthsByCrane: make(map[int]int),
	}
	if st == nil {
		return summary
	}

	summary.TotalArrivals = len(st.Arrivals)
	summary.TotalBerths = len(st.Berths)
	summary.TotalDepartures = len(st.Departures)

	if len(st.Berths) > 0 {
		var totalWait int64
		for _, b := range st.Berths {
			summary.BerthsByCargo[b.Cargo]++
			summary.BerthsByCrane[b.Crane]++
			totalWait += b.Wait
			if b.Wait > summary.MaxWait {
				summary.MaxWait = b.Wait
			}
		}
		summary.MeanWait = float64(totalWait) / float64(len(st.Berths))
	}

	if len(st.Departures) > 0 {
		var total int64
		for _, d := range st.Departures {
			total += d.Turnaround
		}
		summary.MeanTurnaround = float64(total) / float64(len(st.Departures))
	}

	return summary
}
