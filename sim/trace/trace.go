package trace

// TraceLevel controls the verbosity of event tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelEvents captures every arrival, berth and departure.
	TraceLevelEvents TraceLevel = "events"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:   true,
	TraceLevelEvents: true,
	"":               true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// Recorder receives lifecycle events from a running port.
type Recorder interface {
	RecordArrival(ArrivalRecord)
	RecordBerth(BerthRecord)
	RecordDeparture(DepartureRecord)
}

// SimulationTrace collects event records in memory.
type SimulationTrace struct {
	Level      TraceLevel
	Arrivals   []ArrivalRecord
	Berths     []BerthRecord
	Departures []DepartureRecord
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace(level TraceLevel) *SimulationTrace {
	return &SimulationTrace{
		Level:      level,
		Arrivals:   make([]ArrivalRecord, 0),
		Berths:     make([]BerthRecord, 0),
		Departures: make([]DepartureRecord, 0),
	}
}

// RecordArrival appends an arrival record.
func (st *SimulationTrace) RecordArrival(record ArrivalRecord) {
	st.Arrivals = append(st.Arrivals, record)
}

// RecordBerth appends a berth record.
func (st *SimulationTrace) RecordBerth(record BerthRecord) {
	st.Berths = append(st.Berths, record)
}

// RecordDeparture appends a departure record.
func (st *SimulationTrace) RecordDeparture(record DepartureRecord) {
	st.Departures = append(st.Departures, record)
}

// Multi fans every record out to each non-nil recorder in order.
// Returns nil if no recorder is given.
func Multi(recorders ...Recorder) Recorder {
	var rs multiRecorder
	for _, r := range recorders {
		if r != nil {
			rs = append(rs, r)
		}
	}
	switch len(rs) {
	case 0:
		return nil
	case 1:
		return rs[0]
	}
	return rs
}

type multiRecorder []Recorder

func (m multiRecorder) RecordArrival(r ArrivalRecord) {
	for _, rec := range m {
		rec.RecordArrival(r)
	}
}

func (m multiRecorder) RecordBerth(r BerthRecord) {
	for _, rec := range m {
		rec.RecordBerth(r)
	}
}

func (m multiRecorder) RecordDeparture(r DepartureRecord) {
	for _, rec := range m {
		rec.RecordDeparture(r)
	}
}
