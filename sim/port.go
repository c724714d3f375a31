// sim/port.go
package sim

import (
	"fmt"
	"math"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/portsim/portsim/sim/trace"
)

// Port is the core object that holds the logical clock, the accumulated fine,
// every ship and crane, and one berth queue per cargo type.
//
// Port does no locking. Callers must serialize Configure, Reset, Advance and
// Snapshot on a single instance.
type Port struct {
	cfg    *Config
	jitter *JitterSource

	now  int64
	fine float64

	// Ships in schedule order.
	ships []*Ship
	// Cranes grouped by cargo type: bulk, then liquid, then container.
	cranes []*Crane
	queues [numCargoTypes]*BerthQueue

	recorder trace.Recorder
}

// NewPort creates an unconfigured port. Reset and Advance return
// ErrNotConfigured until Configure succeeds.
func NewPort() *Port {
	p := &Port{}
	for i := range p.queues {
		p.queues[i] = &BerthQueue{}
	}
	return p
}

// SetRecorder attaches a lifecycle event recorder. nil detaches.
func (p *Port) SetRecorder(r trace.Recorder) {
	p.recorder = r
}

// Configure validates cfg, installs a normalized copy, and seeds the jitter
// source from cfg.Seed. On error the previously installed configuration and
// all simulation state are left untouched. Entities are not rebuilt until Reset.
func (p *Port) Configure(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	normalized := cfg.Normalize()
	p.cfg = &normalized
	p.jitter = NewJitterSource(NewSimulationKey(normalized.Seed))
	logrus.Debugf("Port configured: cranes=%d/%d/%d ships=%d seed=%d",
		normalized.CranesBulk, normalized.CranesLiquid, normalized.CranesContainer,
		len(normalized.Schedule), normalized.Seed)
	return nil
}

// Configured reports whether Configure has succeeded at least once.
func (p *Port) Configured() bool {
	return p.cfg != nil
}

// Config returns a copy of the installed configuration.
func (p *Port) Config() (Config, bool) {
	if p.cfg == nil {
		return Config{}, false
	}
	return p.cfg.Normalize(), true
}

// Now returns the logical clock in minutes.
func (p *Port) Now() int64 {
	return p.now
}

// Fine returns the accumulated late fine.
func (p *Port) Fine() float64 {
	return p.fine
}

// Done reports whether every scheduled ship has finished unloading.
func (p *Port) Done() bool {
	for _, s := range p.ships {
		if !s.Finished {
			return false
		}
	}
	return true
}

// Reset rebuilds all cranes and ships from the installed configuration.
// The jitter source is not reseeded, so consecutive resets draw fresh
// but reproducible arrival and unload jitter.
//
// Unlike a bare rebuild, where every ship starts at sea with all lifecycle
// flags false, Reset then settles minute 0: crane release, arrivals,
// assignment and completion run once at clock 0 without fine accrual. Ships
// whose actual arrival is 0 are therefore already queued or berthed when
// Reset returns, and a ship berthed at 0 finishes at exactly its unload time.
func (p *Port) Reset() error {
	if p.cfg == nil {
		return ErrNotConfigured
	}

	p.now = 0
	p.fine = 0
	p.ships = p.ships[:0]
	p.cranes = p.cranes[:0]
	for _, q := range p.queues {
		q.Clear()
	}

	for _, t := range CargoTypes() {
		for i := 0; i < p.cfg.CraneCount(t); i++ {
			p.cranes = append(p.cranes, &Crane{ID: len(p.cranes), Type: t})
		}
	}

	// Draw order per ship: arrival jitter, then unload jitter.
	for _, plan := range p.cfg.Schedule {
		s := &Ship{
			Name:    plan.Name,
			Type:    plan.Type,
			Arrival: plan.Arrival,
			Weight:  plan.Weight,
		}
		s.ActualArrival = max(0, plan.Arrival+p.jitter.Jitter(p.cfg.ArrivalJitterMin, p.cfg.ArrivalJitterMax))
		s.UnloadTime = p.unloadDuration(s)
		p.ships = append(p.ships, s)
	}

	logrus.Debugf("[t %07d] Port reset: %d cranes, %d ships", p.now, len(p.cranes), len(p.ships))

	p.runPhases(false)
	return nil
}

// unloadDuration computes round(weight * rate) plus optional unload jitter,
// floored at one minute.
func (p *Port) unloadDuration(s *Ship) int64 {
	base := int64(math.Round(float64(s.Weight) * p.cfg.Rate(s.Type)))
	var extra int64
	if p.cfg.UnloadExtraMax > p.cfg.UnloadExtraMin {
		extra = p.jitter.Jitter(p.cfg.UnloadExtraMin, p.cfg.UnloadExtraMax)
	}
	return max(1, base+extra)
}

// Advance moves the clock forward by delta in a single jump and runs the five
// step phases once against the new clock value: crane release, arrivals,
// assignment, completion, fine accrual. The fine accrues Step minutes' worth
// per waiting ship regardless of delta; callers wanting per-minute accuracy
// advance in small deltas.
//
// A non-positive delta is a no-op. An unconfigured port returns
// ErrNotConfigured, and a delta that would carry the clock past MaxClock
// returns ErrClockOverflow; in both cases the port is not modified.
func (p *Port) Advance(delta int64) error {
	if p.cfg == nil {
		return ErrNotConfigured
	}
	if delta <= 0 {
		return nil
	}
	if delta > MaxClock-p.now {
		return fmt.Errorf("%w: now %d, delta %d, max %d", ErrClockOverflow, p.now, delta, MaxClock)
	}
	p.now += delta
	p.runPhases(true)
	return nil
}

func (p *Port) runPhases(accrue bool) {
	p.releaseCranes()
	p.enqueueArrivals()
	p.assignCranes()
	p.completeUnloads()
	if accrue {
		p.accrueFine()
	}
}

func (p *Port) releaseCranes() {
	for _, c := range p.cranes {
		if c.release(p.now) {
			logrus.Debugf("[t %07d] Crane %d (%s) released", p.now, c.ID, c.Type)
		}
	}
}

// enqueueArrivals queues every ship that has arrived by now. Ships arriving
// within the same jump enter the queue by actual arrival; ties keep schedule order.
func (p *Port) enqueueArrivals() {
	var arrived []*Ship
	for _, s := range p.ships {
		if s.Finished || s.Unloading || s.Queued || s.ActualArrival > p.now {
			continue
		}
		arrived = append(arrived, s)
	}
	sort.SliceStable(arrived, func(i, j int) bool {
		return arrived[i].ActualArrival < arrived[j].ActualArrival
	})

	for _, s := range arrived {
		s.Queued = true
		p.queues[s.Type].Enqueue(s)
		logrus.Debugf("[t %07d] %s queue: %s", p.now, s.Type, p.queues[s.Type])
		logrus.Debugf("[t %07d] Ship %s (%s) queued, arrived at %d", p.now, s.Name, s.Type, s.ActualArrival)
		if p.recorder != nil {
			p.recorder.RecordArrival(trace.ArrivalRecord{
				Ship:          s.Name,
				Cargo:         s.Type.String(),
				Clock:         p.now,
				PlannedTime:   s.Arrival,
				ActualArrival: s.ActualArrival,
			})
		}
	}
}

// assignCranes gives every idle crane at most one ship from its own queue.
func (p *Port) assignCranes() {
	for _, c := range p.cranes {
		if c.Busy {
			continue
		}
		s := p.queues[c.Type].NextBerthable()
		if s == nil {
			continue
		}
		start, finish := p.now, p.now+s.UnloadTime
		s.Queued = false
		s.Unloading = true
		s.Assigned = true
		s.StartUnload = &start
		s.Finish = &finish
		c.Busy = true
		c.BusyUntil = finish

		logrus.Debugf("[t %07d] Ship %s berthed at crane %d, finishes at %d", p.now, s.Name, c.ID, finish)
		if p.recorder != nil {
			p.recorder.RecordBerth(trace.BerthRecord{
				Ship:   s.Name,
				Cargo:  s.Type.String(),
				Crane:  c.ID,
				Clock:  start,
				Finish: finish,
				Wait:   start - s.ActualArrival,
			})
		}
	}
}

func (p *Port) completeUnloads() {
	for _, s := range p.ships {
		if !s.Unloading || s.Finish == nil || *s.Finish > p.now {
			continue
		}
		s.Unloading = false
		s.Assigned = false
		s.Finished = true
		logrus.Debugf("[t %07d] Ship %s finished unloading", p.now, s.Name)
		if p.recorder != nil {
			p.recorder.RecordDeparture(trace.DepartureRecord{
				Ship:       s.Name,
				Cargo:      s.Type.String(),
				Clock:      p.now,
				Finish:     *s.Finish,
				Turnaround: *s.Finish - s.ActualArrival,
			})
		}
	}
}

// accrueFine charges FinePerMinute*Step for every ship that has arrived but
// is not being served.
func (p *Port) accrueFine() {
	for _, s := range p.ships {
		if s.Waiting(p.now) {
			p.fine += p.cfg.FinePerMinute * float64(p.cfg.Step)
		}
	}
}
