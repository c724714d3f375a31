package sim

// ShipView is the serializable projection of a Ship plus derived fields.
type ShipView struct {
	Name          string    `json:"name"`
	Type          CargoType `json:"type"`
	Arrival       int64     `json:"arrival"`
	ActualArrival int64     `json:"actualArrival"`
	Weight        int64     `json:"weight"`
	UnloadTime    int64     `json:"unloadTime"`
	InQueue       bool      `json:"inQueue"`
	Unloading     bool      `json:"unloading"`
	Assigned      bool      `json:"assigned"`
	Finished      bool      `json:"finished"`
	State         ShipState `json:"state"`
	StartUnload   *int64    `json:"startUnload"`
	Finish        *int64    `json:"finish"`

	TimeToArrival int64   `json:"timeToArrival"` // 0 once arrived
	TimeToFinish  int64   `json:"timeToFinish"`  // 0 unless unloading
	LateFine      float64 `json:"lateFine"`      // fine rate × time waited so far, for waiting ships
}

// CraneView is the serializable projection of a Crane.
type CraneView struct {
	ID        int       `json:"id"`
	Type      CargoType `json:"type"`
	Busy      bool      `json:"busy"`
	BusyUntil int64     `json:"busyUntil"`
}

// State is a read-only snapshot of a port.
type State struct {
	Configured     bool        `json:"configured"`
	Now            int64       `json:"now"`
	Fine           float64     `json:"fine"`
	Ships          []ShipView  `json:"ships"`
	Cranes         []CraneView `json:"cranes"`
	QueueBulk      int         `json:"queueBulk"`
	QueueLiquid    int         `json:"queueLiquid"`
	QueueContainer int         `json:"queueContainer"`
}

// Snapshot projects the current port state. It never mutates the port and is
// safe to call before Configure or Reset.
func (p *Port) Snapshot() State {
	st := State{
		Configured:     p.cfg != nil,
		Now:            p.now,
		Fine:           p.fine,
		Ships:          make([]ShipView, 0, len(p.ships)),
		Cranes:         make([]CraneView, 0, len(p.cranes)),
		QueueBulk:      p.queues[CargoBulk].Len(),
		QueueLiquid:    p.queues[CargoLiquid].Len(),
		QueueContainer: p.queues[CargoContainer].Len(),
	}

	var finePerMinute float64
	if p.cfg != nil {
		finePerMinute = p.cfg.FinePerMinute
	}

	for _, s := range p.ships {
		v := ShipView{
			Name:          s.Name,
			Type:          s.Type,
			Arrival:       s.Arrival,
			ActualArrival: s.ActualArrival,
			Weight:        s.Weight,
			UnloadTime:    s.UnloadTime,
			InQueue:       s.Queued,
			Unloading:     s.Unloading,
			Assigned:      s.Assigned,
			Finished:      s.Finished,
			State:         s.State(),
			StartUnload:   copyTime(s.StartUnload),
			Finish:        copyTime(s.Finish),
			TimeToArrival: max(0, s.ActualArrival-p.now),
		}
		if s.Unloading && s.Finish != nil {
			v.TimeToFinish = max(0, *s.Finish-p.now)
		}
		if s.Waiting(p.now) {
			v.LateFine = finePerMinute * float64(p.now-s.ActualArrival)
		}
		st.Ships = append(st.Ships, v)
	}

	for _, c := range p.cranes {
		st.Cranes = append(st.Cranes, CraneView{
			ID:        c.ID,
			Type:      c.Type,
			Busy:      c.Busy,
			BusyUntil: c.BusyUntil,
		})
	}

	return st
}

func copyTime(t *int64) *int64 {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
