package sim

// Crane unloads ships of a single cargo type, one at a time.
type Crane struct {
	ID        int       // position in the port's crane list
	Type      CargoType // fixed for the crane's lifetime
	Busy      bool
	BusyUntil int64
}

// release frees the crane if its current job is over by now.
func (c *Crane) release(now int64) bool {
	if c.Busy && c.BusyUntil <= now {
		c.Busy = false
		return true
	}
	return false
}
