// Implements the BerthQueue, which holds ships waiting for a crane.
// Ships are enqueued on arrival, one queue per cargo type.

package sim

import "strings"

// BerthQueue represents a FIFO queue of ships waiting for a crane of their cargo type.
type BerthQueue struct {
	queue []*Ship
}

// Enqueue adds a ship to the back of the queue.
func (bq *BerthQueue) Enqueue(s *Ship) {
	if s == nil {
		panic("Enqueue: ship must not be nil")
	}
	bq.queue = append(bq.queue, s)
}

func (bq *BerthQueue) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, s := range bq.queue {
		sb.WriteString(s.Name)
		if i < len(bq.queue)-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}

// Len returns the number of entries in the queue, stale ones included.
func (bq *BerthQueue) Len() int {
	return len(bq.queue)
}

// Dequeue removes and returns the ship at the front of the queue.
// Returns nil if the queue is empty.
func (bq *BerthQueue) Dequeue() *Ship {
	if len(bq.queue) == 0 {
		return nil
	}
	s := bq.queue[0]
	bq.queue[0] = nil
	bq.queue = bq.queue[1:]
	return s
}

// NextBerthable pops entries until it finds a ship that is neither unloading,
// finished, nor assigned, and returns it. Stale entries are discarded.
// Returns nil when the queue runs dry.
func (bq *BerthQueue) NextBerthable() *Ship {
	for {
		s := bq.Dequeue()
		if s == nil || s.berthable() {
			return s
		}
	}
}

// Clear empties the queue.
func (bq *BerthQueue) Clear() {
	bq.queue = nil
}
