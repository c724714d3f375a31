// Package sim provides the stepped port simulation engine.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - ship.go: Ship lifecycle (at sea → queued → unloading → finished)
//   - queue.go: per-cargo-type FIFO berth queues
//   - port.go: Configure, Reset and the five-phase Advance loop
//
// # Step phases
//
// Each Advance(delta) moves the clock forward by delta and then runs, in order:
//  1. crane release: busy cranes whose job ended by now go idle
//  2. arrivals: arrived ships join their cargo type's queue by actual arrival
//  3. assignment: each idle crane takes at most one ship from its own queue
//  4. completion: unloads that ended by now are marked finished
//  5. fine accrual: every arrived, unserved ship adds FinePerMinute × Step
//
// # Determinism
//
// All randomness comes from a JitterSource seeded on Configure. Reset draws,
// per ship in schedule order, one arrival jitter and then (when the unload
// jitter range is non-degenerate) one unload jitter.
//
// The sim/trace sub-package records lifecycle events; Port emits into any
// trace.Recorder attached with SetRecorder.
package sim
