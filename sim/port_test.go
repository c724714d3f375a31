package sim

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/portsim/portsim/sim/trace"
)

func TestPort_SingleShip_UnloadsThenFinishes(t *testing.T) {
	// GIVEN one bulk crane and one bulk ship arriving at 0 whose unload takes 100 minutes
	p := newTestPort(t, testConfig(ShipPlan{"Aurora", CargoBulk, 0, 100}))

	// WHEN the clock advances by 50
	advance(t, p, 50)

	// THEN the ship is unloading and will finish at 100
	s := shipView(t, p.Snapshot(), "Aurora")
	assert.True(t, s.Unloading)
	assert.True(t, s.Assigned)
	assert.False(t, s.Finished)
	require.NotNil(t, s.Finish)
	assert.Equal(t, int64(100), *s.Finish)
	require.NotNil(t, s.StartUnload)
	assert.Equal(t, int64(0), *s.StartUnload)

	// WHEN the clock advances by another 60
	advance(t, p, 60)

	// THEN the ship has finished and the crane is idle
	st := p.Snapshot()
	s = shipView(t, st, "Aurora")
	assert.True(t, s.Finished)
	assert.False(t, s.Unloading)
	assert.False(t, s.Assigned)
	assert.False(t, st.Cranes[0].Busy)
	assert.Equal(t, int64(110), st.Now)
}

func TestPort_TwoShipsOneCrane_SecondWaitsAndAccruesFine(t *testing.T) {
	// GIVEN two bulk ships arriving at 0 and a single bulk crane
	p := newTestPort(t, testConfig(
		ShipPlan{"A", CargoBulk, 0, 100},
		ShipPlan{"B", CargoBulk, 0, 50},
	))

	// THEN exactly one is unloading and the other is queued
	st := p.Snapshot()
	assert.True(t, shipView(t, st, "A").Unloading)
	assert.True(t, shipView(t, st, "B").InQueue)
	assert.Equal(t, 1, st.QueueBulk)
	assert.Equal(t, 0.0, st.Fine, "reset must not accrue fine")

	// WHEN the clock advances in steps of 10 up to 90
	prevFine := st.Fine
	for i := 0; i < 9; i++ {
		advance(t, p, 10)
		fine := p.Fine()
		assert.Greater(t, fine, prevFine, "fine must grow while B waits")
		prevFine = fine
	}

	// THEN B accrued Step*FinePerMinute on each of the 9 calls
	st = p.Snapshot()
	assert.InDelta(t, 9.0, st.Fine, 1e-9)
	b := shipView(t, st, "B")
	assert.True(t, b.InQueue)
	assert.InDelta(t, 90.0, b.LateFine, 1e-9)

	// WHEN the crane frees at 100
	advance(t, p, 10)

	// THEN B berths at 100 in the same call, A finishes, and no more fine accrues
	st = p.Snapshot()
	a, b := shipView(t, st, "A"), shipView(t, st, "B")
	assert.True(t, a.Finished)
	assert.True(t, b.Unloading)
	require.NotNil(t, b.StartUnload)
	assert.Equal(t, int64(100), *b.StartUnload)
	assert.Equal(t, int64(150), *b.Finish)
	assert.Equal(t, 0, st.QueueBulk)
	assert.InDelta(t, 9.0, st.Fine, 1e-9)

	advance(t, p, 50)
	assert.True(t, p.Done())
}

func TestPort_UnloadDuration(t *testing.T) {
	tests := []struct {
		name     string
		weight   int64
		rate     float64
		extraMin int64
		extraMax int64
		wantMin  int64
		wantMax  int64
	}{
		{"multiplicative rate", 450000, 0.02, 0, 0, 9000, 9000},
		{"rounds half away from zero", 3, 0.5, 0, 0, 2, 2},
		{"rounds down to zero then floors at one", 1, 0.4, 0, 0, 1, 1},
		{"zero weight floors at one", 0, 1, 0, 0, 1, 1},
		{"negative jitter floors at one", 100, 1, -1000, -999, 1, 1},
		{"positive jitter is added", 100, 1, 5, 6, 105, 106},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(ShipPlan{"S", CargoBulk, 10, tt.weight})
			cfg.RateBulk = tt.rate
			cfg.UnloadExtraMin, cfg.UnloadExtraMax = tt.extraMin, tt.extraMax
			p := newTestPort(t, cfg)

			got := shipView(t, p.Snapshot(), "S").UnloadTime
			assert.GreaterOrEqual(t, got, tt.wantMin)
			assert.LessOrEqual(t, got, tt.wantMax)
		})
	}
}

func TestPort_ArrivalJitter_FlooredAtZero(t *testing.T) {
	// GIVEN a ship planned at 10 with a jitter range entirely below -10
	cfg := testConfig(ShipPlan{"Early", CargoLiquid, 10, 5})
	cfg.ArrivalJitterMin, cfg.ArrivalJitterMax = -500, -400

	// WHEN the port is reset
	p := newTestPort(t, cfg)

	// THEN the actual arrival is clamped to 0 and the ship berths immediately
	s := shipView(t, p.Snapshot(), "Early")
	assert.Equal(t, int64(0), s.ActualArrival)
	assert.True(t, s.Unloading)
}

func TestPort_Reset_BuildsCranesGroupedByType(t *testing.T) {
	cfg := testConfig()
	cfg.CranesBulk, cfg.CranesLiquid, cfg.CranesContainer = 2, 2, 1
	p := newTestPort(t, cfg)

	st := p.Snapshot()
	require.Len(t, st.Cranes, 5)
	wantTypes := []CargoType{CargoBulk, CargoBulk, CargoLiquid, CargoLiquid, CargoContainer}
	for i, c := range st.Cranes {
		assert.Equal(t, i, c.ID)
		assert.Equal(t, wantTypes[i], c.Type)
		assert.False(t, c.Busy)
	}
}

func TestPort_Reset_ClearsPreviousRun(t *testing.T) {
	// GIVEN a port that has run for a while and accrued fine
	p := newTestPort(t, testConfig(
		ShipPlan{"A", CargoBulk, 0, 100},
		ShipPlan{"B", CargoBulk, 0, 100},
	))
	advance(t, p, 30)
	require.Greater(t, p.Fine(), 0.0)

	// WHEN it is reset
	require.NoError(t, p.Reset())

	// THEN the clock and fine are zero and the schedule starts over
	st := p.Snapshot()
	assert.Equal(t, int64(0), st.Now)
	assert.Equal(t, 0.0, st.Fine)
	assert.Len(t, st.Ships, 2)
	assert.Len(t, st.Cranes, 3)
	assert.Equal(t, 1, st.QueueBulk)
}

func TestPort_CargoTypesAreIndependent(t *testing.T) {
	// GIVEN no container crane, a waiting container ship and an idle bulk crane
	cfg := testConfig(
		ShipPlan{"Box", CargoContainer, 0, 10},
		ShipPlan{"Ore", CargoBulk, 5, 10},
	)
	cfg.CranesContainer = 0
	p := newTestPort(t, cfg)

	// WHEN time passes well beyond both arrivals
	for i := 0; i < 30; i++ {
		advance(t, p, 1)
	}

	// THEN the bulk ship was served and the container ship is still queued, accruing fine
	st := p.Snapshot()
	assert.True(t, shipView(t, st, "Ore").Finished)
	box := shipView(t, st, "Box")
	assert.True(t, box.InQueue)
	assert.Equal(t, 1, st.QueueContainer)
	assert.InDelta(t, 30.0, st.Fine, 1e-9)
	assert.InDelta(t, 30.0, box.LateFine, 1e-9)
}

func TestPort_FineUsesNominalStepNotDelta(t *testing.T) {
	// GIVEN a waiting ship and a nominal step of 15
	cfg := testConfig(
		ShipPlan{"A", CargoBulk, 0, 1000},
		ShipPlan{"B", CargoBulk, 0, 10},
	)
	cfg.Step = 15
	cfg.FinePerMinute = 2
	p := newTestPort(t, cfg)

	// WHEN advancing once by a large delta
	advance(t, p, 500)

	// THEN the fine is charged once, for one nominal step
	assert.InDelta(t, 30.0, p.Fine(), 1e-9)
}

func TestPort_ArrivalsWithinOneJump_QueueByActualArrival(t *testing.T) {
	// GIVEN three bulk ships, the later-scheduled one arriving first, and a busy crane
	cfg := testConfig(
		ShipPlan{"Blocker", CargoBulk, 0, 1000},
		ShipPlan{"Late", CargoBulk, 40, 10},
		ShipPlan{"Early", CargoBulk, 20, 10},
	)
	p := newTestPort(t, cfg)

	// WHEN both arrive inside a single jump
	advance(t, p, 50)

	// THEN the queue holds them in actual-arrival order
	assert.Equal(t, "[Early Late]", p.queues[CargoBulk].String())
}

func TestPort_NonPositiveDelta_IsNoOp(t *testing.T) {
	p := newTestPort(t, testConfig(
		ShipPlan{"A", CargoBulk, 0, 100},
		ShipPlan{"B", CargoBulk, 0, 100},
	))
	before := p.Snapshot()

	for _, delta := range []int64{0, -1, -100} {
		require.NoError(t, p.Advance(delta))
	}

	assert.Equal(t, before, p.Snapshot())
}

func TestPort_Reset_SettlesMinuteZero(t *testing.T) {
	// GIVEN two bulk ships at 0 sharing one crane and one ship due later
	p := newTestPort(t, testConfig(
		ShipPlan{"First", CargoBulk, 0, 40},
		ShipPlan{"Second", CargoBulk, 0, 10},
		ShipPlan{"Later", CargoBulk, 5, 10},
	))

	// THEN right after Reset the first ship is berthed, the second is queued,
	// the later one is still at sea, and no fine has accrued
	st := p.Snapshot()
	assert.Equal(t, int64(0), st.Now)
	assert.Equal(t, 0.0, st.Fine)
	first := shipView(t, st, "First")
	assert.True(t, first.Unloading)
	require.NotNil(t, first.StartUnload)
	assert.Equal(t, int64(0), *first.StartUnload)
	assert.Equal(t, int64(40), *first.Finish)
	assert.True(t, shipView(t, st, "Second").InQueue)
	later := shipView(t, st, "Later")
	assert.False(t, later.InQueue || later.Unloading || later.Finished)
}

func TestPort_Advance_RejectsClockOverflow(t *testing.T) {
	// GIVEN two bulk ships sharing one crane
	p := newTestPort(t, testConfig(
		ShipPlan{"A", CargoBulk, 0, 100},
		ShipPlan{"B", CargoBulk, 0, 100},
	))
	before := p.Snapshot()

	// WHEN asked to jump by the largest int64
	err := p.Advance(math.MaxInt64)

	// THEN the jump is refused and nothing moved
	assert.ErrorIs(t, err, ErrClockOverflow)
	assert.Equal(t, before, p.Snapshot())

	// WHEN the clock is carried exactly to MaxClock
	advance(t, p, MaxClock)

	// THEN A finished, B berthed with a finish time past MaxClock, and the clock is pinned
	st := p.Snapshot()
	assert.Equal(t, MaxClock, st.Now)
	assert.True(t, shipView(t, st, "A").Finished)
	b := shipView(t, st, "B")
	assert.True(t, b.Unloading)
	require.NotNil(t, b.Finish)
	assert.Equal(t, MaxClock+100, *b.Finish)
	assert.ErrorIs(t, p.Advance(1), ErrClockOverflow)
	assert.Equal(t, MaxClock, p.Now())
}

func TestPort_Configure_RejectsOverflowingSchedule(t *testing.T) {
	tests := []struct {
		name string
		plan ShipPlan
		rate float64
	}{
		{"arrival at the far end of int64", ShipPlan{"Far", CargoBulk, math.MaxInt64 - 10, 1}, 1},
		{"arrival far in the past", ShipPlan{"Past", CargoBulk, math.MinInt64, 1}, 1},
		{"weight times rate beyond int64", ShipPlan{"Heavy", CargoBulk, 0, 1 << 50}, 8192},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(tt.plan)
			cfg.RateBulk = tt.rate

			err := NewPort().Configure(cfg)

			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr), "want *ConfigError, got %v", err)
			assert.Equal(t, "schedule[0]", cfgErr.Field)
		})
	}
}

func TestPort_NotConfigured(t *testing.T) {
	// GIVEN a fresh port
	p := NewPort()

	// WHEN reset or advanced
	resetErr := p.Reset()
	advanceErr := p.Advance(10)

	// THEN both report ErrNotConfigured and nothing moves
	assert.ErrorIs(t, resetErr, ErrNotConfigured)
	assert.ErrorIs(t, advanceErr, ErrNotConfigured)
	st := p.Snapshot()
	assert.False(t, st.Configured)
	assert.Equal(t, int64(0), st.Now)
	assert.Empty(t, st.Ships)
	assert.Empty(t, st.Cranes)
	assert.NotNil(t, st.Ships, "ships must serialize as an empty list")
}

func TestPort_Configure_InvalidKeepsPreviousState(t *testing.T) {
	// GIVEN a configured port that has advanced
	p := newTestPort(t, testConfig(ShipPlan{"A", CargoBulk, 0, 100}))
	advance(t, p, 20)
	before := p.Snapshot()
	beforeCfg, _ := p.Config()

	// WHEN an invalid configuration is installed
	bad := testConfig()
	bad.CranesLiquid = -1
	err := p.Configure(bad)

	// THEN a ConfigError is returned and nothing changed
	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "cranesLiquid", cfgErr.Field)
	assert.Equal(t, before, p.Snapshot())
	afterCfg, _ := p.Config()
	assert.Equal(t, beforeCfg, afterCfg)

	advance(t, p, 100)
	assert.True(t, p.Done())
}

func TestPort_Configure_NormalizesInvertedJitter(t *testing.T) {
	cfg := testConfig()
	cfg.ArrivalJitterMin, cfg.ArrivalJitterMax = 10, -10
	cfg.UnloadExtraMin, cfg.UnloadExtraMax = 30, 5

	p := NewPort()
	require.NoError(t, p.Configure(cfg))

	got, ok := p.Config()
	require.True(t, ok)
	assert.Equal(t, int64(-10), got.ArrivalJitterMin)
	assert.Equal(t, int64(10), got.ArrivalJitterMax)
	assert.Equal(t, int64(5), got.UnloadExtraMin)
	assert.Equal(t, int64(30), got.UnloadExtraMax)
}

func TestPort_Configure_CopiesSchedule(t *testing.T) {
	// GIVEN a config whose schedule slice the caller later mutates
	cfg := testConfig(ShipPlan{"A", CargoBulk, 0, 100})
	p := NewPort()
	require.NoError(t, p.Configure(cfg))

	cfg.Schedule[0].Name = "Mutated"

	// THEN the installed configuration is unaffected
	require.NoError(t, p.Reset())
	assert.Equal(t, "A", p.Snapshot().Ships[0].Name)
}

func TestPort_Recorder_ReceivesLifecycleInOrder(t *testing.T) {
	// GIVEN a port with a mock recorder attached
	ctrl := gomock.NewController(t)
	rec := NewMockRecorder(ctrl)

	p := NewPort()
	p.SetRecorder(rec)
	require.NoError(t, p.Configure(testConfig(ShipPlan{"Aurora", CargoBulk, 0, 100})))

	gomock.InOrder(
		rec.EXPECT().RecordArrival(trace.ArrivalRecord{
			Ship: "Aurora", Cargo: "BULK", Clock: 0, PlannedTime: 0, ActualArrival: 0,
		}),
		rec.EXPECT().RecordBerth(trace.BerthRecord{
			Ship: "Aurora", Cargo: "BULK", Crane: 0, Clock: 0, Finish: 100, Wait: 0,
		}),
		rec.EXPECT().RecordDeparture(trace.DepartureRecord{
			Ship: "Aurora", Cargo: "BULK", Clock: 110, Finish: 100, Turnaround: 100,
		}),
	)

	// WHEN the ship is run through its whole lifecycle
	require.NoError(t, p.Reset())
	advance(t, p, 50)
	advance(t, p, 60)
}

func TestPort_Recorder_NilIsSkipped(t *testing.T) {
	p := NewPort()
	p.SetRecorder(trace.Multi(nil, nil))
	require.NoError(t, p.Configure(testConfig(ShipPlan{"A", CargoBulk, 0, 1})))
	require.NoError(t, p.Reset())
	assert.NotPanics(t, func() { advance(t, p, 5) })
}
