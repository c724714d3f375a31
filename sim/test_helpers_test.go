package sim

import "testing"

// testConfig returns a jitter-free configuration with one crane per cargo
// type, unit rates (unload minutes == weight) and a unit fine.
func testConfig(ships ...ShipPlan) Config {
	return Config{
		TotalDuration:   Day,
		Step:            1,
		CranesBulk:      1,
		CranesLiquid:    1,
		CranesContainer: 1,
		RateBulk:        1,
		RateLiquid:      1,
		RateContainer:   1,
		FinePerMinute:   1,
		Seed:            7,
		Schedule:        ships,
	}
}

// newTestPort configures and resets a port, failing the test on error.
func newTestPort(t *testing.T, cfg Config) *Port {
	t.Helper()
	p := NewPort()
	if err := p.Configure(cfg); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	if err := p.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	return p
}

// shipView finds a ship by name in a snapshot.
func shipView(t *testing.T, st State, name string) ShipView {
	t.Helper()
	for _, s := range st.Ships {
		if s.Name == name {
			return s
		}
	}
	t.Fatalf("ship %s not in snapshot", name)
	return ShipView{}
}

func advance(t *testing.T, p *Port, delta int64) {
	t.Helper()
	if err := p.Advance(delta); err != nil {
		t.Fatalf("Advance(%d): %v", delta, err)
	}
}
