package conflict

import (
	"testing"
	"time"
)

func ts(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}

func TestResolve_StalePatchIsDropped(t *testing.T) {
	t.Parallel()

	clock := NewClock(ts(100), "name", "price")
	accepted, changed := Resolve(clock, Patch{"name": "ladder"}, ts(50))

	if changed {
		t.Fatalf("expected stale patch to be rejected")
	}
	if len(accepted) != 0 {
		t.Fatalf("expected empty accepted patch, got %v", accepted)
	}
	if !clock["name"].Equal(ts(100)) {
		t.Fatalf("clock must not advance on stale patch, got %v", clock["name"])
	}
}

func TestResolve_FreshPatchAppliesAndAdvancesClock(t *testing.T) {
	t.Parallel()

	clock := NewClock(ts(100), "name", "price")
	accepted, changed := Resolve(clock, Patch{"name": "ladder"}, ts(150))

	if !changed {
		t.Fatalf("expected fresh patch to be accepted")
	}
	if accepted["name"] != "ladder" {
		t.Fatalf("accepted patch missing field, got %v", accepted)
	}
	if !clock["name"].Equal(ts(150)) {
		t.Fatalf("clock entry not advanced, got %v", clock["name"])
	}
	if !clock["price"].Equal(ts(100)) {
		t.Fatalf("untouched field clock must not move, got %v", clock["price"])
	}
}

func TestResolve_EqualTimestampIsStale(t *testing.T) {
	t.Parallel()

	clock := NewClock(ts(100), "name")
	if _, changed := Resolve(clock, Patch{"name": "x"}, ts(100)); changed {
		t.Fatalf("timestamp equal to the recorded one must not win")
	}
}

func TestResolve_MixedFreshnessAppliesPerField(t *testing.T) {
	t.Parallel()

	clock := Clock{"name": ts(100), "price": ts(200)}
	accepted, changed := Resolve(clock, Patch{"name": "drill", "price": 9.5}, ts(150))

	if !changed {
		t.Fatalf("expected partially fresh patch to be accepted")
	}
	if _, ok := accepted["price"]; ok {
		t.Fatalf("stale field must be dropped, got %v", accepted)
	}
	if accepted["name"] != "drill" {
		t.Fatalf("fresh field must be applied, got %v", accepted)
	}
	if !clock["price"].Equal(ts(200)) {
		t.Fatalf("stale field clock must not move")
	}
}

func TestResolve_ReservedTimestampFieldIsIgnored(t *testing.T) {
	t.Parallel()

	clock := NewClock(ts(0), "name")
	accepted, _ := Resolve(clock, Patch{TimestampField: ts(500), "name": "n"}, ts(10))

	if _, ok := accepted[TimestampField]; ok {
		t.Fatalf("reserved field must never be applied")
	}
	if _, ok := clock[TimestampField]; ok {
		t.Fatalf("reserved field must never be tracked")
	}
}

func TestResolve_LaterEditWinsRegardlessOfArrivalOrder(t *testing.T) {
	t.Parallel()

	// Two devices edit the same field; the 10:00 edit reaches the server
	// before the 09:55 one.
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	clock := NewClock(base, "description")

	value := ""
	apply := func(p Patch) {
		if v, ok := p["description"].(string); ok {
			value = v
		}
	}

	first, _ := Resolve(clock, Patch{"description": "ten"}, base.Add(60*time.Minute))
	apply(first)
	second, changed := Resolve(clock, Patch{"description": "nine fifty-five"}, base.Add(55*time.Minute))
	apply(second)

	if changed {
		t.Fatalf("older edit must lose after a newer one was applied")
	}
	if value != "ten" {
		t.Fatalf("expected the 10:00 value to survive, got %q", value)
	}
}
