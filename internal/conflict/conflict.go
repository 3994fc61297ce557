package conflict

import "time"

// TimestampField is the reserved patch key carrying the client edit time.
// It is never applied to an entity and never tracked in a Clock.
const TimestampField = "updated_at"

// Clock records, per field, when the field was last written. Entities embed
// one and persist it alongside their data so offline or out-of-order edits
// can be ranked against what is already stored.
type Clock map[string]time.Time

// NewClock seeds a clock for the given fields at the creation instant.
func NewClock(at time.Time, fields ...string) Clock {
	c := make(Clock, len(fields))
	for _, f := range fields {
		c[f] = at
	}
	return c
}

// Clone returns an independent copy of the clock.
func (c Clock) Clone() Clock {
	out := make(Clock, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Patch is a partial field update keyed by field name.
type Patch map[string]any

// Resolve decides, field by field, which entries of patch are newer than the
// clock and may be applied. A field is accepted only when at is strictly
// after the field's recorded write time; accepted fields have their clock
// entry advanced to at. The returned patch contains exactly the accepted
// fields. changed is false when every field was stale, in which case the
// clock is left untouched and callers should skip persisting.
//
// Each field is ranked independently: a patch that mixes fresh and stale
// fields applies the fresh ones and drops the rest.
func Resolve(clock Clock, patch Patch, at time.Time) (accepted Patch, changed bool) {
	accepted = make(Patch, len(patch))
	for field, value := range patch {
		if field == TimestampField {
			continue
		}
		if !at.After(clock[field]) {
			continue
		}
		accepted[field] = value
		clock[field] = at
	}
	return accepted, len(accepted) > 0
}
