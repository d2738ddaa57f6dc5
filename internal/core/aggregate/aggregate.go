// Package aggregate derives the four metric families by replaying a shift's
// ordered event sequence. Every function here is a pure fold: no I/O, no
// retained state, and identical output for identical input, so recomputing a
// report never disagrees with a previous run.
package aggregate

import (
	"encoding/json"
	"errors"
	"fmt"

	"shiftledger.service/internal/core/model"
	"shiftledger.service/internal/core/schema"
)

// IdleThresholdMinutes is the gap length above which a period between sales
// counts as idle. The comparison is strict: a gap of exactly this length is
// not idle.
const IdleThresholdMinutes = 20

// ErrUnknownEventType is returned when a replay encounters an event kind the
// aggregator has no fold for. The schema registry prevents such events from
// being appended, so hitting this means store and aggregator disagree about
// the schema version.
var ErrUnknownEventType = errors.New("aggregate: unknown event type")

// guard verifies every event kind in the sequence is foldable before any
// family-specific pass runs.
func guard(events []model.Event) error {
	for _, e := range events {
		if !schema.Known(e.Type) {
			return fmt.Errorf("%w: %q (event %s)", ErrUnknownEventType, e.Type, e.ID)
		}
	}
	return nil
}

func decodePayload(e model.Event, dst any) error {
	if err := json.Unmarshal(e.Payload, dst); err != nil {
		return fmt.Errorf("aggregate: decode %s payload of event %s: %w", e.Type, e.ID, err)
	}
	return nil
}
