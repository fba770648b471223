package scheduling

import "github.com/noah-isme/routine-api/internal/models"

type slotKey struct {
	day   models.DayOfWeek
	start string
}

// Index answers which sessions occupy a (day, start) cell. Slots are matched
// on the exact start boundary; the catalog is non-overlapping so this is
// equivalent to interval overlap.
type Index struct {
	bySlot map[slotKey][]Session
}

// NewIndex builds an index over schedule, leaving out sessions whose id
// matches any non-empty excluded id.
func NewIndex(schedule []Session, excludeIDs ...string) *Index {
	skip := make(map[string]struct{}, len(excludeIDs))
	for _, id := range excludeIDs {
		if id != "" {
			skip[id] = struct{}{}
		}
	}
	ix := &Index{bySlot: make(map[slotKey][]Session)}
	for _, s := range schedule {
		if isNil(s) {
			continue
		}
		base := s.Base()
		if _, excluded := skip[base.ID]; excluded {
			continue
		}
		key := slotKey{day: base.Day, start: base.Start}
		ix.bySlot[key] = append(ix.bySlot[key], s)
	}
	return ix
}

// At returns the sessions occupying day at start, in schedule order.
func (ix *Index) At(day models.DayOfWeek, start string) []Session {
	if ix == nil {
		return nil
	}
	return ix.bySlot[slotKey{day: day, start: start}]
}

// SessionsAt scans schedule once for a single cell.
func SessionsAt(schedule []Session, day models.DayOfWeek, start string) []Session {
	return NewIndex(schedule).At(day, start)
}
