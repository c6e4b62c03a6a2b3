package recordings

import (
	"sort"
	"time"
)

// Timestamp layouts accepted for a meeting's date + start time composite.
var compositeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// compositeTime parses a meeting's date and start time into a single
// timestamp. The second return value is false when the composite cannot be
// parsed; such meetings sort after every parseable one rather than being
// dropped.
func compositeTime(m Meeting) (time.Time, bool) {
	raw := m.Date
	if m.StartTime != "" {
		raw = m.Date + "T" + m.StartTime
	}
	for _, layout := range compositeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// MergeAndSort flattens every meeting from both category collections into a
// single slice ordered by date + start time, most recent first. The sort is
// stable: meetings with equal (or equally unparseable) timestamps keep their
// original relative order. No deduplication happens here; if the same event
// ID appears in both inputs the union contains it twice (see DedupByEventID).
func MergeAndSort(categorized, uncategorized []Category) []Meeting {
	type keyed struct {
		meeting Meeting
		at      time.Time
		ok      bool
	}

	var flat []keyed
	appendAll := func(categories []Category) {
		for _, c := range categories {
			for _, m := range c.Meetings {
				at, ok := compositeTime(m)
				flat = append(flat, keyed{meeting: m, at: at, ok: ok})
			}
		}
	}
	appendAll(categorized)
	appendAll(uncategorized)

	sort.SliceStable(flat, func(i, j int) bool {
		a, b := flat[i], flat[j]
		switch {
		case a.ok && b.ok:
			return a.at.After(b.at)
		case a.ok:
			return true // parseable timestamps precede unparseable ones
		default:
			return false
		}
	})

	merged := make([]Meeting, len(flat))
	for i, k := range flat {
		merged[i] = k.meeting
	}
	return merged
}

// DedupByEventID collapses duplicate meetings sharing an event ID, keeping
// the first (highest-sorted) occurrence. Meetings with an empty event ID are
// passed through untouched since they cannot be keyed.
func DedupByEventID(meetings []Meeting) []Meeting {
	if len(meetings) == 0 {
		return []Meeting{}
	}
	seen := make(map[string]struct{}, len(meetings))
	out := make([]Meeting, 0, len(meetings))
	for _, m := range meetings {
		if m.EventID != "" {
			if _, dup := seen[m.EventID]; dup {
				continue
			}
			seen[m.EventID] = struct{}{}
		}
		out = append(out, m)
	}
	return out
}

// Recent returns the first n meetings of an already-sorted slice.
func Recent(meetings []Meeting, n int) []Meeting {
	if n < 0 {
		n = 0
	}
	if len(meetings) <= n {
		return meetings
	}
	return meetings[:n]
}
