package recordings

import "time"

// DisplayDateFormat is the human-readable date layout used for bucket
// labels and list rendering.
const DisplayDateFormat = "Jan 02, 2006"

// dateLayout is the wire layout of a meeting's calendar date.
const dateLayout = "2006-01-02"

// unknownDateBucket labels meetings whose calendar date cannot be parsed.
// Such meetings still appear in the output; they are never silently dropped.
const unknownDateBucket = "Unknown date"

// bucketKey derives the display group label for a meeting date relative to now.
func bucketKey(date string, now time.Time) string {
	d, err := time.Parse(dateLayout, date)
	if err != nil {
		return unknownDateBucket
	}

	ny, nm, nd := now.Date()
	my, mm, md := d.Date()

	switch {
	case ny == my && nm == mm && nd == md:
		return "Today"
	case ny == my && nm == mm:
		// Every distinct day in the current month gets its own bucket;
		// the label carries the meeting's date, not today's.
		return "This Month - " + d.Format(DisplayDateFormat)
	default:
		return d.Format(DisplayDateFormat)
	}
}

// BucketByDate partitions an already-time-sorted meeting slice into named
// display groups: "Today", "This Month - <date>", or the formatted date.
// Groups are emitted in first-seen order and meetings keep their input order
// within each group; this function never re-sorts.
func BucketByDate(meetings []Meeting, now time.Time) []GroupedMeeting {
	groups := []GroupedMeeting{}
	index := make(map[string]int)

	for _, m := range meetings {
		key := bucketKey(m.Date, now)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, GroupedMeeting{Date: key})
		}
		groups[i].Meetings = append(groups[i].Meetings, m)
	}

	return groups
}
