// Package recordings provides the meeting reconciliation and view-model
// derivation engine: merging remote result sets, date bucketing, and
// defensive normalization of recording detail fields.
package recordings

import "encoding/json"

// Meeting is a single recorded meeting as returned by the remote service.
// EventID is the stable cross-source key: two meetings with the same event
// ID represent the same underlying recording even when they were fetched
// from different collections.
type Meeting struct {
	ID             int64   `json:"id"`
	EventID        string  `json:"event_id"`
	CategoryID     int64   `json:"categoryId"`
	Title          string  `json:"meeting_title"`
	Date           string  `json:"meeting_date"`
	StartTime      string  `json:"meeting_start_time"`
	EndTime        string  `json:"meeting_end_time"`
	JoinURL        string  `json:"meet_url"`
	OrganizerID    int64   `json:"meeting_admin_id"`
	MeetingCode    *string `json:"meeting_code"`
	OrganizerEmail string  `json:"organizer_email"`
	Source         string  `json:"source"`
	BotID          int64   `json:"bot_id"`
}

// Category is a remote grouping of meetings. A category with no meetings
// contributes nothing to the merged output.
type Category struct {
	ID       int64     `json:"id"`
	Name     string    `json:"name"`
	Meetings []Meeting `json:"meetings"`
}

// GroupedMeeting is a date-bucket label with the meetings belonging to it.
// It is derived on every render pass and never persisted.
type GroupedMeeting struct {
	Date     string    `json:"date"`
	Meetings []Meeting `json:"meetings"`
}

// ActionPoint is a single action item extracted from a recording.
type ActionPoint struct {
	ItemText string `json:"item_text"`
}

// Topic is a discussed topic with an optional description.
type Topic struct {
	ItemText    string `json:"item_text"`
	Description string `json:"description"`
}

// KeyTakeaway is a single key takeaway extracted from a recording.
type KeyTakeaway struct {
	ItemText string `json:"item_text"`
}

// SuggestedMessage is a suggested follow-up question for a recording.
type SuggestedMessage struct {
	ItemText string `json:"item_text"`
}

// Participant is a meeting attendee. Name doubles as the identity key
// within one recording's participant list; uniqueness is not enforced
// upstream.
type Participant struct {
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

// RawDetail is a recording row as read back from the local cache. The five
// dynamic fields hold whatever the service stored: either a JSON array of
// items or a JSON string whose contents are the encoded array.
type RawDetail struct {
	EventID      string `json:"event_id"`
	Subject      string `json:"subject"`
	Date         string `json:"meeting_date"`
	StartTime    string `json:"meeting_start_time"`
	EndTime      string `json:"meeting_end_time"`
	IsPublic     bool   `json:"is_public"`
	Summary      string `json:"summary"`
	ErrorMessage string `json:"error_message,omitempty"`

	ActionPoints json.RawMessage `json:"action_points,omitempty"`
	Topics       json.RawMessage `json:"topics,omitempty"`
	KeyTakeaways json.RawMessage `json:"key_takeaways,omitempty"`
	Questions    json.RawMessage `json:"questions,omitempty"`
	Participants json.RawMessage `json:"participants,omitempty"`
}

// RecordingDetail is the fully normalized detail view model. Every dynamic
// field is a well-typed list, possibly empty; raw encoded strings never
// escape the normalizer.
type RecordingDetail struct {
	EventID      string `json:"event_id"`
	Subject      string `json:"subject"`
	Date         string `json:"meeting_date"`
	StartTime    string `json:"meeting_start_time"`
	EndTime      string `json:"meeting_end_time"`
	IsPublic     bool   `json:"is_public"`
	Summary      string `json:"summary"`
	ErrorMessage string `json:"error_message,omitempty"`

	ActionPoints []ActionPoint      `json:"action_points"`
	Topics       []Topic            `json:"topics"`
	KeyTakeaways []KeyTakeaway      `json:"key_takeaways"`
	Questions    []SuggestedMessage `json:"questions"`
	Participants []Participant      `json:"participants"`
}
