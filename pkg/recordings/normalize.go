package recordings

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/recallhq/recall-cli/pkg/logging"
)

// decodeItems resolves a dynamic field into a typed slice. The field may be
// absent, already a JSON array of items, or a JSON string whose contents are
// the encoded array (double-encoded by the service). Any other shape or a
// malformed encoding is an error for the caller to absorb.
func decodeItems[T any](raw json.RawMessage) ([]T, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []T{}, nil
	}

	switch raw[0] {
	case '[':
		var items []T
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, err
		}
		return items, nil
	case '"':
		var encoded string
		if err := json.Unmarshal(raw, &encoded); err != nil {
			return nil, err
		}
		if encoded == "" {
			return []T{}, nil
		}
		var items []T
		if err := json.Unmarshal([]byte(encoded), &items); err != nil {
			return nil, err
		}
		return items, nil
	default:
		return nil, fmt.Errorf("unexpected field shape %q", raw[0])
	}
}

// normalizeField decodes one dynamic field, degrading a malformed encoding
// to "no data" for that field alone. The failure is logged and never
// propagated, so one corrupt field cannot take down the whole detail view.
func normalizeField[T any](raw json.RawMessage, field string, log logging.Logger) []T {
	items, err := decodeItems[T](raw)
	if err != nil {
		log.Warn("decoding recording field failed",
			logging.F("field", field),
			logging.Err(err))
		return []T{}
	}
	if items == nil {
		return []T{}
	}
	return items
}

// NormalizeDetail resolves every dynamic field of a cached recording row
// into a well-typed list. Each field is normalized independently; a decode
// failure in one has no effect on the others. The result is stable under
// re-normalization: feeding back an already-decoded field yields the same
// list.
func NormalizeDetail(raw RawDetail, log logging.Logger) RecordingDetail {
	if log == nil {
		log = logging.NewNopLogger()
	}

	return RecordingDetail{
		EventID:      raw.EventID,
		Subject:      raw.Subject,
		Date:         raw.Date,
		StartTime:    raw.StartTime,
		EndTime:      raw.EndTime,
		IsPublic:     raw.IsPublic,
		Summary:      raw.Summary,
		ErrorMessage: raw.ErrorMessage,

		ActionPoints: normalizeField[ActionPoint](raw.ActionPoints, "action_points", log),
		Topics:       normalizeField[Topic](raw.Topics, "topics", log),
		KeyTakeaways: normalizeField[KeyTakeaway](raw.KeyTakeaways, "key_takeaways", log),
		Questions:    normalizeField[SuggestedMessage](raw.Questions, "questions", log),
		Participants: normalizeField[Participant](raw.Participants, "participants", log),
	}
}
