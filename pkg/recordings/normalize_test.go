package recordings

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recallhq/recall-cli/pkg/logging"
)

func TestDecodeItems_StructuredArrayPassesThrough(t *testing.T) {
	raw := json.RawMessage(`[{"item_text":"Follow up with finance"},{"item_text":"Ship the report"}]`)

	items, err := decodeItems[ActionPoint](raw)

	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Follow up with finance", items[0].ItemText)
}

func TestDecodeItems_EncodedStringIsDecoded(t *testing.T) {
	inner := `[{"item_text":"Pricing","description":"Q3 pricing changes"}]`
	raw, err := json.Marshal(inner) // double-encoded, as stored by the service
	require.NoError(t, err)

	items, err := decodeItems[Topic](raw)

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Pricing", items[0].ItemText)
	assert.Equal(t, "Q3 pricing changes", items[0].Description)
}

func TestDecodeItems_AbsentValues(t *testing.T) {
	for _, raw := range []json.RawMessage{nil, {}, json.RawMessage("null"), json.RawMessage(`""`)} {
		items, err := decodeItems[KeyTakeaway](raw)
		require.NoError(t, err)
		assert.Empty(t, items)
	}
}

func TestDecodeItems_MalformedEncodingFails(t *testing.T) {
	cases := map[string]json.RawMessage{
		"truncated array":       json.RawMessage(`[{"item_text":"x"`),
		"string of garbage":     json.RawMessage(`"{not json at all"`),
		"unexpected shape":      json.RawMessage(`42`),
		"object instead of arr": json.RawMessage(`{"item_text":"x"}`),
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := decodeItems[ActionPoint](raw)
			assert.Error(t, err)
		})
	}
}

func TestNormalizeDetail_CorruptFieldDegradesAlone(t *testing.T) {
	raw := RawDetail{
		EventID: "ev-1",
		Subject: "Quarterly review",
		Summary: "Discussed results.",

		ActionPoints: json.RawMessage(`[{"item_text":"Send minutes"}]`),
		Topics:       json.RawMessage(`"{{{{ definitely not json"`),
		KeyTakeaways: json.RawMessage(`"[{\"item_text\":\"Revenue up\"}]"`),
		Questions:    json.RawMessage(`[{"item_text":"What changed in Q3?"}]`),
		Participants: json.RawMessage(`[{"name":"Dana","image":"https://cdn.example.com/dana.png"},{"name":"Lee"}]`),
	}

	detail := NormalizeDetail(raw, logging.NewNopLogger())

	assert.Equal(t, "ev-1", detail.EventID)
	require.Len(t, detail.ActionPoints, 1)
	assert.Empty(t, detail.Topics, "corrupt topics must degrade to empty")
	require.Len(t, detail.KeyTakeaways, 1)
	assert.Equal(t, "Revenue up", detail.KeyTakeaways[0].ItemText)
	require.Len(t, detail.Questions, 1)
	require.Len(t, detail.Participants, 2)
	assert.Equal(t, "Dana", detail.Participants[0].Name)
}

func TestNormalizeDetail_NeverReturnsNilLists(t *testing.T) {
	detail := NormalizeDetail(RawDetail{EventID: "ev-1"}, nil)

	assert.NotNil(t, detail.ActionPoints)
	assert.NotNil(t, detail.Topics)
	assert.NotNil(t, detail.KeyTakeaways)
	assert.NotNil(t, detail.Questions)
	assert.NotNil(t, detail.Participants)
}

func TestNormalizeDetail_Idempotent(t *testing.T) {
	raw := RawDetail{
		EventID:      "ev-1",
		ActionPoints: json.RawMessage(`"[{\"item_text\":\"One\"}]"`),
		Participants: json.RawMessage(`[{"name":"Dana"}]`),
	}

	once := NormalizeDetail(raw, logging.NewNopLogger())

	// Re-encode the normalized output as a structured field and run it
	// through again: the result must be identical.
	points, err := json.Marshal(once.ActionPoints)
	require.NoError(t, err)
	people, err := json.Marshal(once.Participants)
	require.NoError(t, err)

	twice := NormalizeDetail(RawDetail{
		EventID:      "ev-1",
		ActionPoints: points,
		Participants: people,
	}, logging.NewNopLogger())

	assert.Equal(t, once.ActionPoints, twice.ActionPoints)
	assert.Equal(t, once.Participants, twice.Participants)
}
