package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/recallhq/recall-cli/pkg/recordings"
)

func TestRenderDetailText_FullDetail(t *testing.T) {
	var buf bytes.Buffer
	detail := recordings.RecordingDetail{
		EventID:   "ev-1",
		Subject:   "Planning Session",
		Date:      "2026-08-10",
		StartTime: "09:00:00",
		EndTime:   "10:00:00",
		Summary:   "We planned the quarter.",
		ActionPoints: []recordings.ActionPoint{
			{ItemText: "Ship the beta"},
		},
		Topics: []recordings.Topic{
			{ItemText: "Roadmap", Description: "Q4 priorities"},
		},
		KeyTakeaways: []recordings.KeyTakeaway{
			{ItemText: "Beta ships in October"},
		},
		Questions: []recordings.SuggestedMessage{
			{ItemText: "Who owns the launch checklist?"},
		},
		Participants: []recordings.Participant{
			{Name: "Dana"},
			{Name: "Sam"},
		},
	}

	renderDetailText(&buf, detail)
	out := buf.String()

	assert.Contains(t, out, "Planning Session")
	assert.Contains(t, out, "Aug 10, 2026 09:00:00 - 10:00:00")
	assert.Contains(t, out, "We planned the quarter.")
	assert.Contains(t, out, "- Ship the beta")
	assert.Contains(t, out, "- Roadmap: Q4 priorities")
	assert.Contains(t, out, "- Beta ships in October")
	assert.Contains(t, out, "- Who owns the launch checklist?")
	assert.Contains(t, out, "- Dana")
	assert.Contains(t, out, "- Sam")
	assert.NotContains(t, out, "No participants")
}

func TestRenderDetailText_EmptyParticipantsShowsPlaceholder(t *testing.T) {
	var buf bytes.Buffer
	detail := recordings.RecordingDetail{
		EventID:      "ev-1",
		Subject:      "Solo Recording",
		Participants: []recordings.Participant{},
	}

	renderDetailText(&buf, detail)

	assert.Contains(t, buf.String(), "No participants")
}

func TestRenderDetailText_ErrorMessageShown(t *testing.T) {
	var buf bytes.Buffer
	detail := recordings.RecordingDetail{
		EventID:      "ev-1",
		Subject:      "Broken Recording",
		ErrorMessage: "transcription failed",
	}

	renderDetailText(&buf, detail)

	assert.Contains(t, buf.String(), "Processing error: transcription failed")
}

func TestRenderDetailText_EmptySectionsOmitted(t *testing.T) {
	var buf bytes.Buffer
	detail := recordings.RecordingDetail{EventID: "ev-1", Subject: "Sparse"}

	renderDetailText(&buf, detail)
	out := buf.String()

	assert.NotContains(t, out, "Action Points")
	assert.NotContains(t, out, "Topics")
	assert.NotContains(t, out, "Key Takeaways")
	assert.NotContains(t, out, "Suggested Questions")
	assert.Contains(t, out, "Participants", "participants section always renders")
}

func TestFormatDetailWhen(t *testing.T) {
	d := recordings.RecordingDetail{Date: "2026-08-10", StartTime: "09:00:00", EndTime: "10:00:00"}
	assert.Equal(t, "Aug 10, 2026 09:00:00 - 10:00:00", formatDetailWhen(d))

	d = recordings.RecordingDetail{Date: "2026-08-10"}
	assert.Equal(t, "Aug 10, 2026", formatDetailWhen(d))

	d = recordings.RecordingDetail{}
	assert.Equal(t, "unknown", formatDetailWhen(d))
}
