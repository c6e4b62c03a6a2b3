package cmd

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recallhq/recall-cli/config"
	"github.com/recallhq/recall-cli/pkg/logging"
	"github.com/recallhq/recall-cli/pkg/recordings"
)

// fakeLister returns canned collections per query.
type fakeLister struct {
	categorized   []recordings.Category
	uncategorized []recordings.Category
	catErr        error
	uncatErr      error
}

func (f *fakeLister) FetchCategorizedMeetings(ctx context.Context, limit int) ([]recordings.Category, error) {
	return f.categorized, f.catErr
}

func (f *fakeLister) FetchUncategorizedMeetings(ctx context.Context, limit int) ([]recordings.Category, error) {
	return f.uncategorized, f.uncatErr
}

func TestFetchCollections_BothSucceed(t *testing.T) {
	api := &fakeLister{
		categorized:   []recordings.Category{{ID: 1, Name: "Standups"}},
		uncategorized: []recordings.Category{{ID: 0, Name: "Uncategorized"}},
	}

	cat, uncat, err := fetchCollections(context.Background(), api, nil, "user-1", 100, logging.NewNopLogger())

	require.NoError(t, err)
	assert.Len(t, cat, 1)
	assert.Len(t, uncat, 1)
}

func TestFetchCollections_OneFailureGivesPartialResults(t *testing.T) {
	api := &fakeLister{
		categorized: []recordings.Category{{ID: 1, Name: "Standups"}},
		uncatErr:    errors.New("boom"),
	}

	cat, uncat, err := fetchCollections(context.Background(), api, nil, "user-1", 100, logging.NewNopLogger())

	require.NoError(t, err)
	assert.Len(t, cat, 1)
	assert.Empty(t, uncat)
}

func TestFetchCollections_BothFailuresSurface(t *testing.T) {
	api := &fakeLister{
		catErr:   errors.New("boom one"),
		uncatErr: errors.New("boom two"),
	}

	_, _, err := fetchCollections(context.Background(), api, nil, "user-1", 100, logging.NewNopLogger())

	assert.Error(t, err)
}

func TestFormatMeetingLine(t *testing.T) {
	m := recordings.Meeting{
		EventID:   "ev-standup-1",
		Title:     "Daily Standup",
		Date:      "2026-08-10",
		StartTime: "09:00:00",
	}

	line := formatMeetingLine(m)

	assert.Contains(t, line, "ev-standup-1")
	assert.Contains(t, line, "Aug 10, 2026")
	assert.Contains(t, line, "09:00:00")
	assert.Contains(t, line, "Daily Standup")
}

func TestFormatMeetingLine_UnparseableDateShownRaw(t *testing.T) {
	m := recordings.Meeting{EventID: "ev-1", Title: "Odd", Date: "not-a-date"}

	line := formatMeetingLine(m)

	assert.Contains(t, line, "not-a-date")
}

func TestFormatMeetingLine_UntitledPlaceholder(t *testing.T) {
	line := formatMeetingLine(recordings.Meeting{EventID: "ev-1", Date: "2026-08-10"})

	assert.Contains(t, line, "(untitled)")
}

func TestRenderMeetings_TextEmpty(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, renderMeetings(&buf, config.OutputFormatText, nil))

	assert.Contains(t, buf.String(), "No recordings found.")
}

func TestRenderMeetings_JSON(t *testing.T) {
	var buf bytes.Buffer
	meetings := []recordings.Meeting{{EventID: "ev-1", Title: "Standup"}}

	require.NoError(t, renderMeetings(&buf, config.OutputFormatJSON, meetings))

	assert.Contains(t, buf.String(), `"event_id": "ev-1"`)
}

func TestRenderGroups_TextShowsBucketHeaders(t *testing.T) {
	var buf bytes.Buffer
	groups := []recordings.GroupedMeeting{
		{Date: "Today", Meetings: []recordings.Meeting{{EventID: "ev-1", Title: "A", Date: "2026-08-31"}}},
		{Date: "Aug 10, 2026", Meetings: []recordings.Meeting{{EventID: "ev-2", Title: "B", Date: "2026-08-10"}}},
	}

	require.NoError(t, renderGroups(&buf, config.OutputFormatText, groups))

	out := buf.String()
	assert.Contains(t, out, "Today")
	assert.Contains(t, out, "Aug 10, 2026")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("Today")), bytes.Index(buf.Bytes(), []byte("Aug 10, 2026")),
		"bucket order is preserved")
}

func TestResolveOutputFormat(t *testing.T) {
	cfg := config.DefaultConfig()

	format, err := resolveOutputFormat(cfg, "")
	require.NoError(t, err)
	assert.Equal(t, config.OutputFormatText, format)

	format, err = resolveOutputFormat(cfg, "json")
	require.NoError(t, err)
	assert.Equal(t, config.OutputFormatJSON, format)

	_, err = resolveOutputFormat(cfg, "xml")
	assert.Error(t, err)
}
