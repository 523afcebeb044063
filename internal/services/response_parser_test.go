package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// providerJSON builds a minimal well-formed provider payload for n days.
func providerJSON(n int) string {
	var b strings.Builder
	b.WriteString(`{"days":[`)
	for day := 1; day <= n; day++ {
		if day > 1 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, `{"day":%d,"activities":[`, day)
		fmt.Fprintf(&b, `{"time":"09:00","title":"Morning walk %d","description":"Stroll","location":{"name":"Old Town","address":"1 Main St","lat":48.85,"lng":2.35},"duration_minutes":90,"cost":10,"category":"sightseeing","notes":""},`, day)
		fmt.Fprintf(&b, `{"time":"14:00","title":"Museum visit %d","description":"Exhibits","location":{"name":"Museum","address":"2 Main St","lat":48.86,"lng":2.34},"duration_minutes":120,"cost":18,"category":"culture","notes":""}`, day)
		b.WriteString(`]}`)
	}
	b.WriteString(`]}`)
	return b.String()
}

var parserStart = time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

func TestParseDaysValid(t *testing.T) {
	parser := NewResponseParserService()

	days, err := parser.ParseDays(providerJSON(3), 3, parserStart)
	require.NoError(t, err)
	require.Len(t, days, 3)

	assert.Equal(t, "2026-09-01", days[0].Date)
	assert.Equal(t, "2026-09-03", days[2].Date)
	require.Len(t, days[0].Activities, 2)
	assert.Equal(t, "Morning walk 1", days[0].Activities[0].Title)
	assert.InDelta(t, 48.85, days[0].Activities[0].Location.Coordinates.Lat, 0.001)
	assert.False(t, days[0].Activities[0].FallbackGenerated)
}

func TestParseDaysStripsMarkdownFences(t *testing.T) {
	parser := NewResponseParserService()

	wrapped := "```json\n" + providerJSON(2) + "\n```"
	days, err := parser.ParseDays(wrapped, 2, parserStart)
	require.NoError(t, err)
	assert.Len(t, days, 2)
}

func TestParseDaysStripsProsePreamble(t *testing.T) {
	parser := NewResponseParserService()

	wrapped := "Here is the itinerary:\n" + providerJSON(2) + "\nEnjoy your trip!"
	days, err := parser.ParseDays(wrapped, 2, parserStart)
	require.NoError(t, err)
	assert.Len(t, days, 2)
}

func TestParseDaysErrors(t *testing.T) {
	parser := NewResponseParserService()

	cases := []struct {
		name    string
		content string
		days    int
		wantErr string
	}{
		{"empty content", "", 2, "empty response"},
		{"no json object", "sorry, I cannot help with that", 2, "empty response"},
		{"truncated json", providerJSON(2)[:40], 2, "empty response"},
		{"day count mismatch", providerJSON(2), 3, "expected 3 days"},
		{"wrong day numbering", `{"days":[{"day":2,"activities":[{"time":"09:00","title":"X"}]}]}`, 1, "incorrect day number"},
		{"empty activities", `{"days":[{"day":1,"activities":[]}]}`, 1, "no activities"},
		{"blank title", `{"days":[{"day":1,"activities":[{"time":"09:00","title":"  "}]}]}`, 1, "title cannot be empty"},
		{"bad time", `{"days":[{"day":1,"activities":[{"time":"9am","title":"X"}]}]}`, 1, "invalid time format"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parser.ParseDays(tc.content, tc.days, parserStart)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestCleanJSONResponseBraceMatching(t *testing.T) {
	// Braces inside string literals must not confuse extraction.
	content := `noise {"days":[{"day":1,"activities":[{"time":"10:30","title":"See \"{art}\" exhibit"}]}]} trailing`
	parser := NewResponseParserService()

	days, err := parser.ParseDays(content, 1, parserStart)
	require.NoError(t, err)
	assert.Equal(t, `See "{art}" exhibit`, days[0].Activities[0].Title)
}
