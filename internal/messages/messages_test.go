package messages_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"prospect/internal/messages"
)

const sampleCSV = `Notes:
"Messages exported from your account."

CONVERSATION ID,CONVERSATION TITLE,FROM,SENDER PROFILE URL,TO,RECIPIENT PROFILE URLS,DATE,SUBJECT,CONTENT,FOLDER
conv-1,,Ada Lovelace,https://example.com/in/ada,Me Myself,https://example.com/in/me,2026-07-02 09:15:00 UTC,,Thanks for reaching out!,INBOX
conv-1,,Me Myself,https://example.com/in/me,Ada Lovelace,https://example.com/in/ada,2026-07-01 18:30:00 UTC,,Hi Ada - loved your talk.,INBOX
conv-2,,Brook Taylor,https://example.com/in/brook,Me Myself,https://example.com/in/me,2026-06-20 11:00:00 UTC,Intro,Shall we sync next week?,INBOX
conv-3,,Me Myself,https://example.com/in/me,Ada Lovelace,https://example.com/in/ada,not a date,,Undated follow-up,INBOX
`

func TestParseMessages(t *testing.T) {
	msgs, err := messages.Parse(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, msgs, 4)

	require.Equal(t, "Ada Lovelace", msgs[0].From)
	require.Equal(t, "Me Myself", msgs[0].To)
	require.Equal(t, "Thanks for reaching out!", msgs[0].Content)
	require.False(t, msgs[0].Date.IsZero())

	// unparseable timestamps keep their raw form and a zero Date
	require.True(t, msgs[3].Date.IsZero())
	require.Equal(t, "not a date", msgs[3].RawDate)
}

func TestParseMessagesNoHeader(t *testing.T) {
	_, err := messages.Parse(strings.NewReader("just,some,cells\n"))
	require.Error(t, err)
}

func TestHistoryFiltersAndSortsNewestFirst(t *testing.T) {
	msgs, err := messages.Parse(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	hist := messages.History(msgs, "Ada Lovelace", 0)
	require.Len(t, hist, 3)
	require.Equal(t, "Thanks for reaching out!", hist[0].Content)
	require.Equal(t, "Hi Ada - loved your talk.", hist[1].Content)
	// undated rows sort after every dated one
	require.Equal(t, "Undated follow-up", hist[2].Content)

	require.True(t, hist[0].Incoming("Ada Lovelace"))
	require.False(t, hist[1].Incoming("Ada Lovelace"))
}

func TestHistoryLimit(t *testing.T) {
	msgs, err := messages.Parse(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, messages.History(msgs, "Ada Lovelace", 1), 1)
	require.Empty(t, messages.History(msgs, "No Such Person", 0))
}
