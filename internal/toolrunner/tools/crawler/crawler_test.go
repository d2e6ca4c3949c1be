package crawler

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nakamo312/BugBountyMCP-sub001/internal/toolrunner"
)

func TestBuildArgv_EncodesRequestOnStdin(t *testing.T) {
	_, stdin := New().BuildArgv(toolrunner.Params{Target: "https://app.example.com", Extra: map[string]string{"max_depth": "5"}})
	require.NotNil(t, stdin)
	require.Len(t, stdin.Lines, 1)

	var req request
	require.NoError(t, json.Unmarshal([]byte(stdin.Lines[0]), &req))
	assert.Equal(t, "https://app.example.com", req.URL)
	assert.Equal(t, 5, req.MaxDepth)
}

func TestParseLine_DoneSentinelEndsStream(t *testing.T) {
	_, ok := New().ParseLine(`{"done":true}`)
	assert.False(t, ok)
}

func TestParseLine_ErrorResultIsSkip(t *testing.T) {
	_, ok := New().ParseLine(`{"error":{"message":"navigation timeout"}}`)
	assert.False(t, ok)
}

func TestParseLine_RevisitedStateYieldsNoRecord(t *testing.T) {
	tool := New().Session()
	line := `{"request":{"method":"GET","endpoint":"https://app.example.com/dashboard"},"response":{"status_code":200},"normalized_url":"https://app.example.com/dashboard","dom_counts":{"form":1,"a":12}}`

	_, ok := tool.ParseLine(line)
	assert.True(t, ok, "first visit of a state is a record")

	_, ok = tool.ParseLine(line)
	assert.False(t, ok, "an already-explored state is suppressed, not re-emitted")
}

func TestSession_IndependentVisitedSets(t *testing.T) {
	root := New()
	line := `{"request":{"method":"GET","endpoint":"https://app.example.com/"},"normalized_url":"https://app.example.com/"}`

	first := root.Session()
	_, ok := first.ParseLine(line)
	require.True(t, ok)

	second := root.Session()
	_, ok = second.ParseLine(line)
	assert.True(t, ok, "a fresh session must not inherit another scan's visited sets")
}
