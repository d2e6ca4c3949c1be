package httpx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nakamo312/BugBountyMCP-sub001/internal/toolrunner"
)

func TestParseLine_FullProbeLine(t *testing.T) {
	rec, ok := New().ParseLine(`{"url":"https://app.example.com","host":"app.example.com","port":"443","scheme":"https","status_code":200,"tech":["Nginx","PHP"],"path":"/login"}`)
	require.True(t, ok)

	ep, isEndpoint := rec.(toolrunner.EndpointRecord)
	require.True(t, isEndpoint)
	assert.Equal(t, "app.example.com", ep.Hostname)
	assert.Equal(t, 443, ep.Port)
	assert.Equal(t, "/login", ep.Path)
	require.NotNil(t, ep.StatusCode)
	assert.Equal(t, 200, *ep.StatusCode)
}

func TestParseLine_DerivesPortFromScheme(t *testing.T) {
	rec, ok := New().ParseLine(`{"host":"app.example.com","scheme":"https","status_code":301}`)
	require.True(t, ok)
	ep := rec.(toolrunner.EndpointRecord)
	assert.Equal(t, 443, ep.Port)
	assert.Equal(t, "/", ep.Path, "a probe without an explicit path is the root endpoint")
}

func TestParseLine_TechListBecomesMap(t *testing.T) {
	rec, ok := New().ParseLine(`{"host":"app.example.com","port":"8080","tech":["Tomcat"]}`)
	require.True(t, ok)

	frag, hasAsset := rec.AsAsset()
	require.True(t, hasAsset)
	assert.Equal(t, true, frag.Technologies["Tomcat"])
}

func TestParseLine_MissingHostIsSkip(t *testing.T) {
	_, ok := New().ParseLine(`{"url":"https://nowhere"}`)
	assert.False(t, ok)
}
