package katana

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nakamo312/BugBountyMCP-sub001/internal/asset/model"
	"github.com/Nakamo312/BugBountyMCP-sub001/internal/toolrunner"
)

func TestParseLine_RequestResponsePair(t *testing.T) {
	rec, ok := New().ParseLine(`{"request":{"method":"post","endpoint":"https://app.example.com/api/login"},"response":{"status_code":302}}`)
	require.True(t, ok)

	ep, isEndpoint := rec.(toolrunner.EndpointRecord)
	require.True(t, isEndpoint)
	assert.Equal(t, "https://app.example.com/api/login", ep.Path)
	assert.Equal(t, model.MethodPost, ep.Method, "wire method is upper-cased")
	require.NotNil(t, ep.StatusCode)
	assert.Equal(t, 302, *ep.StatusCode)
}

func TestParseLine_MissingMethodDefaultsToGET(t *testing.T) {
	rec, ok := New().ParseLine(`{"request":{"endpoint":"https://app.example.com/"}}`)
	require.True(t, ok)
	assert.Equal(t, model.MethodGet, rec.(toolrunner.EndpointRecord).Method)
}

func TestParseLine_EmptyEndpointIsSkip(t *testing.T) {
	_, ok := New().ParseLine(`{"request":{"method":"GET"}}`)
	assert.False(t, ok)
}
