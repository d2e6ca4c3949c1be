package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Nakamo312/BugBountyMCP-sub001/internal/eventbus"
)

func TestExtractTargets_PrefersSubdomainsOverLaterFields(t *testing.T) {
	evt := eventbus.Event{Fields: map[string]any{
		"subdomains": []string{"a.example.com"},
		"urls":       []string{"https://b.example.com"},
	}}
	assert.Equal(t, []string{"a.example.com"}, ExtractTargets(evt))
}

func TestExtractTargets_SkipsEmptyFieldsInPrecedenceOrder(t *testing.T) {
	evt := eventbus.Event{Fields: map[string]any{
		"subdomains": []string{},
		"urls":       []any{"https://b.example.com"},
	}}
	assert.Equal(t, []string{"https://b.example.com"}, ExtractTargets(evt))
}

func TestExtractTargets_FallsBackToSingleTarget(t *testing.T) {
	evt := eventbus.Event{Target: "example.com"}
	assert.Equal(t, []string{"example.com"}, ExtractTargets(evt))
}

func TestExtractTargets_NoFieldsNoTargetReturnsNil(t *testing.T) {
	evt := eventbus.Event{}
	assert.Nil(t, ExtractTargets(evt))
}
