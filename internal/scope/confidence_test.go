package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore_DomainRuleAloneReachesThreshold(t *testing.T) {
	result := Score("example.com", Signals{SignalDomainRule: true})
	assert.Equal(t, 1.0, result.Score)
	assert.True(t, result.IsInScope)
	assert.True(t, IsConfident(result, DefaultConfidenceThreshold))
}

func TestScore_ClampsAtOne(t *testing.T) {
	signals := Signals{
		SignalDomainRule: true,
		SignalSANCert:    true,
		SignalPTR:        true,
	}
	result := Score("example.com", signals)
	assert.Equal(t, 1.0, result.Score)
}

func TestScore_WeakSignalsStayUnderThreshold(t *testing.T) {
	result := Score("example.com", Signals{SignalCDNEdge: true})
	assert.InDelta(t, 0.2, result.Score, 0.0001)
	assert.False(t, result.IsInScope, "a non-domain-rule signal never sets IsInScope")
	assert.False(t, IsConfident(result, DefaultConfidenceThreshold))
}

func TestScore_CombinedSignalsClampAtOne(t *testing.T) {
	signals := Signals{SignalSANCert: true, SignalPTR: true}
	result := Score("example.com", signals)
	assert.Equal(t, 1.0, result.Score, "0.6+0.5 exceeds 1 and must clamp")
}

func TestScore_IsInScopeRequiresDomainRuleEvenAtHighConfidence(t *testing.T) {
	signals := Signals{SignalSANCert: true, SignalPTR: true, SignalASN: true}
	result := Score("example.com", signals)
	assert.True(t, IsConfident(result, DefaultConfidenceThreshold))
	assert.False(t, result.IsInScope)
}

func TestPartition_SplitsAtThreshold(t *testing.T) {
	results := []ConfidenceResult{
		Score("a.example.com", Signals{SignalDomainRule: true}),
		Score("b.example.com", Signals{SignalCDNEdge: true}),
	}
	confident, uncertain := Partition(results, DefaultConfidenceThreshold)
	assert.Len(t, confident, 1)
	assert.Len(t, uncertain, 1)
	assert.Equal(t, "a.example.com", confident[0].Target)
	assert.Equal(t, "b.example.com", uncertain[0].Target)
}
