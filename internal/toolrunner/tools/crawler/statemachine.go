package crawler

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// pageState is everything the bounded-state exploration keys off for one
// page: the normalized URL plus four signals describing what
// the DOM looked like and what the crawler had already done to reach it.
type pageState struct {
	NormalizedURL string
	DOMShape      string // e.g. a count-vector of tag/form/button/link
	CookiesHash   string
	StorageHash   string
	ActionSet     string // sorted, joined cluster keys already executed here
}

// fingerprint is the full five-field tuple identity of a pageState, used
// for the strictest of the three visited sets.
func (s pageState) fingerprint() string {
	return hashAll(s.NormalizedURL, s.DOMShape, s.CookiesHash, s.StorageHash, s.ActionSet)
}

// semanticKey collapses a state to url + structural counts, coarser than
// fingerprint: two pages with the same URL and the same number of forms,
// buttons and links are the same semantic state even if cookies or the
// exact action history differ.
func (s pageState) semanticKey() string {
	return hashAll(s.NormalizedURL, s.DOMShape)
}

// action is one candidate interaction (click, form submit, navigation)
// discovered on a page.
type action struct {
	Tag             string
	SemanticClass   string // e.g. "nav-link", "submit-button", "toggle"
	VisibleText     string
	TargetStateHint string // best-effort predicted destination, used for actionSequenceKey
}

// clusterKey groups actions that are almost certainly equivalent for
// exploration purposes: same semantic class, same tag, and the first
// three alphanumeric words of the visible text. An action whose cluster
// key is already in the current state's executed clusters is skipped.
func (a action) clusterKey() string {
	words := firstAlnumWords(a.VisibleText, 3)
	return a.SemanticClass + "|" + a.Tag + "|" + strings.Join(words, "_")
}

// actionSequenceKey identifies a (state, action) pair for the third
// visited set, which dedups by the sequence of actions taken to reach a
// state rather than the state's content.
func actionSequenceKey(fromState pageState, a action) string {
	return hashAll(fromState.NormalizedURL, a.clusterKey())
}

var alnumWord = regexp.MustCompile(`[A-Za-z0-9]+`)

func firstAlnumWords(text string, n int) []string {
	words := alnumWord.FindAllString(strings.ToLower(text), -1)
	if len(words) > n {
		words = words[:n]
	}
	return words
}

func hashAll(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Limits bounds the exploration so a pathological SPA can't blow up the
// state space.
type Limits struct {
	MaxDepth      int
	MaxPathLength int
}

// DefaultLimits mirrors the crawler's own hard-coded defaults when the
// caller doesn't override them.
var DefaultLimits = Limits{MaxDepth: 10, MaxPathLength: 40}

// StateMachine is the three-set bounded-state explorer. It does not walk
// pages itself (that's the external crawler process's job); it only
// decides, given a newly observed state and its candidate actions, which
// actions are worth taking and whether the state itself has already been
// fully explored.
type StateMachine struct {
	limits Limits

	fullFingerprints map[string]struct{}
	semanticKeys     map[string]struct{}
	actionSequences  map[string]struct{}

	// executedClusters tracks, per-state (by semantic key), which action
	// cluster keys have already been taken from it.
	executedClusters map[string]map[string]struct{}
}

// NewStateMachine returns a StateMachine with empty visited sets, bounded
// by limits (DefaultLimits if the zero value is passed).
func NewStateMachine(limits Limits) *StateMachine {
	if limits.MaxDepth == 0 {
		limits = DefaultLimits
	}
	return &StateMachine{
		limits:           limits,
		fullFingerprints: make(map[string]struct{}),
		semanticKeys:     make(map[string]struct{}),
		actionSequences:  make(map[string]struct{}),
		executedClusters: make(map[string]map[string]struct{}),
	}
}

// VisitState records state as visited and reports whether it had already
// been seen under its full fingerprint or its semantic key; the
// action-sequence set is not consulted here (ShouldTakeAction uses it).
// A state beyond the depth or path-length limit is also reported as
// visited. A state already seen should not be explored further.
func (m *StateMachine) VisitState(state pageState, depth, pathLength int) (alreadyVisited bool) {
	if depth > m.limits.MaxDepth || pathLength > m.limits.MaxPathLength {
		return true
	}

	fp := state.fingerprint()
	sk := state.semanticKey()

	_, seenFull := m.fullFingerprints[fp]
	_, seenSemantic := m.semanticKeys[sk]

	m.fullFingerprints[fp] = struct{}{}
	m.semanticKeys[sk] = struct{}{}
	if _, ok := m.executedClusters[sk]; !ok {
		m.executedClusters[sk] = make(map[string]struct{})
	}

	return seenFull || seenSemantic
}

// ShouldTakeAction reports whether a should be executed from state: false
// when its cluster key has already been executed from this state's
// semantic class, or when the (state, action) sequence has already been
// explored.
func (m *StateMachine) ShouldTakeAction(state pageState, a action) bool {
	sk := state.semanticKey()
	clusters, ok := m.executedClusters[sk]
	if !ok {
		clusters = make(map[string]struct{})
		m.executedClusters[sk] = clusters
	}
	ck := a.clusterKey()
	if _, done := clusters[ck]; done {
		return false
	}

	seqKey := actionSequenceKey(state, a)
	if _, done := m.actionSequences[seqKey]; done {
		return false
	}

	clusters[ck] = struct{}{}
	m.actionSequences[seqKey] = struct{}{}
	return true
}

// domShapeVector renders a stable, sorted "tag:count" vector string used
// as the DOMShape field of a pageState, so two structurally identical
// pages hash identically regardless of attribute/text noise.
func domShapeVector(counts map[string]int) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+":"+strconv.Itoa(counts[k]))
	}
	return strings.Join(parts, ",")
}
