package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHostname_LowercasesAndTrims(t *testing.T) {
	got, ok := Hostname("  Example.COM. ")
	assert.True(t, ok)
	assert.Equal(t, "example.com", got)
}

func TestHostname_RejectsInvalid(t *testing.T) {
	_, ok := Hostname("not a domain")
	assert.False(t, ok)

	_, ok = Hostname("localhost")
	assert.False(t, ok, "single-label names fail the domain regex")
}

func TestPath_CollapsesSlashesAndTrimsTrailing(t *testing.T) {
	assert.Equal(t, "/a/b", Path("/a//b/"))
	assert.Equal(t, "/", Path("/"))
	assert.Equal(t, "/", Path(""))
}

func TestPath_TemplatesNumericID(t *testing.T) {
	assert.Equal(t, "/users/{id}", Path("/users/1234"))
}

func TestPath_TemplatesUUID(t *testing.T) {
	assert.Equal(t, "/orders/{id}", Path("/orders/550e8400-e29b-41d4-a716-446655440000"))
}

func TestPath_TemplatesHexBlob(t *testing.T) {
	assert.Equal(t, "/objects/{id}", Path("/objects/5f1a2b3c4d5e6f7a8b9c0d1e"))
}

func TestPath_TemplatesLongBase64Token(t *testing.T) {
	got := Path("/tokens/aGVsbG8gd29ybGQgdGhpcyBpcyBhIHRva2Vu")
	assert.Equal(t, "/tokens/{id}", got)
}

func TestPath_PreservesShortNonIDSegments(t *testing.T) {
	assert.Equal(t, "/users/profile", Path("/users/profile"))
}

func TestPath_SortsQueryParamNamesAndDropsValues(t *testing.T) {
	got := Path("/search?z=1&a=2&m=3")
	assert.Equal(t, "/search?a&m&z", got)
}

func TestPath_EquivalentPathsCollapseToSameKey(t *testing.T) {
	a := Path("/users/42")
	b := Path("/users/99")
	assert.Equal(t, a, b, "two endpoints differing only by id must collapse to one normalized path")
}

func TestDedupByKey_PreservesFirstOccurrence(t *testing.T) {
	type item struct {
		key   string
		value int
	}
	items := []item{{"a", 1}, {"b", 2}, {"a", 3}}
	result := DedupByKey(items, func(i item) string { return i.key })
	assert.Equal(t, []item{{"a", 1}, {"b", 2}}, result)
}

func TestHashContent_IsDeterministic(t *testing.T) {
	a := HashContent([]byte("hello"))
	b := HashContent([]byte("hello"))
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
}

func TestDedupHosts_CaseInsensitiveFirstOccurrenceWins(t *testing.T) {
	result := DedupHosts([]string{"Example.com", "example.COM", "", "  ", "other.com"})
	assert.Equal(t, []string{"Example.com", "other.com"}, result)
}
