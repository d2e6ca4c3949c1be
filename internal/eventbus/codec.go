package eventbus

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// envelopeKeys are the reserved top-level keys of the wire document;
// everything else on an incoming envelope is a tool-specific payload
// field and lands in Event.Fields.
var envelopeKeys = map[string]struct{}{
	"event":      {},
	"target":     {},
	"source":     {},
	"confidence": {},
	"program_id": {},
}

// MarshalJSON flattens Fields into the top level of the wire document,
// so a payload list like "subdomains" sits next to "event" exactly as
// the broker wire format specifies.
func (e Event) MarshalJSON() ([]byte, error) {
	doc := make(map[string]any, len(e.Fields)+5)
	for k, v := range e.Fields {
		if _, reserved := envelopeKeys[k]; reserved {
			continue
		}
		doc[k] = v
	}
	doc["event"] = e.Name
	doc["confidence"] = e.Confidence
	if e.Target != "" {
		doc["target"] = e.Target
	}
	if e.Source != "" {
		doc["source"] = e.Source
	}
	if e.ProgramID != "" {
		doc["program_id"] = e.ProgramID
	}
	return json.Marshal(doc)
}

// UnmarshalJSON pulls the reserved envelope keys out of the document and
// collects every remaining top-level key into Fields. An envelope with
// no confidence field gets DefaultConfidence, landing in the middle
// priority band.
func (e *Event) UnmarshalJSON(data []byte) error {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	e.Confidence = DefaultConfidence
	if v, ok := doc["confidence"].(float64); ok {
		e.Confidence = v
	}
	if v, ok := doc["event"].(string); ok {
		e.Name = v
	}
	if v, ok := doc["target"].(string); ok {
		e.Target = v
	}
	if v, ok := doc["source"].(string); ok {
		e.Source = v
	}
	if v, ok := doc["program_id"].(string); ok {
		e.ProgramID = v
	}

	for k := range envelopeKeys {
		delete(doc, k)
	}
	if len(doc) > 0 {
		e.Fields = doc
	} else {
		e.Fields = nil
	}
	return nil
}

// encodeMember prefixes evt's JSON encoding with seq, so two
// structurally identical events never collide as sorted-set members
// (Redis sorted sets de-duplicate by member value).
func encodeMember(seq int64, evt Event) (string, error) {
	body, err := json.Marshal(evt)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d|%s", seq, body), nil
}

// decodeMember splits a member back into its sequence id and Event.
func decodeMember(member string) (id string, evt Event, err error) {
	idx := strings.IndexByte(member, '|')
	if idx < 0 {
		return "", Event{}, fmt.Errorf("eventbus: malformed member %q", member)
	}
	id = member[:idx]
	if err := json.Unmarshal([]byte(member[idx+1:]), &evt); err != nil {
		return "", Event{}, err
	}
	return id, evt, nil
}

// seqFromMemberID parses the sequence id back into an int64 for
// recomputing a redelivered event's score.
func seqFromMemberID(id string) (int64, error) {
	return strconv.ParseInt(id, 10, 64)
}
