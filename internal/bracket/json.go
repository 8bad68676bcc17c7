package bracket

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
	"time"

	"github.com/valyala/bytebufferpool"
)

// Millisecond precision, always UTC, e.g. 2024-05-01T18:30:00.000Z
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

type Timestamp struct {
	time.Time
}

func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.UTC().Truncate(time.Millisecond)}
}

func (ts Timestamp) String() string {
	return ts.UTC().Format(timestampLayout)
}

// MarshalJSON writes null for the zero value, so a document that arrived
// without a creation time is not given a made-up one.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.IsZero() {
		return []byte("null"), nil
	}
	return []byte(strconv.Quote(ts.String())), nil
}

func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*ts = Timestamp{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return err
	}
	*ts = Timestamp{Time: parsed.UTC()}
	return nil
}

// tournamentFields lets the codec reuse the struct tags without recursing
// into Tournament's own (Un)MarshalJSON.
type tournamentFields Tournament

var knownKeys = map[string]struct{}{
	"id":           {},
	"name":         {},
	"createdAt":    {},
	"status":       {},
	"participants": {},
	"currentRound": {},
	"icon":         {},
	"colors":       {},
}

func (t Tournament) MarshalJSON() ([]byte, error) {
	base, err := Marshal(tournamentFields(t))
	if err != nil {
		return nil, err
	}
	if len(t.Extra) == 0 {
		return base, nil
	}

	keys := make([]string, 0, len(t.Extra))
	for k := range t.Extra {
		if _, ok := knownKeys[k]; ok {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := bytes.NewBuffer(make([]byte, 0, len(base)+64*len(keys)))
	out.Write(base[:len(base)-1])
	for _, k := range keys {
		key, err := Marshal(k)
		if err != nil {
			return nil, err
		}
		out.WriteByte(',')
		out.Write(key)
		out.WriteByte(':')
		if err := json.Compact(out, t.Extra[k]); err != nil {
			return nil, err
		}
	}
	out.WriteByte('}')
	return out.Bytes(), nil
}

func (t *Tournament) UnmarshalJSON(data []byte) error {
	var fields tournamentFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	for k := range knownKeys {
		delete(all, k)
	}
	fields.Extra = nil
	if len(all) > 0 {
		for k, v := range all {
			compacted, err := compactRaw(v)
			if err != nil {
				return err
			}
			all[k] = compacted
		}
		fields.Extra = all
	}

	for i, p := range fields.Participants {
		compacted, err := compactRaw(p)
		if err != nil {
			return err
		}
		fields.Participants[i] = compacted
	}

	*t = Tournament(fields)
	return nil
}

func compactRaw(raw json.RawMessage) (json.RawMessage, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Marshal encodes v as compact JSON without escaping <, > and &, matching
// what the desktop UI writes for the same document.
func Marshal(v any) ([]byte, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	out := bytes.TrimSuffix(buf.B, []byte("\n"))
	return append([]byte(nil), out...), nil
}

// MarshalIndent is Marshal with the two-space layout used for tournament.json.
func MarshalIndent(v any) ([]byte, error) {
	compact, err := Marshal(v)
	if err != nil {
		return nil, err
	}

	var indented bytes.Buffer
	indented.Grow(len(compact) * 2)
	if err := json.Indent(&indented, compact, "", "  "); err != nil {
		return nil, err
	}
	return indented.Bytes(), nil
}
