package entities

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/samber/lo"
)

// field is one key/value pair of an ordered JSON object.
type field struct {
	key   string
	value any
}

// encodeObject writes fields in the given order, then extra keys sorted.
// Extra keys that collide with a known field are skipped.
func encodeObject(fields []field, extra map[string]json.RawMessage) ([]byte, error) {
	known := lo.SliceToMap(fields, func(f field) (string, struct{}) {
		return f.key, struct{}{}
	})

	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	writeKey := func(k string) error {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		key, err := json.Marshal(k)
		if err != nil {
			return err
		}
		buf.Write(key)
		buf.WriteByte(':')
		return nil
	}

	for _, f := range fields {
		value, err := json.Marshal(f.value)
		if err != nil {
			return nil, fmt.Errorf("encoding field %q: %w", f.key, err)
		}
		if err := writeKey(f.key); err != nil {
			return nil, err
		}
		buf.Write(value)
	}

	keys := lo.Keys(extra)
	slices.Sort(keys)
	for _, k := range keys {
		if _, ok := known[k]; ok {
			continue
		}
		if err := writeKey(k); err != nil {
			return nil, err
		}
		buf.Write(extra[k])
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}
