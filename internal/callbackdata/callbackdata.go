// Package callbackdata encodes and decodes inline-button payloads.
//
// Every plugin that shows inline buttons owns a Namespace: a unique prefix
// plus an ordered list of field names. Payloads are the prefix and the field
// values joined with ":", so a decoder can cheaply tell its own payloads
// apart from every other plugin's.
package callbackdata

import (
	"errors"
	"fmt"
	"strings"
)

// Separator joins the prefix and field values on the wire.
const Separator = ":"

// MaxPayloadLen is the Telegram limit for callback_data bytes.
const MaxPayloadLen = 64

// ErrPayloadTooLong is returned by Encode when the joined payload would not
// fit in a callback_data field.
var ErrPayloadTooLong = errors.New("encoded callback payload exceeds transport limit")

// MalformedPayloadError reports a payload that claimed a namespace's prefix
// but did not parse into its declared fields.
type MalformedPayloadError struct {
	Prefix  string
	Payload string
	Want    int
	Got     int
}

func (e *MalformedPayloadError) Error() string {
	return fmt.Sprintf("malformed payload %q for prefix %q: want %d fields, got %d", e.Payload, e.Prefix, e.Want, e.Got)
}

// Namespace is a declared payload shape. Construct with New; the zero value
// is not usable.
type Namespace struct {
	prefix string
	fields []string
}

// New declares a namespace. The prefix and every field name must be
// non-empty and free of the separator; field names must be unique.
func New(prefix string, fields ...string) (*Namespace, error) {
	if prefix == "" {
		return nil, errors.New("namespace prefix is empty")
	}
	if strings.Contains(prefix, Separator) {
		return nil, fmt.Errorf("namespace prefix %q contains separator %q", prefix, Separator)
	}
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if f == "" {
			return nil, fmt.Errorf("namespace %q has an empty field name", prefix)
		}
		if strings.Contains(f, Separator) {
			return nil, fmt.Errorf("namespace %q field %q contains separator %q", prefix, f, Separator)
		}
		if seen[f] {
			return nil, fmt.Errorf("namespace %q declares field %q twice", prefix, f)
		}
		seen[f] = true
	}
	return &Namespace{prefix: prefix, fields: append([]string(nil), fields...)}, nil
}

// MustNew is New for package-level declarations with constant arguments.
func MustNew(prefix string, fields ...string) *Namespace {
	ns, err := New(prefix, fields...)
	if err != nil {
		panic(err)
	}
	return ns
}

// Prefix returns the namespace prefix.
func (n *Namespace) Prefix() string { return n.prefix }

// Fields returns the declared field names in order.
func (n *Namespace) Fields() []string { return append([]string(nil), n.fields...) }

// Encode builds the wire payload from a complete value map. Every declared
// field must be present, no extras are allowed, and values may not contain
// the separator.
func (n *Namespace) Encode(values map[string]string) (string, error) {
	parts := make([]string, 0, len(n.fields)+1)
	parts = append(parts, n.prefix)
	for _, f := range n.fields {
		v, ok := values[f]
		if !ok {
			return "", fmt.Errorf("namespace %q: missing value for field %q", n.prefix, f)
		}
		if strings.Contains(v, Separator) {
			return "", fmt.Errorf("namespace %q: value for field %q contains separator %q", n.prefix, f, Separator)
		}
		parts = append(parts, v)
	}
	if len(values) > len(n.fields) {
		for k := range values {
			if !n.hasField(k) {
				return "", fmt.Errorf("namespace %q: unknown field %q", n.prefix, k)
			}
		}
	}
	payload := strings.Join(parts, Separator)
	if len(payload) > MaxPayloadLen {
		return "", fmt.Errorf("namespace %q: payload %q: %w", n.prefix, payload, ErrPayloadTooLong)
	}
	return payload, nil
}

// Decode parses a wire payload. ok is false when the payload belongs to a
// different namespace; that is a routing miss, not an error. A payload that
// claims this prefix but has the wrong number of parts yields a
// *MalformedPayloadError.
func (n *Namespace) Decode(payload string) (values map[string]string, ok bool, err error) {
	parts := strings.Split(payload, Separator)
	if parts[0] != n.prefix {
		return nil, false, nil
	}
	if len(parts)-1 != len(n.fields) {
		return nil, true, &MalformedPayloadError{
			Prefix:  n.prefix,
			Payload: payload,
			Want:    len(n.fields),
			Got:     len(parts) - 1,
		}
	}
	values = make(map[string]string, len(n.fields))
	for i, f := range n.fields {
		values[f] = parts[i+1]
	}
	return values, true, nil
}

func (n *Namespace) hasField(name string) bool {
	for _, f := range n.fields {
		if f == name {
			return true
		}
	}
	return false
}
