package vertx

import (
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// HeaderPair is a single name/value pair as handed to the transport.
type HeaderPair struct {
	Name  string
	Value string
}

// Headers is a case-insensitive, insertion-ordered header mapping.
// Lookups ignore case; the most recently written spelling of a name is kept.
type Headers struct {
	m *orderedmap.OrderedMap[string, HeaderPair]
}

func NewHeaders() *Headers {
	return &Headers{m: orderedmap.New[string, HeaderPair]()}
}

func (h *Headers) init() {
	if h.m == nil {
		h.m = orderedmap.New[string, HeaderPair]()
	}
}

func (h *Headers) Set(name, value string) {
	h.init()
	h.m.Set(strings.ToLower(name), HeaderPair{Name: name, Value: value})
}

// Get returns the value for name, or "" when absent.
func (h *Headers) Get(name string) string {
	v, _ := h.Lookup(name)
	return v
}

func (h *Headers) Lookup(name string) (string, bool) {
	if h == nil || h.m == nil {
		return "", false
	}
	p, ok := h.m.Get(strings.ToLower(name))
	return p.Value, ok
}

func (h *Headers) Has(name string) bool {
	_, ok := h.Lookup(name)
	return ok
}

func (h *Headers) Del(name string) {
	if h == nil || h.m == nil {
		return
	}
	h.m.Delete(strings.ToLower(name))
}

func (h *Headers) Len() int {
	if h == nil || h.m == nil {
		return 0
	}
	return h.m.Len()
}

// Pairs returns the headers in insertion order with their stored spelling.
func (h *Headers) Pairs() []HeaderPair {
	pairs := make([]HeaderPair, 0, h.Len())
	if h == nil || h.m == nil {
		return pairs
	}
	for el := h.m.Oldest(); el != nil; el = el.Next() {
		pairs = append(pairs, el.Value)
	}
	return pairs
}

// Map returns the headers keyed by their stored spelling.
func (h *Headers) Map() map[string]string {
	out := make(map[string]string, h.Len())
	for _, p := range h.Pairs() {
		out[p.Name] = p.Value
	}
	return out
}

// Normalized returns the headers keyed by lower-cased name.
func (h *Headers) Normalized() map[string]string {
	out := make(map[string]string, h.Len())
	for _, p := range h.Pairs() {
		out[strings.ToLower(p.Name)] = p.Value
	}
	return out
}

// Equal reports whether both mappings hold the same values, ignoring case and order.
func (h *Headers) Equal(other *Headers) bool {
	if h.Len() != other.Len() {
		return false
	}
	for _, p := range h.Pairs() {
		v, ok := other.Lookup(p.Name)
		if !ok || v != p.Value {
			return false
		}
	}
	return true
}

func (h *Headers) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, p := range h.Pairs() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.Name)
		b.WriteString(": ")
		b.WriteString(p.Value)
	}
	b.WriteByte('}')
	return b.String()
}
