package forecast

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// ParseError wraps a decoding failure of a response body.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed weather response: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Node is a read-only view of a decoded JSON value. The zero Node is missing;
// navigating from a missing or mismatched node yields another missing node.
type Node struct {
	value   any
	present bool
}

// Parse decodes text into a tree. Empty input and trailing data are errors.
func Parse(text string) (Node, error) {
	if strings.TrimSpace(text) == "" {
		return Node{}, &ParseError{Err: errors.New("empty body")}
	}

	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return Node{}, &ParseError{Err: err}
	}
	if _, err := dec.Token(); err != io.EOF {
		return Node{}, &ParseError{Err: fmt.Errorf("unexpected data after top-level value at offset %d", dec.InputOffset())}
	}

	return Node{value: v, present: true}, nil
}

func (n Node) Missing() bool {
	return !n.present
}

// Get follows object keys in order.
func (n Node) Get(keys ...string) Node {
	cur := n
	for _, key := range keys {
		obj, ok := cur.value.(map[string]any)
		if !ok {
			return Node{}
		}
		v, ok := obj[key]
		if !ok {
			return Node{}
		}
		cur = Node{value: v, present: true}
	}
	return cur
}

// Items returns the elements of an array node, or nil for anything else.
func (n Node) Items() []Node {
	arr, ok := n.value.([]any)
	if !ok {
		return nil
	}

	items := make([]Node, len(arr))
	for i, v := range arr {
		items[i] = Node{value: v, present: true}
	}
	return items
}

// Int converts numbers by truncation toward zero, numeric strings by parsing and
// booleans to 1 or 0. Everything else, including missing nodes and values outside
// the int range, is 0.
func (n Node) Int() int {
	if num, ok := n.value.(json.Number); ok {
		if i, err := num.Int64(); err == nil {
			return int(i)
		}
	}

	f := n.Float()
	if math.IsNaN(f) || f < math.MinInt || f >= -float64(math.MinInt) {
		return 0
	}
	return int(f)
}

// Float follows the same conversion rules as Int without truncating.
func (n Node) Float() float64 {
	switch v := n.value.(type) {
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0
		}
		return f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return f
	case bool:
		if v {
			return 1
		}
		return 0
	default:
		return 0
	}
}
