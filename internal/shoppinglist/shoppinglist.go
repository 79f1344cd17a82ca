// Package shoppinglist folds the ingredient volumes of a user's cart into a
// consolidated list and renders it as plain text.
//
// Lines come out in the order their key was first seen. Callers control that
// order by the order of the items they feed in.
package shoppinglist

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

// Item is one ingredient volume of one recipe in the cart
type Item struct {
	Name   string
	Unit   string
	Amount int
}

// Line is one entry of the rendered list
type Line struct {
	Name   string `json:"name"`
	Unit   string `json:"measurement_unit"`
	Amount int    `json:"amount"`
}

// String renders the line without a trailing newline
func (l Line) String() string {
	return fmt.Sprintf("%s - %d %s", l.Name, l.Amount, l.Unit)
}

// MergePolicy decides which items are summed together
type MergePolicy int

const (
	// MergeByNameAndUnit keeps "salt, g" and "salt, pinch" as separate lines
	MergeByNameAndUnit MergePolicy = iota
	// MergeByName sums every item with the same name under the unit seen first,
	// even when later units differ
	MergeByName
)

// ParseMergePolicy maps a configuration value to a policy
func ParseMergePolicy(s string) (MergePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "name_unit":
		return MergeByNameAndUnit, nil
	case "name":
		return MergeByName, nil
	default:
		return 0, fmt.Errorf("unknown shopping list merge policy %q", s)
	}
}

func (p MergePolicy) String() string {
	if p == MergeByName {
		return "name"
	}
	return "name_unit"
}

type key struct {
	name string
	unit string
}

// List is an insertion-ordered map from ingredient key to running total
type List struct {
	policy MergePolicy
	keys   []key
	lines  map[key]*Line
}

// New creates an empty list
func New(policy MergePolicy) *List {
	return &List{policy: policy, lines: make(map[key]*Line)}
}

// Aggregate folds items into a new list
func Aggregate(items []Item, policy MergePolicy) *List {
	l := New(policy)
	for _, it := range items {
		l.Add(it)
	}
	return l
}

func (l *List) keyFor(it Item) key {
	if l.policy == MergeByName {
		return key{name: it.Name}
	}
	return key{name: it.Name, unit: it.Unit}
}

// Add folds one item into the list
func (l *List) Add(it Item) {
	k := l.keyFor(it)
	if line, ok := l.lines[k]; ok {
		line.Amount += it.Amount
		return
	}
	l.keys = append(l.keys, k)
	l.lines[k] = &Line{Name: it.Name, Unit: it.Unit, Amount: it.Amount}
}

// Len returns the number of distinct lines
func (l *List) Len() int {
	return len(l.keys)
}

// Lines returns the entries in first-seen order
func (l *List) Lines() []Line {
	out := make([]Line, 0, len(l.keys))
	for _, k := range l.keys {
		out = append(out, *l.lines[k])
	}
	return out
}

// WriteTo writes one "<name> - <amount> <unit>" line per entry
func (l *List) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, k := range l.keys {
		n, err := fmt.Fprintln(w, l.lines[k].String())
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Bytes renders the whole list. An empty list renders to an empty slice.
func (l *List) Bytes() []byte {
	var buf bytes.Buffer
	l.WriteTo(&buf)
	return buf.Bytes()
}
