package layout

import (
	"errors"
	"fmt"
)

// collector accumulates violations while walking a tree.
type collector struct {
	out []*Violation
}

func (c *collector) add(path string, k Kind, format string, args ...any) {
	c.out = append(c.out, &Violation{Path: path, Kind: k, Detail: fmt.Sprintf(format, args...)})
}

// tally counts failures of one invariant and remembers the first.
type tally struct {
	count int
	first string
}

func (t *tally) fail(format string, args ...any) {
	if t.count == 0 {
		t.first = fmt.Sprintf(format, args...)
	}
	t.count++
}

func (t *tally) report(c *collector, path string, k Kind) {
	switch {
	case t.count == 1:
		c.add(path, k, "%s", t.first)
	case t.count > 1:
		c.add(path, k, "%s (and %d more)", t.first, t.count-1)
	}
}

// Validate checks every structural invariant of n and its descendants and
// returns all violations found. A valid tree yields nil. Validate never panics
// on malformed buffers.
func Validate(n Node) []*Violation {
	var c collector
	n.validate("root", &c)
	return c.out
}

// Check returns the violations of n joined into one error, or nil.
// The error matches ErrStructuralViolation.
func Check(n Node) error {
	vs := Validate(n)
	if len(vs) == 0 {
		return nil
	}
	errs := make([]error, len(vs))
	for i, v := range vs {
		errs[i] = v
	}
	return errors.Join(errs...)
}
