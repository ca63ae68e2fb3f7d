package compiler

import "errors"

// Cursor walks a fixed slice of items with support for stepping back and
// for returning to a saved position. The lexer runs one over runes and the
// parser runs one over tokens.
//
// Next keeps advancing after the end has been reached so that an equal
// number of StepBack calls always lands on the position the caller expects.
// A Cursor is not safe for concurrent use, and only one should ever be
// positioned over a given slice.
type Cursor[T any] struct {
	items []T
	pos   int
}

func NewCursor[T any](items []T) *Cursor[T] {
	return &Cursor[T]{items: items}
}

// Next returns the item at the current position and advances past it.
// Past the end it returns false and still advances.
func (c *Cursor[T]) Next() (T, bool) {
	var zero T
	if c.pos >= len(c.items) {
		c.pos++
		return zero, false
	}
	item := c.items[c.pos]
	c.pos++
	return item, true
}

// StepBack moves one position earlier. It is a no-op at position 0.
func (c *Cursor[T]) StepBack() {
	if c.pos > 0 {
		c.pos--
	}
}

// Peek returns the item at the current position without advancing.
func (c *Cursor[T]) Peek() (T, bool) {
	var zero T
	if c.pos >= len(c.items) {
		return zero, false
	}
	return c.items[c.pos], true
}

// IsExhausted reports whether the position is at or past the end.
func (c *Cursor[T]) IsExhausted() bool { return c.pos >= len(c.items) }

func (c *Cursor[T]) Pos() int { return c.pos }
func (c *Cursor[T]) Len() int { return len(c.items) }

// Checkpoint records the current position.
func (c *Cursor[T]) Checkpoint() *Checkpoint[T] {
	return &Checkpoint[T]{cursor: c, pos: c.pos}
}

// Checkpoint is a saved Cursor position. It can be restored once.
type Checkpoint[T any] struct {
	cursor *Cursor[T]
	pos    int
	spent  bool
}

// Restore moves the cursor back to the saved position. Calls after the
// first are no-ops.
func (cp *Checkpoint[T]) Restore() {
	if cp.spent {
		return
	}
	cp.cursor.pos = cp.pos
	cp.spent = true
}

// Attempt runs parse and rewinds c to where it started if parse fails.
func Attempt[T, R any](c *Cursor[T], parse func() (R, error)) (R, error) {
	cp := c.Checkpoint()
	r, err := parse()
	if err != nil {
		cp.Restore()
	}
	return r, err
}

// FirstOf tries each alternative from the same starting position and
// returns the first one that succeeds. If all fail, the cursor is left at
// the starting position and the last error is returned.
func FirstOf[T, R any](c *Cursor[T], alts ...func() (R, error)) (R, error) {
	var r R
	err := errors.New("no alternatives to try")
	for _, alt := range alts {
		r, err = Attempt(c, alt)
		if err == nil {
			return r, nil
		}
	}
	return r, err
}
