package elm

import "time"

// Prettify exposes prettify for tests.
var Prettify = prettify

// WithClock replaces the clock used for temporary file names.
func (c *Compiler) WithClock(now func() time.Time) *Compiler {
	c.now = now
	return c
}
