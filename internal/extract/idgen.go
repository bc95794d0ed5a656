package extract

import (
	"fmt"
	"time"
)

// RespondentIDGenerator produces respondent IDs of the form
// NNNNNNYYYYMMDDHHMMSS: a zero-padded sequence counter followed by the
// generation timestamp to the second. The counter is strictly monotonic for
// the generator's lifetime; the clock is injected so tests can pin it.
type RespondentIDGenerator struct {
	next  int
	clock func() time.Time
}

func NewRespondentIDGenerator(start int, clock func() time.Time) *RespondentIDGenerator {
	if clock == nil {
		clock = time.Now
	}
	return &RespondentIDGenerator{next: start, clock: clock}
}

func (g *RespondentIDGenerator) Next() string {
	id := fmt.Sprintf("%06d%s", g.next, g.clock().Format("20060102150405"))
	g.next++
	return id
}
