package ledger

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// UUIDGenerator assigns UUIDv4 identifiers. Random ids avoid the collision
// risk of timestamp-derived identity under rapid successive creates.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}

// SequenceGenerator assigns monotonically increasing ids. Intended for
// tests and demos where deterministic ids make assertions readable.
type SequenceGenerator struct {
	n atomic.Int64
}

func (g *SequenceGenerator) NewID() string {
	return "tx-" + strconv.FormatInt(g.n.Add(1), 10)
}
