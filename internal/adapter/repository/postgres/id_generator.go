package postgres

import (
	"crypto/rand"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// ULIDGenerator generates ULIDs that sort in creation order, including IDs
// generated within the same millisecond.
type ULIDGenerator struct {
	mu      sync.Mutex
	entropy io.Reader
	now     func() time.Time
}

// NewULIDGenerator creates a new ULIDGenerator.
func NewULIDGenerator() *ULIDGenerator {
	return &ULIDGenerator{
		entropy: ulid.Monotonic(rand.Reader, 0),
		now:     time.Now,
	}
}

// Generate returns a new ULID.
func (g *ULIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	return ulid.MustNew(ulid.Timestamp(g.now()), g.entropy).String()
}
