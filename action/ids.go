package action

import (
	"crypto/rand"
	"math/big"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// NewID returns a globally unique action id. ULIDs embed their creation
// time, so ids sort in creation order; the conflict resolver relies on
// that for deterministic timestamp tie-breaks.
func NewID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// NewSessionID returns a unique session identifier.
func NewSessionID() string {
	return uuid.NewString()
}

// NewParticipantID returns a unique participant identifier.
func NewParticipantID() string {
	return uuid.NewString()
}

// codeAlphabet omits characters that read ambiguously when a session code
// is shared aloud or retyped (0/O, 1/I/L).
const codeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

const codeLength = 6

// NewJoinCode returns a short human-shareable session code.
func NewJoinCode() string {
	buf := make([]byte, codeLength)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand failing means the platform RNG is broken;
			// fall back to a ULID prefix rather than return a weak code.
			return NewID()[:codeLength]
		}
		buf[i] = codeAlphabet[n.Int64()]
	}
	return string(buf)
}
