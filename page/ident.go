package page

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
)

const (
	idOctets      = 3
	maxIDAttempts = 1024
)

// Issuer hands out node identifiers: 3 random octets encoded as 4 URL-safe
// base64 characters. An identifier is never handed out twice by the same
// issuer.
type Issuer struct {
	rand   io.Reader
	issued map[string]struct{}
}

// NewIssuer returns an issuer drawing from r, or from crypto/rand when r is
// nil.
func NewIssuer(r io.Reader) *Issuer {
	if r == nil {
		r = rand.Reader
	}
	return &Issuer{rand: r, issued: make(map[string]struct{})}
}

// Issue returns a fresh identifier. taken, when non-nil, reports identifiers
// already present in the document. After maxIDAttempts consecutive collisions
// Issue gives up with ErrIDSpaceExhausted.
func (is *Issuer) Issue(taken func(string) bool) (string, error) {
	var buf [idOctets]byte
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		if _, err := io.ReadFull(is.rand, buf[:]); err != nil {
			return "", fmt.Errorf("page: read identifier entropy: %w", err)
		}
		id := base64.RawURLEncoding.EncodeToString(buf[:])
		if _, ok := is.issued[id]; ok {
			continue
		}
		if taken != nil && taken(id) {
			continue
		}
		is.issued[id] = struct{}{}
		return id, nil
	}
	return "", ErrIDSpaceExhausted
}

// Reserve records an identifier that entered the document from outside the
// issuer, so it is never handed out.
func (is *Issuer) Reserve(id string) {
	is.issued[id] = struct{}{}
}

// Issued returns how many identifiers the issuer has handed out or reserved.
func (is *Issuer) Issued() int { return len(is.issued) }
