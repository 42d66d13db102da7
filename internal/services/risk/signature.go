package risk

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
)

// Signer constructs and verifies detached signatures over serialized
// transactions. The scoring engine only depends on this interface so the
// scheme can be replaced without touching its control flow.
type Signer interface {
	Sign(message []byte) ([]byte, error)
	Verify(message, signature []byte) bool
}

// latticeSigner simulates a lattice-based signature scheme. This is NOT real
// post-quantum cryptography: a conventional Ed25519 keypair stands in until
// a production post-quantum library replaces it behind the same interface.
type latticeSigner struct {
	pub  ed25519.PublicKey
	priv ed25519.PrivateKey
}

// NewLatticeSigner generates an ephemeral keypair for the simulated scheme.
func NewLatticeSigner() (Signer, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("%w: key generation: %v", ErrSignerUnavailable, err)
	}
	return &latticeSigner{pub: pub, priv: priv}, nil
}

func (s *latticeSigner) Sign(message []byte) ([]byte, error) {
	return ed25519.Sign(s.priv, message), nil
}

func (s *latticeSigner) Verify(message, signature []byte) bool {
	return ed25519.Verify(s.pub, message, signature)
}
