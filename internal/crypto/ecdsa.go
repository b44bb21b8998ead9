package crypto

import (
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/sha256"
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// KeyPair generates a random secp256k1 private scalar and its compressed
// public key.
func KeyPair() (privateKey, publicKey []byte, err error) {
	priv, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, nil, err
	}
	return priv.Serialize(), priv.PubKey().SerializeCompressed(), nil
}

// PublicKeyFromPrivate derives the compressed public key for a 32-byte
// private scalar.
func PublicKeyFromPrivate(privateKey []byte) ([]byte, error) {
	priv, err := parsePrivateKey(privateKey)
	if err != nil {
		return nil, err
	}
	return priv.PubKey().SerializeCompressed(), nil
}

// Sign computes a compact 64-byte (r||s) ECDSA signature over
// SHA-256(data).
func Sign(data, privateKey []byte) ([]byte, error) {
	priv, err := parsePrivateKey(privateKey)
	if err != nil {
		return nil, err
	}
	hash := sha256.Sum256(data)
	r, s, err := ecdsa.Sign(rand.Reader, priv.ToECDSA(), hash[:])
	if err != nil {
		return nil, err
	}
	return serializeSignature(r, s), nil
}

// Verify reports whether sig is a valid ECDSA signature over
// SHA-256(data) by publicKey. It never panics or returns an error: any
// malformed input simply fails to verify.
func Verify(data, sig, publicKey []byte) bool {
	if len(sig) != 64 {
		return false
	}
	pub, err := parsePublicKey(publicKey)
	if err != nil {
		return false
	}
	r := new(big.Int).SetBytes(sig[:32])
	s := new(big.Int).SetBytes(sig[32:])
	hash := sha256.Sum256(data)
	return ecdsa.Verify(pub.ToECDSA(), hash[:], r, s)
}

func serializeSignature(r, s *big.Int) []byte {
	out := make([]byte, 64)
	r.FillBytes(out[:32])
	s.FillBytes(out[32:])
	return out
}
