package crypto

import (
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// ECDH computes the shared secret between a 32-byte private scalar and a
// compressed 33-byte public point, returning the 32-byte x-coordinate of
// the resulting point (not hashed — callers run it through DeriveKey).
func ECDH(privateKey, peerPublicKey []byte) ([]byte, error) {
	priv, err := parsePrivateKey(privateKey)
	if err != nil {
		return nil, err
	}
	pub, err := parsePublicKey(peerPublicKey)
	if err != nil {
		return nil, err
	}

	var pubPoint secp256k1.JacobianPoint
	pub.AsJacobian(&pubPoint)

	var shared secp256k1.JacobianPoint
	secp256k1.ScalarMultNonConst(&priv.Key, &pubPoint, &shared)
	if (shared.X.IsZero() && shared.Y.IsZero()) || shared.Z.IsZero() {
		return nil, ErrInvalidPublicKey
	}
	shared.ToAffine()
	x := shared.X.Bytes()
	return x[:], nil
}

func parsePrivateKey(b []byte) (*secp256k1.PrivateKey, error) {
	if len(b) != 32 {
		return nil, ErrInvalidPrivateKey
	}
	priv := secp256k1.PrivKeyFromBytes(b)
	if priv == nil {
		return nil, ErrInvalidPrivateKey
	}
	return priv, nil
}

func parsePublicKey(b []byte) (*secp256k1.PublicKey, error) {
	if len(b) != 33 {
		return nil, ErrInvalidPublicKey
	}
	pub, err := secp256k1.ParsePubKey(b)
	if err != nil {
		return nil, ErrInvalidPublicKey
	}
	return pub, nil
}
