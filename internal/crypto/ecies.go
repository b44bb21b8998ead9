package crypto

const (
	eciesEphemeralKeySize = 33
	eciesInfo             = "ecies-encryption-key"
)

// ECIESEncrypt encrypts plaintext to recipientPublicKey using an
// ephemeral keypair: the shared secret is ECDH(ephemeral_sk,
// recipient_pk), the encryption key is HKDF-SHA256(shared, salt =
// ephemeral_pk, info = "ecies-encryption-key", 32 bytes), and the
// result is sealed with AES-256-GCM. The wire format is
// ephemeral_pk(33) || nonce(12) || ciphertext.
func ECIESEncrypt(plaintext, recipientPublicKey []byte) ([]byte, error) {
	ephemeralSK, ephemeralPK, err := KeyPair()
	if err != nil {
		return nil, err
	}
	shared, err := ECDH(ephemeralSK, recipientPublicKey)
	if err != nil {
		return nil, err
	}
	key, err := DeriveKey(shared, ephemeralPK, []byte(eciesInfo), KeySize)
	if err != nil {
		return nil, err
	}
	ciphertext, nonce, err := Encrypt(plaintext, key)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, eciesEphemeralKeySize+NonceSize+len(ciphertext))
	out = append(out, ephemeralPK...)
	out = append(out, nonce...)
	out = append(out, ciphertext...)
	return out, nil
}

// ECIESDecrypt reverses ECIESEncrypt using the recipient's private key.
func ECIESDecrypt(blob, privateKey []byte) ([]byte, error) {
	if len(blob) < eciesEphemeralKeySize+NonceSize {
		return nil, ErrECIESCiphertext
	}
	ephemeralPK := blob[:eciesEphemeralKeySize]
	nonce := blob[eciesEphemeralKeySize : eciesEphemeralKeySize+NonceSize]
	ciphertext := blob[eciesEphemeralKeySize+NonceSize:]

	shared, err := ECDH(privateKey, ephemeralPK)
	if err != nil {
		return nil, err
	}
	key, err := DeriveKey(shared, ephemeralPK, []byte(eciesInfo), KeySize)
	if err != nil {
		return nil, err
	}
	return Decrypt(ciphertext, key, nonce)
}
