// Package conversation implements per-conversation state: identifier
// derivation, membership and admin management, session-key rotation,
// and the revoke-permission oracle.
package conversation

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"sort"
	"strconv"
	"time"

	"wakuchat/core/internal/crypto"
)

var (
	// ErrNotMember is returned by admin operations targeting a user
	// who is not a member of the conversation.
	ErrNotMember = errors.New("conversation: target is not a member")
	// ErrStaleKeyVersion is returned when UpdateSessionKey is called
	// with a version that does not exceed the current one.
	ErrStaleKeyVersion = errors.New("conversation: new key version must exceed current")
	// ErrNotGroup is returned when a group-only operation is called
	// on a direct conversation.
	ErrNotGroup = errors.New("conversation: operation requires a group conversation")
)

// Type distinguishes direct (two-party) from group (N-party)
// conversations.
type Type int

const (
	Direct Type = iota
	Group
)

const (
	directSessionInfo = "encrypted-chat-session-key"
	directIDBytes     = 16
	groupIDRandBytes  = 16
)

// Conversation is the per-conversation record: identifier, type,
// membership, admin set, session key, and key version. It exclusively
// owns its session key.
type Conversation struct {
	ID         string
	Type       Type
	Members    map[string]bool
	Admins     map[string]bool
	SessionKey []byte
	KeyVersion uint32
	Name       string
	CreatedAt  time.Time
}

// CreateDirect derives the deterministic two-party conversation for
// (myID, myPrivateKey) and (peerID, peerPublicKey). Both parties,
// given only their own private key and the other's public key, derive
// byte-identical id and session_key.
func CreateDirect(myID string, myPrivateKey []byte, peerID string, peerPublicKey []byte) (*Conversation, error) {
	id := DeriveDirectID(myID, peerID)

	shared, err := crypto.ECDH(myPrivateKey, peerPublicKey)
	if err != nil {
		return nil, err
	}
	sessionKey, err := crypto.DeriveKey(shared, []byte(id), []byte(directSessionInfo), crypto.KeySize)
	if err != nil {
		return nil, err
	}

	return &Conversation{
		ID:         id,
		Type:       Direct,
		Members:    map[string]bool{myID: true, peerID: true},
		Admins:     map[string]bool{},
		SessionKey: sessionKey,
		KeyVersion: 1,
		CreatedAt:  time.Now(),
	}, nil
}

// DeriveDirectID computes hex(SHA-256(min(a,b) || ":" || max(a,b))[0:16]),
// sorting the two user ids so both parties derive the same identifier.
func DeriveDirectID(a, b string) string {
	lo, hi := a, b
	if lo > hi {
		lo, hi = hi, lo
	}
	h := sha256.Sum256([]byte(lo + ":" + hi))
	return hex.EncodeToString(h[:directIDBytes])
}

// CreateGroup creates a new group conversation with name, a fresh
// random 32-byte session key, and creatorID as its sole member and
// sole admin.
func CreateGroup(name, creatorID string) (*Conversation, error) {
	id, err := newGroupID()
	if err != nil {
		return nil, err
	}
	sessionKey := make([]byte, crypto.KeySize)
	if _, err := io.ReadFull(rand.Reader, sessionKey); err != nil {
		return nil, err
	}
	return &Conversation{
		ID:         id,
		Type:       Group,
		Name:       name,
		Members:    map[string]bool{creatorID: true},
		Admins:     map[string]bool{creatorID: true},
		SessionKey: sessionKey,
		KeyVersion: 1,
		CreatedAt:  time.Now(),
	}, nil
}

// newGroupID builds hex(timestamp_ms_as_12_hex || random16Bytes) — 44
// hex characters; uniqueness is overwhelmingly likely given the random
// suffix.
func newGroupID() (string, error) {
	ts := time.Now().UnixMilli()
	prefix := strconv.FormatInt(ts, 16)
	for len(prefix) < 12 {
		prefix = "0" + prefix
	}
	prefix = prefix[len(prefix)-12:]

	suffix := make([]byte, groupIDRandBytes)
	if _, err := io.ReadFull(rand.Reader, suffix); err != nil {
		return "", err
	}
	return prefix + hex.EncodeToString(suffix), nil
}

// AddMember is idempotent on presence.
func (c *Conversation) AddMember(userID string) {
	c.Members[userID] = true
}

// RemoveMember is idempotent on presence and also clears any admin
// status the member held.
func (c *Conversation) RemoveMember(userID string) {
	delete(c.Members, userID)
	delete(c.Admins, userID)
}

// SetAdmin grants or revokes admin status for userID. It fails with
// ErrNotMember if the target is not a member.
func (c *Conversation) SetAdmin(userID string, isAdmin bool) error {
	if !c.Members[userID] {
		return ErrNotMember
	}
	if isAdmin {
		c.Admins[userID] = true
	} else {
		delete(c.Admins, userID)
	}
	return nil
}

// RotateGroupKey draws a fresh 32-byte session key, increments
// KeyVersion, and returns the new key. It invalidates the old key only
// on the local side: the operation is not atomic across peers and
// must be followed by per-member ECIES re-invites carrying the new
// key — this function does not perform the re-invite itself.
func (c *Conversation) RotateGroupKey() ([]byte, error) {
	if c.Type != Group {
		return nil, ErrNotGroup
	}
	newKey := make([]byte, crypto.KeySize)
	if _, err := io.ReadFull(rand.Reader, newKey); err != nil {
		return nil, err
	}
	c.SessionKey = newKey
	c.KeyVersion++
	return append([]byte(nil), newKey...), nil
}

// UpdateSessionKey installs newKey at newVersion, requiring
// newVersion > current. It fails with ErrStaleKeyVersion otherwise.
func (c *Conversation) UpdateSessionKey(newKey []byte, newVersion uint32) error {
	if newVersion <= c.KeyVersion {
		return ErrStaleKeyVersion
	}
	c.SessionKey = append([]byte(nil), newKey...)
	c.KeyVersion = newVersion
	return nil
}

// CanRevoke is the revoke-permission oracle. Rule ordering matters for
// observability: a user who is both sender and admin is recorded as
// allowed by the sender rule, evaluated first.
//
//  1. revokerID == originalSenderID: allow (sender).
//  2. Type == Group and revokerID is an admin: allow (admin).
//  3. Otherwise: deny.
func (c *Conversation) CanRevoke(revokerID, originalSenderID string) bool {
	if revokerID == originalSenderID {
		return true
	}
	if c.Type == Group && c.Admins[revokerID] {
		return true
	}
	return false
}

// MemberIDs returns the conversation's members in sorted order, for
// deterministic iteration (e.g. re-invite fan-out).
func (c *Conversation) MemberIDs() []string {
	out := make([]string, 0, len(c.Members))
	for id := range c.Members {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
