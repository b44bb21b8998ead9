package conversation

import (
	"bytes"
	"testing"

	"wakuchat/core/internal/crypto"
)

func newUser(t *testing.T) (id string, sk, pk []byte) {
	t.Helper()
	sk, pk, err := crypto.KeyPair()
	if err != nil {
		t.Fatalf("keypair: %v", err)
	}
	h := sha256sum20(pk)
	return h, sk, pk
}

func sha256sum20(pk []byte) string {
	id, err := crypto.DeriveKey(pk, nil, []byte("test-id"), 20)
	if err != nil {
		panic(err)
	}
	return string(id)
}

// TestDirectConversationConvergence implements invariant 4: both
// parties derive byte-identical id and session key from only their
// own private key and the peer's public key.
func TestDirectConversationConvergence(t *testing.T) {
	aliceID, aliceSK, alicePK := newUser(t)
	bobID, bobSK, bobPK := newUser(t)

	convA, err := CreateDirect(aliceID, aliceSK, bobID, bobPK)
	if err != nil {
		t.Fatalf("create direct (alice): %v", err)
	}
	convB, err := CreateDirect(bobID, bobSK, aliceID, alicePK)
	if err != nil {
		t.Fatalf("create direct (bob): %v", err)
	}

	if convA.ID != convB.ID {
		t.Fatalf("conversation ids diverge: %s != %s", convA.ID, convB.ID)
	}
	if !bytes.Equal(convA.SessionKey, convB.SessionKey) {
		t.Fatalf("session keys diverge")
	}
}

func TestDeriveDirectIDSymmetric(t *testing.T) {
	if DeriveDirectID("a", "b") != DeriveDirectID("b", "a") {
		t.Fatalf("direct id derivation is not order-independent")
	}
}

// TestCanRevokeDirect implements half of invariant 6: for direct
// conversations, can_revoke(A, B) iff A == B.
func TestCanRevokeDirect(t *testing.T) {
	aliceID, aliceSK, _ := newUser(t)
	bobID, _, bobPK := newUser(t)
	conv, err := CreateDirect(aliceID, aliceSK, bobID, bobPK)
	if err != nil {
		t.Fatalf("create direct: %v", err)
	}

	if !conv.CanRevoke(aliceID, aliceID) {
		t.Fatalf("sender should be able to revoke own message")
	}
	if conv.CanRevoke(aliceID, bobID) {
		t.Fatalf("non-sender should not be able to revoke in a direct conversation")
	}
}

// TestCanRevokeGroup implements the group half of invariant 6:
// can_revoke(R, O) iff R == O or R is an admin.
func TestCanRevokeGroup(t *testing.T) {
	creatorID, _, _ := newUser(t)
	conv, err := CreateGroup("Test", creatorID)
	if err != nil {
		t.Fatalf("create group: %v", err)
	}
	memberID, _, _ := newUser(t)
	conv.AddMember(memberID)

	if !conv.CanRevoke(memberID, memberID) {
		t.Fatalf("sender rule failed")
	}
	if !conv.CanRevoke(creatorID, memberID) {
		t.Fatalf("admin rule failed")
	}
	if conv.CanRevoke(memberID, creatorID) {
		t.Fatalf("non-admin non-sender should be denied")
	}
}

func TestSenderAndAdminRecordedAsSender(t *testing.T) {
	creatorID, _, _ := newUser(t)
	conv, err := CreateGroup("Test", creatorID)
	if err != nil {
		t.Fatalf("create group: %v", err)
	}
	// The creator is both sender and admin for their own message; the
	// sender rule is evaluated first and must short-circuit.
	if !conv.CanRevoke(creatorID, creatorID) {
		t.Fatalf("expected creator to be able to revoke their own message")
	}
}

func TestAddRemoveMemberIdempotent(t *testing.T) {
	creatorID, _, _ := newUser(t)
	conv, err := CreateGroup("Test", creatorID)
	if err != nil {
		t.Fatalf("create group: %v", err)
	}
	memberID, _, _ := newUser(t)

	conv.AddMember(memberID)
	conv.AddMember(memberID)
	if !conv.Members[memberID] {
		t.Fatalf("expected member to be present")
	}

	conv.RemoveMember(memberID)
	conv.RemoveMember(memberID)
	if conv.Members[memberID] {
		t.Fatalf("expected member to be removed")
	}
}

func TestRemoveMemberClearsAdmin(t *testing.T) {
	creatorID, _, _ := newUser(t)
	conv, err := CreateGroup("Test", creatorID)
	if err != nil {
		t.Fatalf("create group: %v", err)
	}
	memberID, _, _ := newUser(t)
	conv.AddMember(memberID)
	if err := conv.SetAdmin(memberID, true); err != nil {
		t.Fatalf("set admin: %v", err)
	}

	conv.RemoveMember(memberID)
	if conv.Admins[memberID] {
		t.Fatalf("expected admin status to be cleared on removal")
	}
}

func TestSetAdminRequiresMembership(t *testing.T) {
	creatorID, _, _ := newUser(t)
	conv, err := CreateGroup("Test", creatorID)
	if err != nil {
		t.Fatalf("create group: %v", err)
	}
	strangerID, _, _ := newUser(t)
	if err := conv.SetAdmin(strangerID, true); err != ErrNotMember {
		t.Fatalf("expected ErrNotMember, got %v", err)
	}
}

func TestRotateGroupKeyIncrementsVersion(t *testing.T) {
	creatorID, _, _ := newUser(t)
	conv, err := CreateGroup("Test", creatorID)
	if err != nil {
		t.Fatalf("create group: %v", err)
	}
	oldKey := append([]byte(nil), conv.SessionKey...)
	newKey, err := conv.RotateGroupKey()
	if err != nil {
		t.Fatalf("rotate: %v", err)
	}
	if bytes.Equal(newKey, oldKey) {
		t.Fatalf("expected a fresh session key")
	}
	if conv.KeyVersion != 2 {
		t.Fatalf("expected key version 2, got %d", conv.KeyVersion)
	}
}

func TestUpdateSessionKeyRejectsStaleVersion(t *testing.T) {
	creatorID, _, _ := newUser(t)
	conv, err := CreateGroup("Test", creatorID)
	if err != nil {
		t.Fatalf("create group: %v", err)
	}
	if err := conv.UpdateSessionKey(make([]byte, crypto.KeySize), 1); err != ErrStaleKeyVersion {
		t.Fatalf("expected ErrStaleKeyVersion, got %v", err)
	}
	if err := conv.UpdateSessionKey(make([]byte, crypto.KeySize), 0); err != ErrStaleKeyVersion {
		t.Fatalf("expected ErrStaleKeyVersion, got %v", err)
	}
}
