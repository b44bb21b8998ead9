package conversation

import (
	"bytes"
	"testing"
)

// TestCreateInviteJoinGroup implements the S2 three-party-group setup:
// the creator invites a peer, and the peer's joined conversation ends
// up with a byte-equal session key and key_version.
func TestCreateInviteJoinGroup(t *testing.T) {
	creatorID, _, _ := newUser(t)
	conv, err := CreateGroup("Test", creatorID)
	if err != nil {
		t.Fatalf("create group: %v", err)
	}

	bobID, bobSK, bobPK := newUser(t)
	inv, err := conv.CreateInvite(bobPK)
	if err != nil {
		t.Fatalf("create invite: %v", err)
	}

	bobConv, err := JoinGroup(inv, bobID, bobSK)
	if err != nil {
		t.Fatalf("join group: %v", err)
	}

	if bobConv.ID != conv.ID {
		t.Fatalf("group id mismatch after join")
	}
	if !bytes.Equal(bobConv.SessionKey, conv.SessionKey) {
		t.Fatalf("session key mismatch after join")
	}
	if bobConv.KeyVersion != conv.KeyVersion {
		t.Fatalf("key version mismatch after join")
	}
	if !bobConv.Members[creatorID] {
		t.Fatalf("expected joined conversation to retain the creator as a member")
	}
}

func TestJoinGroupRejectsWrongKey(t *testing.T) {
	creatorID, _, _ := newUser(t)
	conv, err := CreateGroup("Test", creatorID)
	if err != nil {
		t.Fatalf("create group: %v", err)
	}
	_, _, bobPK := newUser(t)
	inv, err := conv.CreateInvite(bobPK)
	if err != nil {
		t.Fatalf("create invite: %v", err)
	}

	wrongID, wrongSK, _ := newUser(t)
	if _, err := JoinGroup(inv, wrongID, wrongSK); err != ErrInviteDecrypt {
		t.Fatalf("expected ErrInviteDecrypt, got %v", err)
	}
}

func TestCreateInviteRejectsDirectConversation(t *testing.T) {
	aliceID, aliceSK, _ := newUser(t)
	bobID, _, bobPK := newUser(t)
	conv, err := CreateDirect(aliceID, aliceSK, bobID, bobPK)
	if err != nil {
		t.Fatalf("create direct: %v", err)
	}
	if _, err := conv.CreateInvite(bobPK); err != ErrNotGroup {
		t.Fatalf("expected ErrNotGroup, got %v", err)
	}
}
