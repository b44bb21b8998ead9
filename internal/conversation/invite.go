package conversation

import (
	"encoding/hex"
	"errors"
	"sort"

	"wakuchat/core/internal/crypto"
)

// ErrInviteDecrypt is returned when joining a group fails because the
// invite's ECIES blob does not decrypt under the joiner's private key.
var ErrInviteDecrypt = errors.New("conversation: invite key could not be decrypted")

// Invite is the application-defined, out-of-band group invite object.
// EncryptedGroupKey is the ECIES blob ephemeral_pk(33B) || nonce(12B) ||
// ciphertext(variable).
type Invite struct {
	GroupID           string
	GroupName         string
	EncryptedGroupKey []byte
	Members           []string
	Admins            []string
	KeyVersion        uint32
}

// EncryptedGroupKeyHex returns the invite's ECIES blob hex-encoded, the
// wire shape used by the out-of-band group invite JSON.
func (inv *Invite) EncryptedGroupKeyHex() string {
	return hex.EncodeToString(inv.EncryptedGroupKey)
}

// CreateInvite produces an invite for an existing group conversation,
// encrypting the current session key to inviteePublicKey via ECIES.
// It only applies to group conversations.
func (c *Conversation) CreateInvite(inviteePublicKey []byte) (*Invite, error) {
	if c.Type != Group {
		return nil, ErrNotGroup
	}
	blob, err := crypto.ECIESEncrypt(c.SessionKey, inviteePublicKey)
	if err != nil {
		return nil, err
	}

	members := c.MemberIDs()
	admins := make([]string, 0, len(c.Admins))
	for id := range c.Admins {
		admins = append(admins, id)
	}
	sort.Strings(admins)

	return &Invite{
		GroupID:           c.ID,
		GroupName:         c.Name,
		EncryptedGroupKey: blob,
		Members:           members,
		Admins:            admins,
		KeyVersion:        c.KeyVersion,
	}, nil
}

// JoinGroup decrypts inv's ECIES blob with (myID, myPrivateKey) and
// returns the resulting Conversation with the joiner appended to its
// member set. It only succeeds if ECIES decryption succeeds.
func JoinGroup(inv *Invite, myID string, myPrivateKey []byte) (*Conversation, error) {
	sessionKey, err := crypto.ECIESDecrypt(inv.EncryptedGroupKey, myPrivateKey)
	if err != nil {
		return nil, ErrInviteDecrypt
	}

	members := map[string]bool{myID: true}
	for _, id := range inv.Members {
		members[id] = true
	}
	admins := map[string]bool{}
	for _, id := range inv.Admins {
		admins[id] = true
	}

	return &Conversation{
		ID:         inv.GroupID,
		Type:       Group,
		Name:       inv.GroupName,
		Members:    members,
		Admins:     admins,
		SessionKey: sessionKey,
		KeyVersion: inv.KeyVersion,
	}, nil
}
