package chatclient

import "wakuchat/core/internal/conversation"

// CreateDirectConversation derives and registers the deterministic
// two-party conversation with peerID, recording peerPublicKey in the
// resolver so the receive pipeline can verify the peer's messages.
func (c *Client) CreateDirectConversation(peerID string, peerPublicKey []byte) (*conversation.Conversation, error) {
	conv, err := conversation.CreateDirect(c.identity.UserID(), c.identity.PrivateKey(), peerID, peerPublicKey)
	if err != nil {
		return nil, err
	}
	c.resolver.SetPublicKey(peerID, peerPublicKey)
	c.AddConversation(conv)
	return conv, nil
}

// CreateGroup creates and registers a new group conversation with the
// local identity as its sole member and admin.
func (c *Client) CreateGroup(name string) (*conversation.Conversation, error) {
	conv, err := conversation.CreateGroup(name, c.identity.UserID())
	if err != nil {
		return nil, err
	}
	c.AddConversation(conv)
	return conv, nil
}

// CreateInvite builds an out-of-band invite for conversationID,
// encrypting its current session key to inviteePublicKey.
func (c *Client) CreateInvite(conversationID string, inviteePublicKey []byte) (*conversation.Invite, error) {
	conv, err := c.getConversation(conversationID)
	if err != nil {
		return nil, err
	}
	return conv.CreateInvite(inviteePublicKey)
}

// JoinGroup decrypts inv and registers the resulting conversation. It
// records no public keys in the resolver; keys of group members are
// registered through AddMember or by the caller.
func (c *Client) JoinGroup(inv *conversation.Invite) (*conversation.Conversation, error) {
	conv, err := conversation.JoinGroup(inv, c.identity.UserID(), c.identity.PrivateKey())
	if err != nil {
		return nil, err
	}
	c.AddConversation(conv)
	return conv, nil
}

// AddMember adds userID to conversationID's membership.
func (c *Client) AddMember(conversationID, userID string, publicKey []byte) error {
	conv, err := c.getConversation(conversationID)
	if err != nil {
		return err
	}
	conv.AddMember(userID)
	if publicKey != nil {
		c.resolver.SetPublicKey(userID, publicKey)
	}
	return nil
}

// RemoveMember removes userID from conversationID's membership and
// admin set.
func (c *Client) RemoveMember(conversationID, userID string) error {
	conv, err := c.getConversation(conversationID)
	if err != nil {
		return err
	}
	conv.RemoveMember(userID)
	return nil
}

// SetAdmin grants or revokes admin status for userID within
// conversationID.
func (c *Client) SetAdmin(conversationID, userID string, isAdmin bool) error {
	conv, err := c.getConversation(conversationID)
	if err != nil {
		return err
	}
	return conv.SetAdmin(userID, isAdmin)
}

// RotateGroupKey draws and installs a fresh session key for
// conversationID, returning it so the caller can re-invite remaining
// members — rotation itself does not re-invite automatically.
func (c *Client) RotateGroupKey(conversationID string) ([]byte, error) {
	conv, err := c.getConversation(conversationID)
	if err != nil {
		return nil, err
	}
	return conv.RotateGroupKey()
}
