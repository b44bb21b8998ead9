package chatclient

import "errors"

var (
	// ErrConversationNotFound is returned by any operation addressing a
	// conversation id the client does not hold locally.
	ErrConversationNotFound = errors.New("chatclient: conversation not found")
	// ErrPermissionDenied marks a revoke discarded by the can_revoke
	// oracle. It is never returned to a caller — it only appears inside
	// a CategorizedError on the background error channel, since the
	// receive pipeline's disposition for a denied revoke is a silent
	// discard to the subscription callback.
	ErrPermissionDenied = errors.New("chatclient: revoker is neither sender nor admin")
	// ErrSignatureInvalid marks a message whose signature failed to
	// verify against the resolved sender public key.
	ErrSignatureInvalid = errors.New("chatclient: signature verification failed")
	// ErrSenderUnknown marks a message whose sender has no entry in the
	// public key resolver; it is delivered with verified=false rather
	// than dropped.
	ErrSenderUnknown = errors.New("chatclient: sender public key not resolvable")
	// ErrClientDestroyed is returned, once Destroy has run, by every
	// operation that addresses a conversation by id (send, revoke,
	// subscribe, history, invites, membership and key changes).
	ErrClientDestroyed = errors.New("chatclient: client has been destroyed")
)
