package chatclient

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"wakuchat/core/internal/conversation"
	"wakuchat/core/internal/dedupe"
	"wakuchat/core/internal/identity"
	"wakuchat/core/internal/platform/ratelimiter"
	"wakuchat/core/internal/resolver"
	"wakuchat/core/internal/store"
	"wakuchat/core/internal/transport"
)

// DefaultConnectDeadline bounds how long Init waits for the transport
// to reach StateConnected.
const DefaultConnectDeadline = 30 * time.Second

// subscriptionEntry fans a single underlying transport subscription
// out to every locally registered handler for a conversation id, so N
// callers subscribing to the same conversation cost one transport
// subscription.
type subscriptionEntry struct {
	unsubscribe transport.Unsubscribe
	handlers    map[int]func(Message)
	nextID      int
}

// Client is the orchestrator tying identity, conversation state, the
// wire codec, the dedupe cache, a transport adapter, a public-key
// resolver, and local persistence into the send/receive/revoke/history
// pipelines.
type Client struct {
	mu            sync.RWMutex
	identity      *identity.Identity
	transport     transport.Transport
	store         store.Store
	resolver      resolver.PublicKeyResolver
	dedupe        *dedupe.Cache
	retryConfig   transport.RetryConfig
	conversations map[string]*conversation.Conversation
	subs          map[string]*subscriptionEntry
	errCh         chan CategorizedError
	destroyed     bool
	logger        *slog.Logger
	config        Config
	senderLimiter *ratelimiter.MapLimiter
}

// New builds a Client over the given collaborators using DefaultConfig.
// errCh is allocated with a small internal buffer; callers that do not
// drain it simply stop receiving new background errors once it fills,
// they never block the receive pipeline. Logging goes to slog.Default();
// use SetLogger to redirect it.
func New(id *identity.Identity, t transport.Transport, s store.Store, r resolver.PublicKeyResolver) *Client {
	return NewWithConfig(id, t, s, r, DefaultConfig())
}

// NewWithConfig is New with an explicit Config, normalized against
// DefaultConfig's fallbacks for any zero-valued field.
func NewWithConfig(id *identity.Identity, t transport.Transport, s store.Store, r resolver.PublicKeyResolver, cfg Config) *Client {
	cfg = normalizeConfig(cfg)
	return &Client{
		identity:      id,
		transport:     t,
		store:         s,
		resolver:      r,
		dedupe:        dedupe.New(cfg.DedupeTTL, cfg.DedupeCapacity),
		retryConfig:   cfg.retryConfig(),
		conversations: make(map[string]*conversation.Conversation),
		subs:          make(map[string]*subscriptionEntry),
		errCh:         make(chan CategorizedError, 64),
		logger:        slog.Default(),
		config:        cfg,
		senderLimiter: ratelimiter.New(cfg.InboundPerSenderRPS, cfg.InboundPerSenderBurst, cfg.InboundIdleTTL),
	}
}

// SetLogger redirects the client's structured logging. Passing nil
// restores slog.Default().
func (c *Client) SetLogger(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	c.mu.Lock()
	c.logger = logger
	c.mu.Unlock()
}

func (c *Client) log() *slog.Logger {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.logger
}

// Errors returns the channel background pipeline errors are pushed to
// — decode/AEAD/signature/permission failures that are never delivered
// to a subscription handler. It is closed by Destroy.
func (c *Client) Errors() <-chan CategorizedError { return c.errCh }

func (c *Client) recordError(ce CategorizedError) {
	select {
	case c.errCh <- ce:
	default:
	}
}

// Init connects the transport, failing with transport.ErrConnectTimeout
// if StateConnected is not reached within deadline (the Config's
// ConnectTimeout, DefaultConnectDeadline unless configured otherwise,
// if deadline <= 0).
func (c *Client) Init(ctx context.Context, deadline time.Duration) error {
	if deadline <= 0 {
		deadline = c.config.ConnectTimeout
	}
	connectCtx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	if err := c.transport.Connect(connectCtx); err != nil {
		if connectCtx.Err() == context.DeadlineExceeded {
			return transport.ErrConnectTimeout
		}
		return err
	}
	if !c.transport.IsConnected() {
		return transport.ErrConnectTimeout
	}
	return nil
}

// Destroy unsubscribes every topic, disconnects the transport,
// zero-initializes the identity's private key and every conversation's
// session key, and closes the error channel. The client must not be
// used afterward.
func (c *Client) Destroy(ctx context.Context) error {
	c.mu.Lock()
	if c.destroyed {
		c.mu.Unlock()
		return nil
	}
	c.destroyed = true
	for _, entry := range c.subs {
		entry.unsubscribe()
	}
	c.subs = make(map[string]*subscriptionEntry)
	for _, conv := range c.conversations {
		for i := range conv.SessionKey {
			conv.SessionKey[i] = 0
		}
	}
	c.mu.Unlock()

	err := c.transport.Disconnect(ctx)
	c.identity.Destroy()
	close(c.errCh)
	return err
}

// AddConversation registers a conversation the caller has already
// created or joined, making it addressable by id for send/receive.
func (c *Client) AddConversation(conv *conversation.Conversation) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conversations[conv.ID] = conv
}

// Conversation returns a registered conversation by id.
func (c *Client) Conversation(conversationID string) (*conversation.Conversation, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	conv, ok := c.conversations[conversationID]
	return conv, ok
}

func (c *Client) getConversation(conversationID string) (*conversation.Conversation, error) {
	c.mu.RLock()
	destroyed := c.destroyed
	conv, ok := c.conversations[conversationID]
	c.mu.RUnlock()
	if destroyed {
		return nil, ErrClientDestroyed
	}
	if !ok {
		return nil, ErrConversationNotFound
	}
	return conv, nil
}

func topicForConversation(conv *conversation.Conversation) string {
	if conv.Type == conversation.Group {
		return transport.GroupTopic(conv.ID)
	}
	return transport.DirectTopic(conv.ID)
}
