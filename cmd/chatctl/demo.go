package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"wakuchat/core/internal/chatclient"
	"wakuchat/core/internal/identity"
	"wakuchat/core/internal/resolver"
	"wakuchat/core/internal/store"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "run a self-contained direct-message exchange, revoke, and history replay",
	Long: `demo spins up two in-process identities sharing one transport — the
local identity at --identity if it exists, and a fresh ephemeral peer —
and walks through a direct conversation: send a message, revoke it, and
replay history to show the tombstone taking effect. It is meant to
exercise the full send/receive/revoke/history pipeline without a real
network.`,
	RunE: runDemo,
}

func init() {
	rootCmd.AddCommand(demoCmd)
}

func runDemo(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	tr := newTransport()

	self, err := loadOrCreateIdentity()
	if err != nil {
		return err
	}
	peer, err := identity.Create()
	if err != nil {
		return fmt.Errorf("generate peer identity: %w", err)
	}

	selfResolver := resolver.NewInMemoryResolver()
	peerResolver := resolver.NewInMemoryResolver()
	selfResolver.SetPublicKey(peer.UserID(), peer.PublicKey())
	peerResolver.SetPublicKey(self.UserID(), self.PublicKey())

	selfStore, err := localStore()
	if err != nil {
		return fmt.Errorf("open local store: %w", err)
	}
	defer selfStore.Close()

	selfClient := chatclient.New(self, tr, selfStore, selfResolver)
	peerClient := chatclient.New(peer, tr, store.NewMemoryStore(), peerResolver)

	if err := selfClient.Init(ctx, 5*time.Second); err != nil {
		return fmt.Errorf("self init: %w", err)
	}
	if err := peerClient.Init(ctx, 5*time.Second); err != nil {
		return fmt.Errorf("peer init: %w", err)
	}
	defer selfClient.Destroy(ctx)
	defer peerClient.Destroy(ctx)

	selfConv, err := selfClient.CreateDirectConversation(peer.UserID(), peer.PublicKey())
	if err != nil {
		return fmt.Errorf("create direct conversation: %w", err)
	}
	peerConv, err := peerClient.CreateDirectConversation(self.UserID(), self.PublicKey())
	if err != nil {
		return fmt.Errorf("peer join direct conversation: %w", err)
	}
	fmt.Printf("conversation: %s\n", selfConv.ID)

	if _, err := peerClient.Subscribe(peerConv.ID, func(m chatclient.Message) {
		fmt.Printf("peer observed: id=%s status=%s verified=%v content=%q\n", m.MessageID, m.Status, m.Verified, m.Content)
	}); err != nil {
		return fmt.Errorf("peer subscribe: %w", err)
	}
	if _, err := selfClient.Subscribe(selfConv.ID, func(chatclient.Message) {}); err != nil {
		return fmt.Errorf("self subscribe: %w", err)
	}

	mid, err := selfClient.SendMessage(ctx, selfConv.ID, "hello from chatctl")
	if err != nil {
		return fmt.Errorf("send: %w", err)
	}
	fmt.Printf("sent message: %s\n", mid)

	if _, err := selfClient.SendRevoke(ctx, selfConv.ID, mid, "sent by mistake"); err != nil {
		return fmt.Errorf("revoke: %w", err)
	}
	fmt.Printf("revoked message: %s\n", mid)

	history, err := peerClient.FetchHistory(ctx, peerConv.ID, transportHistoryQuery())
	if err != nil {
		return fmt.Errorf("fetch history: %w", err)
	}
	for _, m := range history {
		fmt.Printf("history: id=%s status=%s content=%q\n", m.MessageID, m.Status, m.Content)
	}
	return nil
}

func loadOrCreateIdentity() (*identity.Identity, error) {
	if id, err := loadIdentity(); err == nil {
		return id, nil
	}
	return identity.Create()
}

// localStore opens the encrypted on-disk message store when both
// --store and a secret (--store-secret, falling back to
// --identity-password) are configured, and an in-memory store
// otherwise — useful for a throwaway demo run.
func localStore() (store.Store, error) {
	secret := storeSecret
	if secret == "" {
		secret = identityPass
	}
	if storePath == "" || secret == "" {
		return store.NewMemoryStore(), nil
	}
	return store.NewFileStore(storePath, secret)
}
