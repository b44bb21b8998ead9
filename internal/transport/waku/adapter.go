//go:build real_waku

package waku

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	ma "github.com/multiformats/go-multiaddr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/waku-org/go-waku/waku/persistence"
	"github.com/waku-org/go-waku/waku/persistence/sqlite"
	wakuNode "github.com/waku-org/go-waku/waku/v2/node"
	"github.com/waku-org/go-waku/waku/v2/protocol"
	legacyStore "github.com/waku-org/go-waku/waku/v2/protocol/legacy_store"
	wpb "github.com/waku-org/go-waku/waku/v2/protocol/pb"
	"github.com/waku-org/go-waku/waku/v2/protocol/relay"
	"github.com/waku-org/go-waku/waku/v2/utils"

	"wakuchat/core/internal/metrics"
	"wakuchat/core/internal/transport"
)

// pubsubTopic is the single network-layer pub/sub topic every content
// topic rides on; routing between conversations is done purely by the
// application-layer content topic, matching the grammar in
// transport.ParseTopic.
const pubsubTopic = "/waku/2/default-waku/proto"

// Adapter implements transport.Transport over a real go-waku node.
type Adapter struct {
	mu             sync.RWMutex
	node           *wakuNode.WakuNode
	cfg            Config
	bootstrapNodes []string
	state          transport.ConnectionState

	subs          map[string]map[int]transport.Handler
	nextSubID     int
	stateHandlers map[int]transport.StateChangeHandler
	nextStateID   int

	maintainCancel context.CancelFunc
	maintainWG     sync.WaitGroup

	metrics adapterMetrics
}

type adapterMetrics struct {
	DialAttempts       int
	DialSuccess        int
	DialFailures       int
	StoreQueryFailover int
	StoreQueryFailures int
}

// New creates an Adapter that has not yet dialed out; call Connect to
// start the underlying go-waku node.
func New(cfg Config) *Adapter {
	return &Adapter{
		cfg:           normalizeConfig(cfg),
		subs:          make(map[string]map[int]transport.Handler),
		stateHandlers: make(map[int]transport.StateChangeHandler),
	}
}

func (a *Adapter) Connect(ctx context.Context) error {
	a.setState(transport.StateConnecting)

	opts := make([]wakuNode.WakuNodeOption, 0)
	hostAddr, err := net.ResolveTCPAddr("tcp", net.JoinHostPort("0.0.0.0", strconv.Itoa(a.cfg.Port)))
	if err != nil {
		a.setState(transport.StateDisconnected)
		return err
	}
	opts = append(opts, wakuNode.WithHostAddress(hostAddr))
	if a.cfg.EnableRelay {
		opts = append(opts, wakuNode.WithWakuRelay())
	}
	if a.cfg.EnableStore {
		provider, err := newInMemoryMessageProvider()
		if err != nil {
			a.setState(transport.StateDisconnected)
			return err
		}
		opts = append(opts, wakuNode.WithMessageProvider(provider), wakuNode.WithWakuStore())
	}

	node, err := wakuNode.New(opts...)
	if err != nil {
		a.setState(transport.StateDisconnected)
		return err
	}
	if err := node.Start(ctx); err != nil {
		a.setState(transport.StateDisconnected)
		return err
	}

	connectCtx, cancel := context.WithTimeout(ctx, a.cfg.ConnectTimeout)
	defer cancel()
	for _, addr := range a.cfg.BootstrapNodes {
		_ = node.DialPeer(connectCtx, addr)
	}

	a.mu.Lock()
	a.node = node
	a.bootstrapNodes = append([]string(nil), a.cfg.BootstrapNodes...)
	a.mu.Unlock()

	a.startPeerMaintenance()
	a.setState(transport.StateConnected)
	return nil
}

func (a *Adapter) Disconnect(ctx context.Context) error {
	a.stopPeerMaintenance()
	a.mu.Lock()
	node := a.node
	a.node = nil
	a.mu.Unlock()
	if node != nil {
		node.Stop()
	}
	a.setState(transport.StateDisconnected)
	return nil
}

func (a *Adapter) IsConnected() bool {
	return a.State() == transport.StateConnected
}

func (a *Adapter) State() transport.ConnectionState {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state
}

func (a *Adapter) setState(s transport.ConnectionState) {
	a.mu.Lock()
	a.state = s
	handlers := make([]transport.StateChangeHandler, 0, len(a.stateHandlers))
	for _, h := range a.stateHandlers {
		handlers = append(handlers, h)
	}
	a.mu.Unlock()
	for _, h := range handlers {
		h(s)
	}
}

func (a *Adapter) OnConnectionStateChange(handler transport.StateChangeHandler) transport.Unsubscribe {
	a.mu.Lock()
	id := a.nextStateID
	a.nextStateID++
	a.stateHandlers[id] = handler
	a.mu.Unlock()
	return func() {
		a.mu.Lock()
		delete(a.stateHandlers, id)
		a.mu.Unlock()
	}
}

func (a *Adapter) Publish(ctx context.Context, contentTopic string, payload []byte) error {
	a.mu.RLock()
	node := a.node
	a.mu.RUnlock()
	if node == nil {
		return transport.ErrPublish
	}
	ts := time.Now().UnixNano()
	wm := &wpb.WakuMessage{
		Payload:      payload,
		ContentTopic: contentTopic,
		Timestamp:    &ts,
	}
	if _, err := node.Relay().Publish(ctx, wm, relay.WithPubSubTopic(pubsubTopic)); err != nil {
		metrics.TransportPublishOutcomes.WithLabelValues("failure").Inc()
		return transport.ErrPublish
	}
	metrics.TransportPublishOutcomes.WithLabelValues("success").Inc()
	return nil
}

func (a *Adapter) Subscribe(contentTopic string, handler transport.Handler) (transport.Unsubscribe, error) {
	a.mu.Lock()
	node := a.node
	a.mu.Unlock()
	if node == nil {
		return nil, errors.New("waku: node is not connected")
	}

	filter := protocol.NewContentFilter(pubsubTopic, contentTopic)
	subs, err := node.Relay().Subscribe(context.Background(), filter)
	if err != nil {
		return nil, err
	}

	stopped := make(chan struct{})
	for _, sub := range subs {
		go func(subscription *relay.Subscription) {
			for {
				select {
				case env, ok := <-subscription.Ch:
					if !ok {
						return
					}
					if env == nil || env.Message() == nil {
						continue
					}
					handler(env.Message().Payload)
				case <-stopped:
					return
				}
			}
		}(sub)
	}

	return func() { close(stopped) }, nil
}

func (a *Adapter) QueryHistory(ctx context.Context, contentTopic string, q transport.HistoryQuery) (transport.HistoryResult, error) {
	a.mu.RLock()
	node := a.node
	bootstrapNodes := append([]string(nil), a.bootstrapNodes...)
	fanout := a.cfg.StoreQueryFanout
	a.mu.RUnlock()
	if node == nil {
		return transport.HistoryResult{}, errors.New("waku: node is not connected")
	}

	start := q.StartTime.UnixNano()
	end := q.EndTime.UnixNano()
	if q.EndTime.IsZero() {
		end = time.Now().UnixNano()
	}
	criteria := legacyStore.Query{
		PubsubTopic:   pubsubTopic,
		ContentTopics: []string{contentTopic},
		StartTime:     &start,
		EndTime:       &end,
	}
	pageSize := q.PageSize
	if pageSize <= 0 {
		pageSize = 100
	}
	baseOpts := []legacyStore.HistoryRequestOption{legacyStore.WithPaging(true, uint64(pageSize))}

	candidates := a.storeQueryCandidates(bootstrapNodes, fanout, baseOpts)

	var (
		result *legacyStore.Result
		err    error
	)
	for i, candidate := range candidates {
		result, err = node.LegacyStore().Query(ctx, criteria, candidate.opts...)
		if err == nil {
			if i > 0 {
				a.recordStoreQueryFailover()
				slog.Info("store query recovered via failover", "attempt", i+1)
			}
			break
		}
		a.recordStoreQueryFailure()
		slog.Warn("store query attempt failed", "peer_addr", candidate.peerAddr, "attempt", i+1, "reason", err.Error())
	}
	if err != nil {
		metrics.TransportStoreQueryOutcomes.WithLabelValues("failure").Inc()
		return transport.HistoryResult{}, err
	}
	metrics.TransportStoreQueryOutcomes.WithLabelValues("success").Inc()

	messages := make([][]byte, 0, len(result.Messages))
	for _, wm := range result.Messages {
		if wm == nil {
			continue
		}
		messages = append(messages, append([]byte(nil), wm.Payload...))
	}
	return transport.HistoryResult{Messages: messages}, nil
}

type storeCandidate struct {
	opts     []legacyStore.HistoryRequestOption
	peerAddr string
}

func (a *Adapter) storeQueryCandidates(bootstrapNodes []string, fanout int, baseOpts []legacyStore.HistoryRequestOption) []storeCandidate {
	if fanout <= 0 {
		fanout = 1
	}
	candidates := make([]storeCandidate, 0, fanout+1)
	seen := make(map[string]struct{}, len(bootstrapNodes))
	for _, addr := range bootstrapNodes {
		if len(candidates) >= fanout {
			break
		}
		addr = strings.TrimSpace(addr)
		if addr == "" {
			continue
		}
		if _, ok := seen[addr]; ok {
			continue
		}
		seen[addr] = struct{}{}
		peerAddr, err := ma.NewMultiaddr(addr)
		if err != nil {
			continue
		}
		opts := append([]legacyStore.HistoryRequestOption{}, baseOpts...)
		opts = append(opts, legacyStore.WithPeerAddr(peerAddr))
		candidates = append(candidates, storeCandidate{opts: opts, peerAddr: addr})
	}
	candidates = append(candidates, storeCandidate{
		opts:     append([]legacyStore.HistoryRequestOption{}, baseOpts...),
		peerAddr: "auto",
	})
	return candidates
}

func (a *Adapter) startPeerMaintenance() {
	a.mu.Lock()
	if a.maintainCancel != nil {
		a.maintainCancel()
		a.maintainCancel = nil
	}
	if len(a.bootstrapNodes) == 0 || a.node == nil {
		a.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.maintainCancel = cancel
	a.maintainWG.Add(1)
	cfg := a.cfg
	a.mu.Unlock()

	go func() {
		defer a.maintainWG.Done()
		ticker := time.NewTicker(cfg.ReconnectInterval)
		defer ticker.Stop()

		backoff := cfg.ReconnectInterval
		nextAttemptAt := time.Now()
		rnd := rand.New(rand.NewSource(time.Now().UnixNano()))

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if time.Now().Before(nextAttemptAt) {
					continue
				}
				if !a.needMorePeers() {
					backoff = cfg.ReconnectInterval
					nextAttemptAt = time.Now()
					continue
				}
				ok := a.redialBootstrapPeers(ctx, rnd)
				if ok || !a.needMorePeers() {
					backoff = cfg.ReconnectInterval
					nextAttemptAt = time.Now()
					continue
				}
				backoff *= 2
				if backoff > cfg.ReconnectBackoffMax {
					backoff = cfg.ReconnectBackoffMax
				}
				jitter := time.Duration(rnd.Int63n(int64(backoff/2) + 1))
				nextAttemptAt = time.Now().Add(backoff + jitter)
			}
		}
	}()
}

func (a *Adapter) stopPeerMaintenance() {
	a.mu.Lock()
	cancel := a.maintainCancel
	a.maintainCancel = nil
	a.mu.Unlock()
	if cancel != nil {
		cancel()
		a.maintainWG.Wait()
	}
}

func (a *Adapter) needMorePeers() bool {
	a.mu.RLock()
	node := a.node
	bootstrapCount := len(a.bootstrapNodes)
	target := a.cfg.MinPeers
	a.mu.RUnlock()
	if node == nil {
		return false
	}
	if target <= 0 {
		target = desiredPeerFloor(bootstrapCount)
	}
	if bootstrapCount > 0 && target > bootstrapCount {
		target = bootstrapCount
	}
	return node.PeerCount() < target
}

func desiredPeerFloor(bootstrapCount int) int {
	if bootstrapCount <= 0 {
		return 0
	}
	if bootstrapCount == 1 {
		return 1
	}
	return 2
}

func (a *Adapter) redialBootstrapPeers(ctx context.Context, rnd *rand.Rand) bool {
	a.mu.RLock()
	node := a.node
	bootstrapNodes := append([]string(nil), a.bootstrapNodes...)
	a.mu.RUnlock()
	if node == nil || len(bootstrapNodes) == 0 {
		return false
	}
	rnd.Shuffle(len(bootstrapNodes), func(i, j int) {
		bootstrapNodes[i], bootstrapNodes[j] = bootstrapNodes[j], bootstrapNodes[i]
	})

	success := false
	for i, addr := range bootstrapNodes {
		addr = strings.TrimSpace(addr)
		if addr == "" {
			continue
		}
		a.recordDialAttempt()
		if err := node.DialPeer(ctx, addr); err == nil {
			a.recordDialSuccess()
			success = true
			slog.Info("peer redial succeeded", "peer_addr", addr, "attempt", i+1)
		} else {
			a.recordDialFailure()
			slog.Warn("peer redial failed", "peer_addr", addr, "attempt", i+1, "reason", err.Error())
		}
	}
	return success
}

func (a *Adapter) recordDialAttempt() { a.mu.Lock(); a.metrics.DialAttempts++; a.mu.Unlock() }
func (a *Adapter) recordDialSuccess() {
	a.mu.Lock()
	a.metrics.DialSuccess++
	a.mu.Unlock()
	metrics.TransportDialOutcomes.WithLabelValues("success").Inc()
}
func (a *Adapter) recordDialFailure() {
	a.mu.Lock()
	a.metrics.DialFailures++
	a.mu.Unlock()
	metrics.TransportDialOutcomes.WithLabelValues("failure").Inc()
}
func (a *Adapter) recordStoreQueryFailover() {
	a.mu.Lock()
	a.metrics.StoreQueryFailover++
	a.mu.Unlock()
	metrics.TransportStoreQueryOutcomes.WithLabelValues("failover").Inc()
}
func (a *Adapter) recordStoreQueryFailure() {
	a.mu.Lock()
	a.metrics.StoreQueryFailures++
	a.mu.Unlock()
}

func newInMemoryMessageProvider() (*persistence.DBStore, error) {
	db, err := sqlite.NewDB(":memory:", utils.Logger())
	if err != nil {
		return nil, err
	}
	return persistence.NewDBStore(
		prometheus.DefaultRegisterer,
		utils.Logger(),
		persistence.WithDB(db),
		persistence.WithMigrations(sqlite.Migrations),
	)
}
