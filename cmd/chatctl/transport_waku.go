//go:build real_waku

package main

import (
	"wakuchat/core/internal/transport"
	waku "wakuchat/core/internal/transport/waku"
)

// newTransport builds a real go-waku-backed transport using default
// bootstrap settings. Demo purposes only — a production CLI would
// expose --bootstrap-peer and --waku-port flags.
func newTransport() transport.Transport {
	return waku.New(waku.DefaultConfig())
}

func transportHistoryQuery() transport.HistoryQuery {
	return transport.HistoryQuery{PageSize: 100}
}
