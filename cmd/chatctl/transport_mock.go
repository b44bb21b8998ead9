//go:build !real_waku

package main

import (
	"wakuchat/core/internal/transport"
)

// newTransport builds the default in-process transport. Build with
// -tags real_waku to dial a real go-waku node instead.
func newTransport() transport.Transport {
	return transport.NewMockTransport()
}

func transportHistoryQuery() transport.HistoryQuery {
	return transport.HistoryQuery{}
}
