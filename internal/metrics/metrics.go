// Package metrics registers the process-wide prometheus counters and
// gauges the chat engine exposes: AEAD/decode failures on the receive
// path, and transport dial/publish/store-query outcomes.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// AeadAuthFailures counts envelopes dropped for AEAD tag
	// mismatch on the receive path.
	AeadAuthFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "wakuchat_aead_auth_failures_total",
		Help: "Number of envelopes dropped for AEAD authentication failure.",
	})

	// DecodeFailures counts malformed envelopes or chat messages
	// dropped on the receive path.
	DecodeFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "wakuchat_decode_failures_total",
		Help: "Number of envelopes dropped for malformed wire encoding.",
	})

	// SignatureFailures counts messages delivered with verified=false
	// because the sender's signature did not check out.
	SignatureFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "wakuchat_signature_failures_total",
		Help: "Number of messages delivered unverified due to signature failure.",
	})

	// TransportPublishOutcomes tags publish attempts by success/failure.
	TransportPublishOutcomes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wakuchat_transport_publish_total",
		Help: "Transport publish attempts by outcome.",
	}, []string{"outcome"})

	// TransportDialOutcomes tags bootstrap peer dial attempts by
	// success/failure.
	TransportDialOutcomes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wakuchat_transport_dial_total",
		Help: "Transport bootstrap dial attempts by outcome.",
	}, []string{"outcome"})

	// TransportStoreQueryOutcomes tags history query attempts by
	// success/failure/failover.
	TransportStoreQueryOutcomes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wakuchat_transport_store_query_total",
		Help: "Transport history query attempts by outcome.",
	}, []string{"outcome"})

	// DedupeCacheSize reports the live entry count of the dedupe
	// cache.
	DedupeCacheSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "wakuchat_dedupe_cache_size",
		Help: "Current number of live entries in the dedupe cache.",
	})
)

// Register adds every metric to reg. Call once at process startup;
// registering into a non-default registry keeps tests hermetic.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		AeadAuthFailures,
		DecodeFailures,
		SignatureFailures,
		TransportPublishOutcomes,
		TransportDialOutcomes,
		TransportStoreQueryOutcomes,
		DedupeCacheSize,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
