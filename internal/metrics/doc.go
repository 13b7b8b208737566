// Package metrics collects fault and scenario statistics for a run.
//
// Metrics counts faults raised, handled and escaped, cleanup blocks run,
// and the latency of each scenario. Raised faults are also counted per
// fault kind. It is thread-safe so the API server can read a snapshot while
// a run is in progress.
//
// # Basic Usage
//
//	m := metrics.New()
//
//	m.RecordRaised(err)
//	m.RecordHandled(err)
//	m.RecordCleanup()
//	m.RecordScenario(time.Since(start), escaped)
//
//	snap := m.Snapshot()
//	fmt.Printf("raised: %d, handled: %d, P99: %v\n",
//	    snap.FaultsRaised, snap.FaultsHandled, snap.P99Latency)
//
// # Thread Safety
//
// Counters are atomic; the latency samples and per-kind counts are guarded
// by a mutex.
package metrics
