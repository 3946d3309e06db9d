// Package metrics exposes resolver activity as Prometheus metrics.
//
// A [Collector] implements the observability hook interfaces. Install it
// before a run and write the result with [Collector.WriteTextfile]:
//
//	m := metrics.New()
//	m.Install()
//	defer observability.Reset()
//	// ... resolve ...
//	err := m.WriteTextfile("/var/lib/node_exporter/jarwalk.prom")
//
// jarwalk is a one-shot CLI, so metrics are written to a file for a
// textfile collector instead of being served over HTTP.
package metrics
