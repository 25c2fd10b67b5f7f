// Package telemetry exports engine activity as Prometheus metrics.
//
// Metrics implements mte.Hooks, so it plugs straight into an engine:
//
//	reg := prometheus.NewRegistry()
//	m := telemetry.NewMetrics(telemetry.WithRegistry(reg))
//	engine := mte.New(mte.WithHooks(m))
//
//	// Count output mutations too
//	cancel := tree.Observe(m.ObservePatch)
//	defer cancel()
//
//	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
//
// Metrics collected:
//   - mte_renders_total: renders by template and status
//   - mte_render_duration_seconds: render latency by template
//   - mte_render_errors_total: failed renders by error type
//   - mte_updates_total: incremental updates by expression kind
//   - mte_patches_total: output tree mutations by patch op
//   - mte_inspector_clients: connected inspector websocket clients
//
// Tracing is built into the engine through the global OpenTelemetry
// provider; see mte.WithTracer.
package telemetry
