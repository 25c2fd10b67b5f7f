// Package inspect serves a live view of a rendered template over HTTP.
//
// A Session owns one rendered View and serializes every mutation of its
// data through Apply. Patches produced by a mutation are collected and
// broadcast to websocket clients as one message once the mutation returns.
//
// Routes:
//
//	GET /          inspector page
//	GET /snapshot  current output as JSON
//	GET /ws        websocket stream of snapshot and patch messages
//	GET /metrics   Prometheus metrics
package inspect
