// Package observable provides the mutable data sources that drive MTE
// templates.
//
// Three kinds of observable are provided:
//
//   - Object: a property record with per-property and wildcard change
//     notification.
//   - Map: a keyed collection firing set, change and clear events.
//   - Sequence: an ordered collection firing add and remove events.
//
// # Dispatch
//
// Notification is synchronous. Every mutating call (Set, Assign, Add,
// Remove, Clear) invokes the currently registered handlers inline, in
// registration order, before it returns. A handler that mutates another
// observable dispatches recursively. Handlers registered or removed while a
// dispatch is running take effect from the next dispatch on.
//
// Handlers return an error. Dispatch never stops early: all handlers run and
// the mutating call returns their errors joined together.
//
// # Subscriptions
//
// Every Listen call returns a *Subscription. Cancelling it is idempotent and
// is the only way to release a handler; handler functions are never compared.
//
// Each observable owns its own handler hub, created at construction.
package observable
