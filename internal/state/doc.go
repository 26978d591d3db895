// Package state implements the contacts application store.
//
// A Store owns one ir.State document. Callers mutate it only by sending
// events and read it through queries or the callbacks registered with
// OnUpdate and Subscribe.
//
// Dispatch:
//  1. Send parses a wire name ("nameChange", "numChange", ...) into an Event
//  2. SendEvent stamps the event with a logical seq and a flow token
//  3. Apply runs the reducer, which reports whether any field changed
//  4. If something changed, every callback is invoked with a copy of the state
//
// Change detection is done by the reducer itself: each handler compares the
// old and new field value. No snapshot is taken and no deep comparison is run.
//
// Threading:
// A Store is not safe for concurrent use. Every operation runs to completion
// on the caller's goroutine, callbacks included. A callback may call back into
// the store (for example to send a follow-up event); that dispatch completes
// before the outer call returns.
package state
