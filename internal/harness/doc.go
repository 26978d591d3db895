// Package harness runs scripted scenarios against a fresh state.Store and
// checks the outcome.
//
// A scenario is a YAML file with a list of steps. Each step either sends an
// event or runs a query, and may carry an expect clause. After the steps,
// assertions check the final document and the number of notifications.
//
// Every run is deterministic: seq numbers come from a resettable clock and
// flow tokens are "<flow_token>-1", "<flow_token>-2", ... so the canonical
// trace can be compared byte-for-byte with a golden file (see RunWithGolden).
package harness
