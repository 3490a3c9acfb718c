// Package threadx provides lifecycle primitives for plain goroutine workers.
// Handles wrap a single worker with start-once/join-idempotent semantics,
// Sets group handles for set algebra and bulk start/join under a shared
// budget, and Managers own every handle they create and join them all on
// scope exit, on error paths included.
package threadx
