// Package automation contains the pacing engine that drives one account
// session: a per-kind action queue, rolling-window rate limiting, randomized
// pacing delays, per-kind exponential backoff, and an append-only ledger of
// outcomes.
//
// The engine decides when an action may run, never what it does. Executing an
// action against the platform is delegated to an Executor, which is the sole
// I/O boundary.
//
// A single goroutine owns all mutable session state. Run() drives the loop;
// Enqueue() and Halt() are the only entry points safe to call from other
// goroutines.
package automation
