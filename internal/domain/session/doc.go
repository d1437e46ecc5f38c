// Package session orchestrates the study-session lifecycle.
//
// The Manager owns the session clock and the per-session collaborators:
// the activity collector, the distraction log and the break scheduler.
// It is the only component that creates, mutates and destroys a Session.
//
// Lifecycle:
//  1. Start creates the session, resets collector and log, begins ticking
//  2. Tick recomputes elapsed time and drives the break scheduler
//  3. Stop classifies the session, persists it and returns to idle
//  4. Discard clears all in-progress state without persisting
//
// Sessions shorter than the configured minimum are discarded silently on
// stop: no data point, no log entry. A persistence failure on stop never
// prevents the transition back to idle; the session is logically closed
// and the failure is surfaced to the caller as a recoverable error.
//
// Example Usage:
//
//	mgr := session.NewManager(cfg, records, bus, logger)
//	sess, err := mgr.Start("linear-algebra")
//	result, err := mgr.Stop(nil)
package session
