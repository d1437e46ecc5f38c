// Package focus classifies a study session from its collected counters.
//
// The classification is a deterministic rule engine, not a statistical
// model: it maps the share of session time spent distracted onto one of
// three labels, with a long-session override so high absolute distraction
// cannot be washed out by a long denominator. The continuous score is
// advisory, used for live display only, and is never the persisted label.
package focus
