// Package activity collects passive interaction signals for the active
// study session: visibility changes, key presses, pointer moves and
// scrolls, plus a periodic sampler that detects inactivity periods.
//
// One Collector instance is owned by exactly one session; it is created
// at session start and torn down at stop or discard, so no counter state
// is ever shared across sessions. Signal handlers only mutate counters
// and never block or perform I/O.
package activity
