// Package rate implements the fixed-window login throttle that runs before
// any account lookup. It is a coarse flood control, independent of the
// per-account lockout policy implemented by the engine.
package rate
