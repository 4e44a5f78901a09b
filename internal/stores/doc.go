// Package stores contains Redis-backed record stores used by the engine:
// the append-only per-user login log and the dual-TTL confirmation-code
// store. Keys, encodings, and TTL handling are implementation details and
// must not leak into the public API.
package stores
