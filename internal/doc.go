// Package internal holds small helpers shared by the engine: confirmation
// code generation and device-string derivation. Nothing here is part of the
// public API.
package internal
