// Package protocol dispatches GDL90 frames to typed messages.
//
// Ownership boundary:
// - message id registry and lookup
// - single, batch and parallel frame parsing
// - frame encoding of typed messages
//
// Bit sequences, field codecs, framing and message layouts live in the bits,
// field, frame and message subpackages.
package protocol
