// Package twofish is the entry point of the TwoFish module.
//
// It offers one-shot helpers over package frame for callers that encrypt
// the occasional message. Long-lived users should keep a frame.Codec per
// stream so the key schedule runs once.
//
// Layout:
//   - core: tables, key schedule, block cipher
//   - chain: CBC with ciphertext stealing
//   - frame: header framing, hex transport, salts
//   - transport: encrypted message channels over streams and QUIC
//   - config: environment configuration for binaries
package twofish
