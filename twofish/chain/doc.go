// Package chain implements CBC chaining with ciphertext stealing.
//
// The Engine keeps the most recent block pending instead of writing it
// immediately. When the message ends on a full block the pending block is
// simply flushed; when it ends on a partial block the pending block is
// recombined with it so the ciphertext is exactly as long as the
// plaintext. Output goes to a Sink in plaintext order.
package chain
