// Package frame builds and checks the framed message format.
//
// A framed message is a 16-byte header (magic, plaintext length, salt)
// followed by the payload, all encrypted as one CBC chain with
// ciphertext stealing, so the ciphertext is exactly 16 bytes longer than
// the plaintext. Optionally the result is carried as lowercase hex.
//
// The magic is the only integrity check. There is no MAC: a matching
// magic says the key was right, not that the payload is untouched.
package frame
