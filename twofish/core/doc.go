// Package core implements the Twofish block cipher: the fixed permutation
// and MDS tables, the key schedule and the 16-round Feistel network.
//
// The MDS table is built lazily, once per process, and shared by every
// Cipher. A Cipher holds an immutable expanded key and only transforms
// single 16-byte blocks; chaining lives in package chain.
//
// Keys of 1 to 32 bytes are accepted. They are processed in 8-byte groups,
// so 16, 24 and 32-byte keys give the standard 128, 192 and 256-bit
// variants.
package core
