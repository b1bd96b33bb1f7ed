// Package transport moves framed Twofish messages between peers.
//
// A Channel turns any io.ReadWriter into a message pipe: each message is
// optionally LZ4-compressed, encrypted as one framed ciphertext and sent
// in a length-prefixed wire frame. Endpoint runs channels over QUIC.
package transport
