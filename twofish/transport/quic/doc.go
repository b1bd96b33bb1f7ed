// Package quic carries byte streams over QUIC for the transport package.
// Each connection holds a single bidirectional stream.
package quic
