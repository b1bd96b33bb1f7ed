package transport

// MessageType tags a wire frame.
type MessageType uint8

const (
	MessageTypeData    MessageType = 1 // encrypted message
	MessageTypeDataLZ4 MessageType = 2 // encrypted message, LZ4 inside
	MessageTypeClose   MessageType = 3
)

func (t MessageType) String() string {
	switch t {
	case MessageTypeData:
		return "DATA"
	case MessageTypeDataLZ4:
		return "DATA_LZ4"
	case MessageTypeClose:
		return "CLOSE"
	default:
		return "UNKNOWN"
	}
}
