package wire

import (
	"fmt"

	"go.dedis.ch/protobuf"
)

// Marshal encodes a wire message to its binary form.
func Marshal(msg interface{}) ([]byte, error) {
	buf, err := protobuf.Encode(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %T: %v", msg, err)
	}
	return buf, nil
}

// Unmarshal decodes buf into msg, which must be a pointer to a wire
// message struct.
func Unmarshal(buf []byte, msg interface{}) error {
	if err := protobuf.Decode(buf, msg); err != nil {
		return fmt.Errorf("failed to decode %T: %v", msg, err)
	}
	return nil
}

// Envelope wraps an encoded payload in a typed ResponseMessage frame.
func Envelope(t ResponseType, payload interface{}) ([]byte, error) {
	body, err := Marshal(payload)
	if err != nil {
		return nil, err
	}
	return Marshal(&ResponseMessage{Type: t, Payload: body})
}
