package relay

import "encoding/binary"

// frameHeaderSize is the number of bytes the relay prepends to a binary
// input payload: one unsigned 16-bit little-endian player index.
const frameHeaderSize = 2

// FramePlayerInput wraps a raw client input payload with the player's wire
// index so the host can tell inputs apart without a JSON round trip. The
// output is exactly frameHeaderSize+len(payload) bytes: the index as u16
// little-endian, then the payload verbatim. No other transformation or
// validation happens on this path.
func FramePlayerInput(index int, payload []byte) []byte {
	buf := make([]byte, frameHeaderSize+len(payload))
	binary.LittleEndian.PutUint16(buf, uint16(index))
	copy(buf[frameHeaderSize:], payload)
	return buf
}
