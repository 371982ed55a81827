package wire

import (
	"encoding/binary"
	"fmt"
	"io"
)

// frameTag marks the start of every frame on the wire, ahead of the
// little-endian u32 payload length at offset 4.
var frameTag = [4]byte{0x00, 0x01, 0x02, 0x03}

const frameHeaderSize = 8

// Envelope discriminants, prepended to a frame's payload ahead of the
// envelope-specific encoding.
const (
	TagFunctionCall    byte = 0x01
	TagFunctionReply   byte = 0x02
	TagAuthenticate    byte = 0x10
	TagAuthenticateReply byte = 0x11
)

// WriteFrame writes tag-prefixed, length-prefixed payload to w in one Write
// call, built from a single backing buffer so a partial short write can
// never split the header from the payload mid-flight at this layer.
func WriteFrame(w io.Writer, payload []byte) error {
	if len(payload) > MaxByteLength {
		return fmt.Errorf("%w: frame payload %d bytes", ErrTooLarge, len(payload))
	}
	buf := make([]byte, frameHeaderSize+len(payload))
	copy(buf[0:4], frameTag[:])
	binary.LittleEndian.PutUint32(buf[4:8], uint32(len(payload)))
	copy(buf[8:], payload)
	_, err := w.Write(buf)
	return err
}

// ReadFrame reads one tag-prefixed, length-prefixed frame from r, handling
// partial reads across both the header and payload (named pipes and FIFOs
// do not guarantee message-mode delivery of a single Write).
func ReadFrame(r io.Reader) ([]byte, error) {
	header := make([]byte, frameHeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, err
	}
	if header[0] != frameTag[0] || header[1] != frameTag[1] ||
		header[2] != frameTag[2] || header[3] != frameTag[3] {
		return nil, fmt.Errorf("%w: bad frame tag %x", ErrDecode, header[0:4])
	}
	n := binary.LittleEndian.Uint32(header[4:8])
	if n > MaxByteLength {
		return nil, fmt.Errorf("%w: frame length %d", ErrTooLarge, n)
	}
	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}
	return payload, nil
}
