// Package stego hides byte messages in the least significant bit of every
// byte of a pixel buffer.
//
// Layout of the byte plane:
//
//	bytes [0, 32)          message length in bits, one bit per byte, MSB first
//	bytes [32, 32+length)  message bits, one bit per byte, each message byte MSB first
//
// Only bit 0 of a carrier byte is ever written; the seven high bits are kept.
package stego

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/32bitkid/bitreader"
	"github.com/rs/zerolog/log"

	"impro/core"
)

// HeaderBits is the width of the length header: one uint32, one bit per
// carrier byte.
const HeaderBits = 32

// Capacity returns how many message bytes buf can carry.
func Capacity(buf *core.Buffer) int {
	if buf.Size() < HeaderBits {
		return 0
	}
	return (buf.Size() - HeaderBits) / 8
}

// Encode embeds message into buf. When the header and the message bits do
// not fit, Encode returns core.ErrInsufficientCapacity and buf is unchanged.
func Encode(buf *core.Buffer, message []byte) error {
	need := uint64(len(message))*8 + HeaderBits
	if uint64(len(message))*8 > math.MaxUint32 || need > uint64(buf.Size()) {
		log.Warn().
			Uint64("need_bits", need).
			Int("have_bits", buf.Size()).
			Msg("message too large")
		return fmt.Errorf("%w: message needs %d bits, buffer holds %d",
			core.ErrInsufficientCapacity, need, buf.Size())
	}
	length := uint32(len(message)) * 8
	pix := buf.Bytes()

	// 1. Header
	for i := 0; i < HeaderBits; i++ {
		pix[i] = pix[i]&0xFE | uint8(length>>(HeaderBits-1-i))&1
	}

	// 2. Payload
	var br bitreader.BitReader8 = bitreader.NewReader(bytes.NewReader(message))
	for i := 0; i < int(length); i++ {
		// The reader holds exactly length bits, so Read1 cannot run dry.
		bit, _ := br.Read1()
		pix[HeaderBits+i] &= 0xFE
		if bit {
			pix[HeaderBits+i] |= 1
		}
	}
	return nil
}

// MessageBits reads the length header of buf.
func MessageBits(buf *core.Buffer) (uint32, error) {
	if buf.Size() < HeaderBits {
		return 0, fmt.Errorf("%w: buffer of %d bytes has no room for a %d-bit header",
			core.ErrInsufficientCapacity, buf.Size(), HeaderBits)
	}
	var length uint32
	for _, b := range buf.Bytes()[:HeaderBits] {
		length = length<<1 | uint32(b&1)
	}
	return length, nil
}

// Decode extracts the message embedded in buf into dst and returns its
// length in bytes. A header length that is not a multiple of 8 is
// truncated to whole bytes. io.ErrShortBuffer is returned when dst cannot
// hold the message; dst is not touched in that case.
func Decode(buf *core.Buffer, dst []byte) (int, error) {
	length, err := MessageBits(buf)
	if err != nil {
		return 0, err
	}
	if uint64(length) > uint64(buf.Size()-HeaderBits) {
		return 0, fmt.Errorf("%w: header announces %d bits, buffer carries %d",
			core.ErrCorruptHeader, length, buf.Size()-HeaderBits)
	}
	n := int(length / 8)
	if len(dst) < n {
		return 0, fmt.Errorf("%d byte message: %w", n, io.ErrShortBuffer)
	}

	payload := buf.Bytes()[HeaderBits : HeaderBits+n*8]
	for i := 0; i < n; i++ {
		var b byte
		for _, c := range payload[i*8 : i*8+8] {
			b = b<<1 | c&1
		}
		dst[i] = b
	}
	return n, nil
}

// Extract is like Decode but allocates the message.
func Extract(buf *core.Buffer) ([]byte, error) {
	length, err := MessageBits(buf)
	if err != nil {
		return nil, err
	}
	if uint64(length) > uint64(buf.Size()-HeaderBits) {
		return nil, fmt.Errorf("%w: header announces %d bits, buffer carries %d",
			core.ErrCorruptHeader, length, buf.Size()-HeaderBits)
	}
	msg := make([]byte, length/8)
	n, err := Decode(buf, msg)
	if err != nil {
		return nil, err
	}
	return msg[:n], nil
}
