// Package lbytes provides cursor-based reading and writing of the raw byte
// layout of DICOM streams, with explicit byte order on every numeric access.
package lbytes

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

type Reader struct {
	buf    []byte
	offset int
}

func NewReader(bs []byte) *Reader {
	return &Reader{buf: bs}
}

// Offset returns the number of bytes consumed so far.
func (r *Reader) Offset() int {
	return r.offset
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.buf) - r.offset
}

// Slice returns the raw bytes between two absolute offsets. It is used to
// retain the exact original encoding of a decoded region.
func (r *Reader) Slice(from int, to int) []byte {
	return r.buf[from:to]
}

func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 || n > r.Remaining() {
		return nil, errors.Errorf(
			"ReadBytes error: need %d bytes at offset %d, have %d",
			n, r.offset, r.Remaining(),
		)
	}
	bs := r.buf[r.offset : r.offset+n]
	r.offset += n
	return bs, nil
}

func (r *Reader) ReadString(n int) (string, error) {
	bs, err := r.ReadBytes(n)
	if err != nil {
		return "", err
	}
	return string(bs), nil
}

func (r *Reader) ReadUint16(order binary.ByteOrder) (uint16, error) {
	bs, err := r.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return order.Uint16(bs), nil
}

func (r *Reader) ReadUint32(order binary.ByteOrder) (uint32, error) {
	bs, err := r.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return order.Uint32(bs), nil
}

// PeekUint16 reads a 16-bit value without consuming it.
func (r *Reader) PeekUint16(order binary.ByteOrder) (uint16, error) {
	if r.Remaining() < 2 {
		return 0, errors.Errorf("PeekUint16 error: need 2 bytes at offset %d, have %d", r.offset, r.Remaining())
	}
	return order.Uint16(r.buf[r.offset : r.offset+2]), nil
}

// Skip consumes n bytes without returning them.
func (r *Reader) Skip(n int) error {
	_, err := r.ReadBytes(n)
	return err
}
