package lbytes

import (
	"bytes"
	"encoding/binary"
)

type Writer struct {
	buf bytes.Buffer
}

func NewWriter() *Writer {
	return &Writer{}
}

func (w *Writer) WriteBytes(bs []byte) {
	w.buf.Write(bs)
}

func (w *Writer) WriteString(s string) {
	w.buf.WriteString(s)
}

func (w *Writer) WriteUint16(order binary.ByteOrder, v uint16) {
	bs := make([]byte, 2)
	order.PutUint16(bs, v)
	w.buf.Write(bs)
}

func (w *Writer) WriteUint32(order binary.ByteOrder, v uint32) {
	bs := make([]byte, 4)
	order.PutUint32(bs, v)
	w.buf.Write(bs)
}

func (w *Writer) Len() int {
	return w.buf.Len()
}

func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}
