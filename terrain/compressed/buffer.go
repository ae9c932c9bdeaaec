// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package compressed

import "io"

// Buffer uses run length encoding.
// Each run is a byte of data followed by a byte of count - 1.
type Buffer struct {
	buf []byte
	off int // Read position
}

func (buffer *Buffer) Reset(buf []byte) {
	buffer.buf = buf
	buffer.off = 0
}

func (buffer *Buffer) writeByte(b byte) {
	buf := buffer.buf

	const maxCount = 255
	end := len(buf) - 2

	if end >= 0 && buf[end] == b && buf[end+1] < maxCount {
		// Add 1 to count
		buf[end+1]++
	} else {
		// Start new run
		buf = append(buf, b, 0)
	}

	buffer.buf = buf
}

func (buffer *Buffer) Write(buf []byte) (int, error) {
	for _, b := range buf {
		buffer.writeByte(b)
	}
	return len(buf), nil
}

// readByte consumes one byte of the current run.
func (buffer *Buffer) readByte() (b byte, more bool) {
	b = buffer.buf[buffer.off]
	countMinusOne := buffer.buf[buffer.off+1]

	if countMinusOne > 0 {
		buffer.buf[buffer.off+1] = countMinusOne - 1
		more = true
	} else {
		buffer.off += 2
		more = buffer.off+1 < len(buffer.buf)
	}

	return
}

// Read decodes into buf. It consumes the buffer.
func (buffer *Buffer) Read(buf []byte) (int, error) {
	more := buffer.off+1 < len(buffer.buf)
	i := 0

	for ; i < len(buf) && more; i++ {
		buf[i], more = buffer.readByte()
	}

	if i == 0 && len(buf) > 0 {
		return 0, io.EOF
	}

	return i, nil
}

// Grow makes space for about n elements
func (buffer *Buffer) Grow(n int) {
	compressed := n / 4
	if old := buffer.Buffer(); cap(old)-len(old) < compressed {
		buf := make([]byte, len(old), len(old)+compressed)
		copy(buf, old)
		buffer.buf = buf
		buffer.off = 0
	}
}

func (buffer *Buffer) Buffer() []byte {
	return buffer.buf[buffer.off:]
}
