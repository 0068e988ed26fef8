package camera

import (
	"bufio"
	"io"
)

// JPEG stream markers.
const (
	markerPrefix = 0xFF
	markerSOI    = 0xD8 // start of image
	markerEOI    = 0xD9 // end of image
)

// readJPEGFrame extracts the next complete JPEG image from an MJPEG
// byte stream: everything between an SOI marker and the following EOI
// marker, inclusive. Bytes between frames are skipped. Returns io.EOF
// once the stream is exhausted.
func readJPEGFrame(br *bufio.Reader) ([]byte, error) {
	// Seek the start-of-image marker.
	for {
		b, err := br.ReadByte()
		if err != nil {
			return nil, err
		}
		if b != markerPrefix {
			continue
		}
		next, err := br.ReadByte()
		if err != nil {
			return nil, err
		}
		if next == markerSOI {
			break
		}
	}

	frame := []byte{markerPrefix, markerSOI}
	prev := byte(0)
	for {
		b, err := br.ReadByte()
		if err != nil {
			// A frame cut off mid-stream is unusable.
			if err == io.EOF {
				return nil, io.EOF
			}
			return nil, err
		}
		frame = append(frame, b)
		if prev == markerPrefix && b == markerEOI {
			return frame, nil
		}
		prev = b
	}
}
