package generate

import (
	"bytes"
	"io"
	"os"
)

// sniffLen caps how many leading bytes are inspected for the binary check.
const sniffLen = 8192

// IsBinary reports whether the file at path appears to be binary content
// (contains a null byte in its first 8 KiB). Binary files are copied
// verbatim and never passed through the renderer.
func IsBinary(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	buf := make([]byte, sniffLen)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return false, err
	}
	return bytes.IndexByte(buf[:n], 0) != -1, nil
}
