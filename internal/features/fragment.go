package features

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/san-kum/fragdyn/internal/dynamo"
)

// FromBytes turns a byte fragment into a series of byte values.
func FromBytes(data []byte) dynamo.Series {
	x := make(dynamo.Series, len(data))
	for i, b := range data {
		x[i] = float64(b)
	}
	return x
}

// ReadFragment reads length bytes of path starting at offset. Length 0 reads
// to the end of the file; a short file yields a short fragment.
func ReadFragment(path string, offset int64, length int) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if offset > 0 {
		if _, err := f.Seek(offset, io.SeekStart); err != nil {
			return nil, fmt.Errorf("seek %s: %w", path, err)
		}
	}
	if length == 0 {
		return io.ReadAll(f)
	}

	buf := make([]byte, length)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return buf[:n], nil
}
