package monkey

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ReadSource loads a script as UTF-8 text. A leading UTF-8 or UTF-16 byte
// order mark selects the decoding and is stripped; without one the file is
// taken as UTF-8.
func ReadSource(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	defer f.Close()

	src, err := DecodeSource(f)
	if err != nil {
		return "", fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return src, nil
}

// DecodeSource reads r to the end, honouring a byte order mark.
func DecodeSource(r io.Reader) (string, error) {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	data, err := io.ReadAll(transform.NewReader(r, decoder))
	if err != nil {
		return "", err
	}
	return string(data), nil
}
