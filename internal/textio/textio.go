package textio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrUnknownEncoding reports an encoding label htmlindex does not recognise.
var ErrUnknownEncoding = errors.New("unknown encoding")

// DefaultEncoding is used when Options.Encoding is empty.
const DefaultEncoding = "utf-8"

// Options controls how transcripts are decoded.
type Options struct {
	// Encoding is a WHATWG label such as "utf-8", "windows-1252" or "utf-16le".
	Encoding string
}

// LookupEncoding resolves a label to an x/text encoding.
func LookupEncoding(label string) (encoding.Encoding, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		label = DefaultEncoding
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, label)
	}
	return enc, nil
}

// ReadTranscript loads path and returns its lines trimmed and joined with a
// single space. Bytes that do not decode are dropped.
func ReadTranscript(path string, opts Options) (string, error) {
	lines, err := ReadLines(path, opts)
	if err != nil {
		return "", err
	}
	return strings.Join(lines, " "), nil
}

// ReadLines loads path and returns its non-empty trimmed lines.
func ReadLines(path string, opts Options) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open transcript: %w", err)
	}
	defer file.Close()

	lines, err := DecodeLines(file, opts)
	if err != nil {
		return nil, fmt.Errorf("read transcript %s: %w", path, err)
	}
	return lines, nil
}

// DecodeLines decodes r and splits it into non-empty trimmed lines.
func DecodeLines(r io.Reader, opts Options) ([]string, error) {
	enc, err := LookupEncoding(opts.Encoding)
	if err != nil {
		return nil, err
	}
	// A leading BOM overrides the label.
	scanner := bufio.NewScanner(transform.NewReader(r, unicode.BOMOverride(enc.NewDecoder())))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var lines []string
	for scanner.Scan() {
		line := strings.TrimSpace(dropInvalid(scanner.Text()))
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// dropInvalid removes undecodable input. x/text decoders substitute U+FFFD,
// so the replacement character is removed along with raw invalid bytes.
func dropInvalid(s string) string {
	s = strings.ToValidUTF8(s, "")
	return strings.ReplaceAll(s, string(utf8.RuneError), "")
}
