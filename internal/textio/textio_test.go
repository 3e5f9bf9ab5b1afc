package textio

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "transcript.txt")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write transcript: %v", err)
	}
	return path
}

func TestReadTranscriptJoinsTrimmedLines(t *testing.T) {
	path := writeFile(t, []byte("  the cat \n\n\tsat on\r\nthe mat  \n"))
	got, err := ReadTranscript(path, Options{})
	if err != nil {
		t.Fatalf("ReadTranscript: %v", err)
	}
	if got != "the cat sat on the mat" {
		t.Fatalf("ReadTranscript = %q", got)
	}
}

func TestReadTranscriptDecodesLegacyCharset(t *testing.T) {
	// "café" in windows-1252.
	path := writeFile(t, []byte{'c', 'a', 'f', 0xe9})
	got, err := ReadTranscript(path, Options{Encoding: "windows-1252"})
	if err != nil {
		t.Fatalf("ReadTranscript: %v", err)
	}
	if got != "café" {
		t.Fatalf("ReadTranscript = %q", got)
	}
}

func TestReadTranscriptHonoursBOM(t *testing.T) {
	// UTF-16LE with BOM for "hi".
	path := writeFile(t, []byte{0xff, 0xfe, 'h', 0, 'i', 0})
	got, err := ReadTranscript(path, Options{Encoding: "utf-8"})
	if err != nil {
		t.Fatalf("ReadTranscript: %v", err)
	}
	if got != "hi" {
		t.Fatalf("ReadTranscript = %q", got)
	}
}

func TestReadTranscriptDropsInvalidBytes(t *testing.T) {
	path := writeFile(t, []byte("hel\xfflo world"))
	got, err := ReadTranscript(path, Options{})
	if err != nil {
		t.Fatalf("ReadTranscript: %v", err)
	}
	if got != "hello world" {
		t.Fatalf("ReadTranscript = %q", got)
	}
}

func TestReadLines(t *testing.T) {
	path := writeFile(t, []byte("first line\n\n second \n"))
	got, err := ReadLines(path, Options{})
	if err != nil {
		t.Fatalf("ReadLines: %v", err)
	}
	if strings.Join(got, "|") != "first line|second" {
		t.Fatalf("ReadLines = %q", got)
	}
}

func TestUnknownEncoding(t *testing.T) {
	path := writeFile(t, []byte("x"))
	_, err := ReadTranscript(path, Options{Encoding: "klingon"})
	if !errors.Is(err, ErrUnknownEncoding) {
		t.Fatalf("error = %v, want ErrUnknownEncoding", err)
	}
}

func TestMissingFile(t *testing.T) {
	_, err := ReadTranscript(filepath.Join(t.TempDir(), "nope.txt"), Options{})
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("error = %v, want not exist", err)
	}
}
