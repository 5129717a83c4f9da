package image_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lookbusy1344/cs382asm/image"
)

func TestWriteImages_HeaderAndSize(t *testing.T) {
	dir := t.TempDir()
	prefix := filepath.Join(dir, "prog")

	if err := image.WriteImages(prefix, nil, nil, nil); err != nil {
		t.Fatalf("WriteImages error: %v", err)
	}

	dataBytes, err := os.ReadFile(prefix + "_data_section.txt")
	if err != nil {
		t.Fatalf("reading data section file: %v", err)
	}
	textBytes, err := os.ReadFile(prefix + "_text_section.txt")
	if err != nil {
		t.Fatalf("reading text section file: %v", err)
	}

	for name, content := range map[string][]byte{"data": dataBytes, "text": textBytes} {
		s := string(content)
		if !strings.HasPrefix(s, "v3.0 hex words addressed\n") {
			t.Fatalf("%s file missing header, got: %q", name, s[:min(40, len(s))])
		}
		lines := strings.Split(strings.TrimRight(s, "\n"), "\n")[1:]
		if len(lines) != 8 {
			t.Fatalf("%s file: expected 8 body lines, got %d", name, len(lines))
		}
		for i, line := range lines {
			fields := strings.Fields(line)
			if len(fields) != 17 {
				t.Fatalf("%s line %d: expected address + 16 bytes, got %d fields: %q", name, i, len(fields), line)
			}
			addrField := strings.TrimSuffix(fields[0], ":")
			wantAddr := i * 16
			if addrField != hex4(wantAddr) {
				t.Errorf("%s line %d: address = %s, want %s", name, i, addrField, hex4(wantAddr))
			}
			for _, b := range fields[1:] {
				if b != "00" {
					t.Errorf("%s line %d: expected zero padding, got %q", name, i, b)
				}
			}
		}
	}
}

func TestWriteImages_DataCoversConstantPoolThenData(t *testing.T) {
	dir := t.TempDir()
	prefix := filepath.Join(dir, "prog")

	constantPool := []byte{0xAA, 0xBB}
	dataSection := []byte{0xCC, 0xDD}
	if err := image.WriteImages(prefix, constantPool, dataSection, nil); err != nil {
		t.Fatalf("WriteImages error: %v", err)
	}
	content, err := os.ReadFile(prefix + "_data_section.txt")
	if err != nil {
		t.Fatalf("reading data section file: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(content), "\n"), "\n")
	// line 1 is "0000: " + bytes; constant pool occupies the first two bytes.
	firstLine := strings.Fields(lines[1])
	if firstLine[1] != "aa" || firstLine[2] != "bb" {
		t.Fatalf("expected constant pool bytes aa bb first, got %v", firstLine[1:3])
	}
	// 0x40 / 16 = line index 4 (0-based) is where the data section starts.
	dataLine := strings.Fields(lines[1+4])
	if dataLine[1] != "cc" || dataLine[2] != "dd" {
		t.Fatalf("expected data section bytes cc dd at 0x40, got %v", dataLine[1:3])
	}
}

func TestWriteImages_TextAddressesRebaseToZero(t *testing.T) {
	dir := t.TempDir()
	prefix := filepath.Join(dir, "prog")

	textBytes := make([]byte, 20)
	if err := image.WriteImages(prefix, nil, nil, textBytes); err != nil {
		t.Fatalf("WriteImages error: %v", err)
	}
	content, err := os.ReadFile(prefix + "_text_section.txt")
	if err != nil {
		t.Fatalf("reading text section file: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(content), "\n"), "\n")
	if !strings.HasPrefix(lines[1], "0000: ") {
		t.Fatalf("expected text image's first line to start at 0000, got %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "0010: ") {
		t.Fatalf("expected text image's second line to start at 0010, got %q", lines[2])
	}
}

func hex4(n int) string {
	const hexDigits = "0123456789abcdef"
	b := make([]byte, 4)
	for i := 3; i >= 0; i-- {
		b[i] = hexDigits[n&0xF]
		n >>= 4
	}
	return string(b)
}
