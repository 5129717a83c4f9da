// Package image writes the two fixed-size Logisim-style "v3.0 hex words
// addressed" memory image text files: one for the constant pool plus data
// section, one for the encoded text section. Each region is truncated or
// zero-padded to its fixed size rather than grown to fit its contents.
package image

import (
	"bytes"
	"fmt"
	"os"

	"github.com/lookbusy1344/cs382asm/assembler"
	"github.com/lookbusy1344/cs382asm/internal/asmerr"
)

const header = "v3.0 hex words addressed\n"

const bytesPerLine = 16

// WriteImages writes "<prefix>_data_section.txt" (constant pool + data
// section, addresses 0x00..0x80) and "<prefix>_text_section.txt" (encoded
// instructions, addresses 0x80..0x100 re-based to start at 0x00).
func WriteImages(prefix string, constantPool, dataSection, textBytes []byte) error {
	dataImage := buildImage(assembler.TextBase-assembler.ConstantPoolBase, func(i int) byte {
		split := assembler.DataBase - assembler.ConstantPoolBase
		if i < split {
			if i < len(constantPool) {
				return constantPool[i]
			}
			return 0
		}
		idx := i - split
		if idx < len(dataSection) {
			return dataSection[idx]
		}
		return 0
	})
	if err := os.WriteFile(prefix+"_data_section.txt", dataImage, 0o644); err != nil {
		return asmerr.NewBaref(asmerr.IO, "writing data section file: %v", err)
	}

	textImage := buildImage(assembler.ImageLimit-assembler.TextBase, func(i int) byte {
		if i < len(textBytes) {
			return textBytes[i]
		}
		return 0
	})
	if err := os.WriteFile(prefix+"_text_section.txt", textImage, 0o644); err != nil {
		return asmerr.NewBaref(asmerr.IO, "writing text section file: %v", err)
	}
	return nil
}

// buildImage renders size bytes (addresses 0..size, already re-based by the
// caller) as the header line followed by 16-byte hex rows.
func buildImage(size int, byteAt func(i int) byte) []byte {
	var buf bytes.Buffer
	buf.WriteString(header)
	for i := 0; i < size; i++ {
		if i%bytesPerLine == 0 {
			fmt.Fprintf(&buf, "%04x: ", i)
		}
		fmt.Fprintf(&buf, "%02x", byteAt(i))
		if i%bytesPerLine == bytesPerLine-1 {
			buf.WriteByte('\n')
		} else {
			buf.WriteByte(' ')
		}
	}
	return buf.Bytes()
}
