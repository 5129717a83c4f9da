package assembler

import (
	"encoding/binary"

	"github.com/lookbusy1344/cs382asm/internal/asmerr"
	"github.com/lookbusy1344/cs382asm/token"
)

type dataItemKind int

const (
	dataString dataItemKind = iota
	dataChar
	dataByte1
	dataByte2
	dataByte4
	dataByte8
)

type dataItem struct {
	kind dataItemKind
	str  []byte
	b1   uint8
	b2   uint16
	b4   uint32
	b8   uint64
}

// parseDataSection consumes one .data block: label definitions (recorded
// against the current data cursor) and data-type directives.
func (a *Assembler) parseDataSection() error {
	a.advance() // consume the .data directive token
	for !a.atEnd() {
		t := a.peek()
		switch t.Kind {
		case token.SectionDirective:
			return nil
		case token.Whitespace, token.Newline:
			a.advance()
		case token.LabelDef:
			if err := a.Symbols.Define(t.Pos, t.Name, a.dataSectionOffset); err != nil {
				return err
			}
			a.advance()
		case token.DataTypeDirective:
			if err := a.parseDataTypeDirective(t.DataType); err != nil {
				return err
			}
		default:
			return asmerr.Newf(t.Pos, asmerr.Syntax, "unexpected token %s", t.Kind)
		}
	}
	return nil
}

// parseDataTypeDirective consumes a comma-separated list of items matching
// one .1b/.2b/.4b/.8b/.char/.string directive, then materializes them into
// the data section buffer.
func (a *Assembler) parseDataTypeDirective(dt token.DataType) error {
	a.advance() // consume the directive token
	var items []dataItem

itemLoop:
	for !a.atEnd() {
		t := a.peek()
		if t.Kind == token.Whitespace {
			a.advance()
			continue
		}
		if t.Kind == token.DataTypeDirective {
			break
		}

		item, err := parseDataItem(t, dt)
		if err != nil {
			return err
		}
		items = append(items, item)
		a.advance()

		done := false
	sepLoop:
		for !a.atEnd() {
			sep := a.peek()
			switch sep.Kind {
			case token.Comma:
				a.advance()
				break sepLoop
			case token.Whitespace:
				a.advance()
			case token.Newline, token.Eof:
				done = true
				break sepLoop
			default:
				return asmerr.Newf(sep.Pos, asmerr.Syntax, "unexpected token %s", sep.Kind)
			}
		}
		if done {
			break itemLoop
		}
	}

	a.emitData(items)
	return nil
}

func parseDataItem(t token.Token, dt token.DataType) (dataItem, error) {
	switch dt {
	case token.TypeByte1:
		if t.Kind != token.Imm {
			return dataItem{}, asmerr.Newf(t.Pos, asmerr.Syntax, "expected an immediate for .1b but found %s", t.Kind)
		}
		if t.Imm > 0xFF {
			return dataItem{}, asmerr.Newf(t.Pos, asmerr.Semantic, "immediate %d out of range for .1b", t.Imm)
		}
		return dataItem{kind: dataByte1, b1: uint8(t.Imm)}, nil
	case token.TypeByte2:
		if t.Kind != token.Imm {
			return dataItem{}, asmerr.Newf(t.Pos, asmerr.Syntax, "expected an immediate for .2b but found %s", t.Kind)
		}
		if t.Imm > 0xFFFF {
			return dataItem{}, asmerr.Newf(t.Pos, asmerr.Semantic, "immediate %d out of range for .2b", t.Imm)
		}
		return dataItem{kind: dataByte2, b2: uint16(t.Imm)}, nil
	case token.TypeByte4:
		if t.Kind != token.Imm {
			return dataItem{}, asmerr.Newf(t.Pos, asmerr.Syntax, "expected an immediate for .4b but found %s", t.Kind)
		}
		if t.Imm > 0xFFFFFFFF {
			return dataItem{}, asmerr.Newf(t.Pos, asmerr.Semantic, "immediate %d out of range for .4b", t.Imm)
		}
		return dataItem{kind: dataByte4, b4: uint32(t.Imm)}, nil
	case token.TypeByte8:
		if t.Kind != token.Imm {
			return dataItem{}, asmerr.Newf(t.Pos, asmerr.Syntax, "expected an immediate for .8b but found %s", t.Kind)
		}
		return dataItem{kind: dataByte8, b8: t.Imm}, nil
	case token.TypeChar:
		if t.Kind != token.Char {
			return dataItem{}, asmerr.Newf(t.Pos, asmerr.Syntax, "expected a char literal for .char but found %s", t.Kind)
		}
		return dataItem{kind: dataChar, b1: t.Ch}, nil
	case token.TypeString:
		if t.Kind != token.String {
			return dataItem{}, asmerr.Newf(t.Pos, asmerr.Syntax, "expected a string literal for .string but found %s", t.Kind)
		}
		return dataItem{kind: dataString, str: t.Str}, nil
	default:
		return dataItem{}, asmerr.Newf(t.Pos, asmerr.Syntax, "unknown data directive")
	}
}

// emitData appends each item's byte encoding to the data section, advancing
// the data cursor by the exact count emitted.
func (a *Assembler) emitData(items []dataItem) {
	for _, it := range items {
		switch it.kind {
		case dataString:
			a.DataSection = append(a.DataSection, it.str...)
			a.DataSection = append(a.DataSection, 0)
			a.dataSectionOffset += len(it.str) + 1
		case dataChar:
			a.DataSection = append(a.DataSection, it.b1)
			a.dataSectionOffset++
		case dataByte1:
			a.DataSection = append(a.DataSection, it.b1)
			a.dataSectionOffset++
		case dataByte2:
			buf := make([]byte, 2)
			binary.LittleEndian.PutUint16(buf, it.b2)
			a.DataSection = append(a.DataSection, buf...)
			a.dataSectionOffset += 2
		case dataByte4:
			buf := make([]byte, 4)
			binary.LittleEndian.PutUint32(buf, it.b4)
			a.DataSection = append(a.DataSection, buf...)
			a.dataSectionOffset += 4
		case dataByte8:
			buf := make([]byte, 8)
			binary.LittleEndian.PutUint64(buf, it.b8)
			a.DataSection = append(a.DataSection, buf...)
			a.dataSectionOffset += 8
		}
	}
}
