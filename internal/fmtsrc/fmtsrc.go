// Package fmtsrc re-tokenizes a CS382 source file with package lexer and
// re-emits it with canonical spacing. The lexer discards comments rather
// than preserving them as tokens, so a formatted file cannot keep the
// original comment text.
package fmtsrc

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lookbusy1344/cs382asm/lexer"
	"github.com/lookbusy1344/cs382asm/token"
)

const indent = "    "

// Format re-tokenizes src and re-emits it with one statement per line,
// section directives and label definitions flush left, everything else
// indented, and a single blank line collapsing any run of blank lines.
func Format(src []byte) ([]byte, error) {
	toks, err := lexer.TokenizeAll(src)
	if err != nil {
		return nil, err
	}

	var out strings.Builder
	var line []token.Token
	blankRun := 0

	flush := func() {
		if len(line) == 0 {
			return
		}
		out.WriteString(renderLine(line))
		out.WriteByte('\n')
		line = line[:0]
	}

	for _, t := range toks {
		switch t.Kind {
		case token.Whitespace:
			continue
		case token.Newline:
			if len(line) == 0 {
				blankRun++
				if blankRun == 1 {
					out.WriteByte('\n')
				}
				continue
			}
			blankRun = 0
			flush()
		case token.Eof:
			flush()
		default:
			blankRun = 0
			line = append(line, t)
		}
	}
	flush()

	return []byte(out.String()), nil
}

// renderLine joins one statement's tokens into canonical source text.
func renderLine(toks []token.Token) string {
	if toks[0].Kind == token.SectionDirective || toks[0].Kind == token.LabelDef {
		head := tokenText(toks[0])
		rest := toks[1:]
		if len(rest) == 0 {
			return head
		}
		return head + " " + joinTokens(rest)
	}
	return indent + joinTokens(toks)
}

// joinTokens renders a run of operand/mnemonic tokens with canonical
// spacing: no space before a comma or after an opening bracket, no space
// before a closing bracket.
func joinTokens(toks []token.Token) string {
	var sb strings.Builder
	for i, t := range toks {
		text := tokenText(t)
		if i == 0 {
			sb.WriteString(text)
			continue
		}
		switch t.Kind {
		case token.Comma, token.RBracket:
			sb.WriteString(text)
		default:
			if toks[i-1].Kind == token.LBracket {
				sb.WriteString(text)
			} else {
				sb.WriteByte(' ')
				sb.WriteString(text)
			}
		}
	}
	return sb.String()
}

var mnemonicText = map[token.Kind]string{
	token.Add:  "add",
	token.Sub:  "sub",
	token.Mul:  "mul",
	token.Div:  "div",
	token.Mod:  "mod",
	token.Asr:  "asr",
	token.Lsl:  "lsl",
	token.And:  "and",
	token.Orr:  "orr",
	token.Neg:  "neg",
	token.Swap: "swap",
	token.Halt: "halt",
	token.B:    "b",
	token.CBZ:  "cbz",
	token.CBNZ: "cbnz",
}

func tokenText(t token.Token) string {
	if name, ok := mnemonicText[t.Kind]; ok {
		return name
	}
	switch t.Kind {
	case token.Ld:
		return ldStText(t.Width, t.SignExt, "ld", "lds")
	case token.St:
		return ldStText(t.Width, false, "st", "")
	case token.Register:
		if t.Reg == token.RegZero {
			return "rzr"
		}
		return "r" + strconv.Itoa(int(t.Reg))
	case token.Imm:
		return strconv.FormatUint(t.Imm, 10)
	case token.Char:
		return "'" + escapeChar(t.Ch) + "'"
	case token.String:
		return `"` + escapeString(t.Str) + `"`
	case token.Label:
		return t.Name
	case token.LabelDef:
		return t.Name + ":"
	case token.SectionDirective:
		if t.Section == token.SectionText {
			return ".text"
		}
		return ".data"
	case token.DataTypeDirective:
		return dataTypeText(t.DataType)
	case token.Comma:
		return ","
	case token.Colon:
		return ":"
	case token.LBracket:
		return "["
	case token.RBracket:
		return "]"
	default:
		return fmt.Sprintf("<%s>", t.Kind)
	}
}

func ldStText(width uint8, signExt bool, base, signedBase string) string {
	suffix := ""
	if width != 8 {
		suffix = strconv.Itoa(int(width))
	}
	if signExt {
		if signedBase != "" && width == 8 {
			return signedBase
		}
		return base + suffix + "s"
	}
	return base + suffix
}

func dataTypeText(dt token.DataType) string {
	switch dt {
	case token.TypeString:
		return ".string"
	case token.TypeChar:
		return ".char"
	case token.TypeByte1:
		return ".1b"
	case token.TypeByte2:
		return ".2b"
	case token.TypeByte4:
		return ".4b"
	case token.TypeByte8:
		return ".8b"
	default:
		return ".?"
	}
}

func escapeChar(b byte) string {
	switch b {
	case '\n':
		return `\n`
	case '\r':
		return `\r`
	case '\t':
		return `\t`
	case 0:
		return `\0`
	case '\'':
		return `\'`
	default:
		return string(b)
	}
}

func escapeString(s []byte) string {
	var sb strings.Builder
	for _, b := range s {
		switch b {
		case 0:
			sb.WriteString(`\0`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		default:
			sb.WriteByte(b)
		}
	}
	return sb.String()
}
