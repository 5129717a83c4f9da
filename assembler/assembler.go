// Package assembler implements a two-pass parser: pass 1 builds the symbol
// table, constant pool, data section, and an intermediate instruction list
// (with possibly-unresolved label operands); pass 2 resolves those operands
// into PC-relative addresses.
package assembler

import (
	"log/slog"

	"github.com/lookbusy1344/cs382asm/internal/asmerr"
	"github.com/lookbusy1344/cs382asm/token"
)

// Assembler holds the full state of one assembly run: the token cursor, the
// symbol table, the two byte buffers, and the emitted instruction list.
// Errors are fatal: the first one encountered aborts the run.
type Assembler struct {
	tokens []token.Token
	idx    int
	logger *slog.Logger

	Symbols      *SymbolTable
	ConstantPool []byte
	DataSection  []byte
	Instructions []Instruction

	constantPoolOffset int
	dataSectionOffset  int
	textSectionOffset  int
}

// New creates an Assembler over a token stream produced by the lexer. A nil
// logger disables the debug tracing of pass 1/pass 2 state.
func New(tokens []token.Token, logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Assembler{
		tokens:             tokens,
		logger:             logger,
		Symbols:            NewSymbolTable(),
		constantPoolOffset: ConstantPoolBase,
		dataSectionOffset:  DataBase,
		textSectionOffset:  TextBase,
	}
}

// Assemble runs both passes and returns the Assembler's final state, or the
// first fatal error encountered.
func Assemble(tokens []token.Token, logger *slog.Logger) (*Assembler, error) {
	a := New(tokens, logger)
	if err := a.firstPass(); err != nil {
		return nil, err
	}
	a.logger.Debug("pass 1 complete",
		"instructions", len(a.Instructions),
		"symbols", a.Symbols.Len(),
		"text_section_offset", a.textSectionOffset)
	if err := a.resolveLabels(); err != nil {
		return nil, err
	}
	a.logger.Debug("pass 2 complete",
		"constant_pool_bytes", len(a.ConstantPool),
		"data_bytes", len(a.DataSection))
	return a, nil
}

func (a *Assembler) atEnd() bool {
	return a.idx >= len(a.tokens) || a.tokens[a.idx].Kind == token.Eof
}

func (a *Assembler) peek() token.Token {
	if a.idx >= len(a.tokens) {
		return token.Token{Kind: token.Eof}
	}
	return a.tokens[a.idx]
}

func (a *Assembler) advance() {
	a.idx++
}

func (a *Assembler) skipWhitespace() {
	for !a.atEnd() && a.peek().Kind == token.Whitespace {
		a.advance()
	}
}

func (a *Assembler) expectComma() error {
	if a.peek().Kind != token.Comma {
		return asmerr.Newf(a.peek().Pos, asmerr.Syntax, "expected comma but found %s", a.peek().Kind)
	}
	a.advance()
	return nil
}

// expectNewline consumes trailing whitespace then requires a statement
// terminator.
func (a *Assembler) expectNewline() error {
	a.skipWhitespace()
	if a.peek().Kind != token.Newline && a.peek().Kind != token.Eof {
		return asmerr.Newf(a.peek().Pos, asmerr.Syntax, "unexpected token %s", a.peek().Kind)
	}
	if a.peek().Kind == token.Newline {
		a.advance()
	}
	return nil
}

func (a *Assembler) expectRegister() (uint8, error) {
	t := a.peek()
	if t.Kind != token.Register {
		return 0, asmerr.Newf(t.Pos, asmerr.Syntax, "expected a register but found %s", t.Kind)
	}
	a.advance()
	return t.Reg, nil
}

// firstPass is the driving loop: skip tokens until a SectionDirective is
// found, dispatch into the matching sub-parser, repeat. Sections may appear
// in either order and may repeat.
func (a *Assembler) firstPass() error {
	for !a.atEnd() {
		t := a.peek()
		if t.Kind == token.SectionDirective {
			switch t.Section {
			case token.SectionData:
				if err := a.parseDataSection(); err != nil {
					return err
				}
			case token.SectionText:
				if err := a.parseTextSection(); err != nil {
					return err
				}
			}
			continue
		}
		a.advance()
	}
	return nil
}
