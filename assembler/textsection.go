package assembler

import (
	"encoding/binary"

	"github.com/lookbusy1344/cs382asm/internal/asmerr"
	"github.com/lookbusy1344/cs382asm/token"
)

// parseTextSection consumes one .text block: label definitions and
// instruction statements.
func (a *Assembler) parseTextSection() error {
	a.advance() // consume the .text directive token
	for !a.atEnd() {
		t := a.peek()
		switch t.Kind {
		case token.SectionDirective:
			return nil
		case token.Whitespace, token.Newline:
			a.advance()
		case token.LabelDef:
			if err := a.Symbols.Define(t.Pos, t.Name, a.textSectionOffset); err != nil {
				return err
			}
			a.advance()
		case token.Add, token.Sub, token.Mul, token.Div, token.Mod, token.Asr, token.Lsl, token.And, token.Orr:
			if err := a.parseArithmetic(mnemonicOp(t.Kind)); err != nil {
				return err
			}
		case token.Neg:
			if err := a.parseNeg(); err != nil {
				return err
			}
		case token.Swap:
			if err := a.parseSwap(); err != nil {
				return err
			}
		case token.Ld:
			if err := a.parseLd(t.Width, t.SignExt); err != nil {
				return err
			}
		case token.St:
			if err := a.parseSt(t.Width); err != nil {
				return err
			}
		case token.Halt:
			if err := a.parseHalt(); err != nil {
				return err
			}
		case token.B:
			if err := a.parseBranch(); err != nil {
				return err
			}
		case token.CBZ:
			if err := a.parseCondBranch(OpCBZ); err != nil {
				return err
			}
		case token.CBNZ:
			if err := a.parseCondBranch(OpCBNZ); err != nil {
				return err
			}
		default:
			return asmerr.Newf(t.Pos, asmerr.Syntax, "unexpected token %s", t.Kind)
		}
	}
	return nil
}

func mnemonicOp(k token.Kind) Op {
	switch k {
	case token.Add:
		return OpAdd
	case token.Sub:
		return OpSub
	case token.Mul:
		return OpMul
	case token.Div:
		return OpDiv
	case token.Mod:
		return OpMod
	case token.Asr:
		return OpAsr
	case token.Lsl:
		return OpLsl
	case token.And:
		return OpAnd
	case token.Orr:
		return OpOrr
	default:
		panic("mnemonicOp: not an arithmetic mnemonic")
	}
}

// parseRegImmCharOperand parses the trailing (register | imm | char)
// operand shared by the arithmetic family and Neg. imm must fit 16 bits
// unsigned; char is coerced to i16.
func (a *Assembler) parseRegImmCharOperand(mnemonic string) (Operand, error) {
	t := a.peek()
	switch t.Kind {
	case token.Register:
		a.advance()
		return Operand{Kind: Register, Reg: t.Reg}, nil
	case token.Imm:
		if t.Imm > 0xFFFF {
			return Operand{}, asmerr.Newf(t.Pos, asmerr.Semantic, "immediate is too big for %s instruction", mnemonic)
		}
		a.advance()
		return Operand{Kind: Imm, Imm: int16(uint16(t.Imm))}, nil
	case token.Char:
		a.advance()
		return Operand{Kind: Imm, Imm: int16(t.Ch)}, nil
	default:
		return Operand{}, asmerr.Newf(t.Pos, asmerr.Syntax, "expected a register or immediate but found %s", t.Kind)
	}
}

// parseArithmetic handles the three-operand family: <mnemonic> rd, rn, src2.
func (a *Assembler) parseArithmetic(op Op) error {
	addr := a.textSectionOffset
	a.advance()
	a.skipWhitespace()
	rd, err := a.expectRegister()
	if err != nil {
		return err
	}
	a.skipWhitespace()
	if err := a.expectComma(); err != nil {
		return err
	}
	a.skipWhitespace()
	rn, err := a.expectRegister()
	if err != nil {
		return err
	}
	a.skipWhitespace()
	if err := a.expectComma(); err != nil {
		return err
	}
	a.skipWhitespace()
	src2, err := a.parseRegImmCharOperand(op.String())
	if err != nil {
		return err
	}
	a.Instructions = append(a.Instructions, Instruction{Op: op, Rd: rd, Rn: rn, Src2: src2, Addr: addr})
	a.textSectionOffset += 4
	return a.expectNewline()
}

// parseNeg handles: neg rd, (rn | imm | char).
func (a *Assembler) parseNeg() error {
	addr := a.textSectionOffset
	a.advance()
	a.skipWhitespace()
	rd, err := a.expectRegister()
	if err != nil {
		return err
	}
	a.skipWhitespace()
	if err := a.expectComma(); err != nil {
		return err
	}
	a.skipWhitespace()
	src, err := a.parseRegImmCharOperand("neg")
	if err != nil {
		return err
	}
	a.Instructions = append(a.Instructions, Instruction{Op: OpNeg, Rd: rd, Src2: src, Addr: addr})
	a.textSectionOffset += 4
	return a.expectNewline()
}

// parseSwap handles: swap r1, r2.
func (a *Assembler) parseSwap() error {
	addr := a.textSectionOffset
	a.advance()
	a.skipWhitespace()
	r1, err := a.expectRegister()
	if err != nil {
		return err
	}
	a.skipWhitespace()
	if err := a.expectComma(); err != nil {
		return err
	}
	a.skipWhitespace()
	r2, err := a.expectRegister()
	if err != nil {
		return err
	}
	a.Instructions = append(a.Instructions, Instruction{Op: OpSwap, Rd: r1, Rn: r2, Addr: addr})
	a.textSectionOffset += 4
	return a.expectNewline()
}

// parseHalt handles: halt (no operands).
func (a *Assembler) parseHalt() error {
	addr := a.textSectionOffset
	a.advance()
	a.Instructions = append(a.Instructions, Instruction{Op: OpHalt, Addr: addr})
	a.textSectionOffset += 4
	return a.expectNewline()
}

// parseBranch handles: b label.
func (a *Assembler) parseBranch() error {
	addr := a.textSectionOffset
	a.advance()
	a.skipWhitespace()
	t := a.peek()
	if t.Kind != token.Label {
		return asmerr.Newf(t.Pos, asmerr.Syntax, "expected a label for branch instruction but found %s", t.Kind)
	}
	target := Operand{Kind: Unresolved, Label: t.Name, PCAtIssue: addr, ConstPoolSlot: a.constantPoolOffset}
	a.advance()
	a.Instructions = append(a.Instructions, Instruction{Op: OpB, Target: target, Addr: addr})
	a.textSectionOffset += 4
	return a.expectNewline()
}

// parseCondBranch handles: cbz/cbnz r, label.
func (a *Assembler) parseCondBranch(op Op) error {
	addr := a.textSectionOffset
	a.advance()
	a.skipWhitespace()
	reg, err := a.expectRegister()
	if err != nil {
		return err
	}
	a.skipWhitespace()
	if err := a.expectComma(); err != nil {
		return err
	}
	a.skipWhitespace()
	t := a.peek()
	if t.Kind != token.Label {
		return asmerr.Newf(t.Pos, asmerr.Syntax, "expected a label for branch instruction but found %s", t.Kind)
	}
	target := Operand{Kind: Unresolved, Label: t.Name, PCAtIssue: addr, ConstPoolSlot: a.constantPoolOffset}
	a.advance()
	a.Instructions = append(a.Instructions, Instruction{Op: op, Rn: reg, Target: target, Addr: addr})
	a.textSectionOffset += 4
	return a.expectNewline()
}

// parseLd handles ld/ld1/ld2/ld4 (each with optional s suffix).
func (a *Assembler) parseLd(width uint8, signExt bool) error {
	addr := a.textSectionOffset
	a.advance()
	a.skipWhitespace()
	rd, err := a.expectRegister()
	if err != nil {
		return err
	}
	a.skipWhitespace()
	if err := a.expectComma(); err != nil {
		return err
	}
	a.skipWhitespace()

	t := a.peek()
	switch {
	case t.Kind == token.Register && width == 8:
		a.advance()
		a.Instructions = append(a.Instructions, Instruction{Op: OpLd, Rd: rd, Src2: Operand{Kind: Register, Reg: t.Reg}, Addr: addr})

	case t.Kind == token.Label && width == 8:
		a.advance()
		slot := a.constantPoolOffset
		a.ConstantPool = append(a.ConstantPool, make([]byte, 8)...)
		a.constantPoolOffset += 8
		a.Instructions = append(a.Instructions, Instruction{
			Op: OpLd, Rd: rd,
			Src2: Operand{Kind: Unresolved, Label: t.Name, PCAtIssue: addr, ConstPoolSlot: slot},
			Addr: addr,
		})

	case t.Kind == token.Imm && width == 8:
		a.advance()
		slot := a.constantPoolOffset
		buf := make([]byte, 8)
		binary.LittleEndian.PutUint64(buf, t.Imm)
		a.ConstantPool = append(a.ConstantPool, buf...)
		a.constantPoolOffset += 8
		a.Instructions = append(a.Instructions, Instruction{
			Op: OpLd, Rd: rd,
			Src2: Operand{Kind: Address, Imm: int16(slot - addr)},
			Addr: addr,
		})

	case t.Kind == token.Char && width == 8:
		a.advance()
		slot := a.constantPoolOffset
		buf := make([]byte, 8)
		binary.LittleEndian.PutUint64(buf, uint64(t.Ch))
		a.ConstantPool = append(a.ConstantPool, buf...)
		a.constantPoolOffset += 8
		a.Instructions = append(a.Instructions, Instruction{
			Op: OpLd, Rd: rd,
			Src2: Operand{Kind: Address, Imm: int16(slot - addr)},
			Addr: addr,
		})

	case t.Kind == token.LBracket:
		rn, offset, err := a.parseMemoryAccess()
		if err != nil {
			return err
		}
		a.Instructions = append(a.Instructions, Instruction{
			Op: OpLdMem, Width: width, SignExt: signExt, Rd: rd, Rn: rn, Src2: offset, Addr: addr,
		})

	default:
		return asmerr.Newf(t.Pos, asmerr.Syntax, "invalid ld instruction syntax")
	}

	a.textSectionOffset += 4
	return a.expectNewline()
}

// parseSt handles: st/st1/st2/st4 rd, [rn (, offset)?].
func (a *Assembler) parseSt(width uint8) error {
	addr := a.textSectionOffset
	a.advance()
	a.skipWhitespace()
	rd, err := a.expectRegister()
	if err != nil {
		return err
	}
	a.skipWhitespace()
	if err := a.expectComma(); err != nil {
		return err
	}
	a.skipWhitespace()
	if a.peek().Kind != token.LBracket {
		return asmerr.Newf(a.peek().Pos, asmerr.Syntax, "invalid st instruction syntax")
	}
	rn, offset, err := a.parseMemoryAccess()
	if err != nil {
		return err
	}
	a.Instructions = append(a.Instructions, Instruction{Op: OpSt, Width: width, Rd: rd, Rn: rn, Src2: offset, Addr: addr})
	a.textSectionOffset += 4
	return a.expectNewline()
}

// parseMemoryAccess handles [ rn (, rm|imm|char)? ], defaulting an absent
// offset to Imm(0).
func (a *Assembler) parseMemoryAccess() (uint8, Operand, error) {
	a.advance() // consume '['
	a.skipWhitespace()
	rn, err := a.expectRegister()
	if err != nil {
		return 0, Operand{}, err
	}
	a.skipWhitespace()

	offset := Operand{Kind: Imm, Imm: 0}
	if a.peek().Kind == token.Comma {
		a.advance()
		a.skipWhitespace()
		t := a.peek()
		switch t.Kind {
		case token.Register:
			offset = Operand{Kind: Register, Reg: t.Reg}
			a.advance()
		case token.Imm:
			if t.Imm > 0xFFFF {
				return 0, Operand{}, asmerr.Newf(t.Pos, asmerr.Semantic, "immediate for offset is too big for ld/st instruction")
			}
			offset = Operand{Kind: Imm, Imm: int16(uint16(t.Imm))}
			a.advance()
		case token.Char:
			offset = Operand{Kind: Imm, Imm: int16(t.Ch)}
			a.advance()
		default:
			return 0, Operand{}, asmerr.Newf(t.Pos, asmerr.Syntax, "expected a register or immediate but found %s", t.Kind)
		}
	}

	a.skipWhitespace()
	if a.peek().Kind != token.RBracket {
		return 0, Operand{}, asmerr.Newf(a.peek().Pos, asmerr.Syntax, "expected ']'")
	}
	a.advance()
	return rn, offset, nil
}
