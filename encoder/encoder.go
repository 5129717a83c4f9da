// Package encoder packs resolved assembler.Instruction values into fixed
// 32-bit little-endian words: opcode(7) | imm(16) | rm(3) | rn(3) | rd(3),
// wrapping failures with internal/asmerr.
package encoder

import (
	"encoding/binary"

	"github.com/lookbusy1344/cs382asm/assembler"
	"github.com/lookbusy1344/cs382asm/internal/asmerr"
)

const immSelectBit uint32 = 0b0000010

// arithmeticOpcodes gives the 7-bit opcode base for the three-operand
// arithmetic/logical family plus Neg.
var arithmeticOpcodes = map[assembler.Op]uint32{
	assembler.OpAdd: 0b1000000,
	assembler.OpSub: 0b1000100,
	assembler.OpMul: 0b1001000,
	assembler.OpDiv: 0b1001100,
	assembler.OpMod: 0b1010000,
	assembler.OpAsr: 0b1010100,
	assembler.OpLsl: 0b1011000,
	assembler.OpAnd: 0b1011100,
	assembler.OpOrr: 0b1100000,
	assembler.OpNeg: 0b1100100,
}

// ldMemOpcodes gives LdMem's opcode base by width in bytes.
var ldMemOpcodes = map[uint8]uint32{
	1: 0b0000100,
	2: 0b0001000,
	4: 0b0001100,
	8: 0b0010000,
}

// stOpcodes gives St's opcode base by width in bytes.
var stOpcodes = map[uint8]uint32{
	1: 0b0100000,
	2: 0b0100100,
	4: 0b0101000,
	8: 0b0101100,
}

// Encode packs one resolved instruction into its 32-bit word. inst must
// already be free of Unresolved operands (pass 2 complete).
func Encode(inst assembler.Instruction) (uint32, error) {
	var opcode, imm, rm, rn, rd uint32

	switch inst.Op {
	case assembler.OpHalt:
		// opcode 0, all fields zero.

	case assembler.OpAdd, assembler.OpSub, assembler.OpMul, assembler.OpDiv,
		assembler.OpMod, assembler.OpAsr, assembler.OpLsl, assembler.OpAnd, assembler.OpOrr:
		opcode = arithmeticOpcodes[inst.Op]
		rd = uint32(inst.Rd)
		rn = uint32(inst.Rn)
		switch inst.Src2.Kind {
		case assembler.Imm:
			opcode |= immSelectBit
			imm = uint32(uint16(inst.Src2.Imm))
		case assembler.Register:
			rm = uint32(inst.Src2.Reg)
		}

	case assembler.OpNeg:
		opcode = arithmeticOpcodes[assembler.OpNeg]
		rd = uint32(inst.Rd)
		switch inst.Src2.Kind {
		case assembler.Imm:
			opcode |= immSelectBit
			imm = uint32(uint16(inst.Src2.Imm))
		case assembler.Register:
			// Neg's register source lands in rn, not rm.
			rn = uint32(inst.Src2.Reg)
		}

	case assembler.OpSwap:
		opcode = 0b1101101
		rd = uint32(inst.Rd)
		rn = uint32(inst.Rn)

	case assembler.OpLd:
		opcode = 0b1101000
		rd = uint32(inst.Rd)
		switch inst.Src2.Kind {
		case assembler.Imm:
			opcode |= immSelectBit
			imm = uint32(uint16(inst.Src2.Imm))
		case assembler.Register:
			// Ld's register source lands in rn, not rm.
			rn = uint32(inst.Src2.Reg)
		case assembler.Address:
			opcode |= immSelectBit
			imm = uint32(uint16(inst.Src2.Imm))
		default:
			return 0, asmerr.NewBaref(asmerr.Semantic, "ld instruction has unresolved operand")
		}

	case assembler.OpLdMem:
		base, ok := ldMemOpcodes[inst.Width]
		if !ok {
			return 0, asmerr.NewBaref(asmerr.Semantic, "invalid ld width %d", inst.Width)
		}
		opcode = base
		if inst.SignExt {
			// This bit collides with the width=8 base bit-for-bit; preserved
			// as-is rather than reassigned to a free bit.
			opcode |= 0b0010000
		}
		rd = uint32(inst.Rd)
		rn = uint32(inst.Rn)
		switch inst.Src2.Kind {
		case assembler.Imm:
			opcode |= immSelectBit
			imm = uint32(uint16(inst.Src2.Imm))
		case assembler.Register:
			rm = uint32(inst.Src2.Reg)
		}

	case assembler.OpSt:
		base, ok := stOpcodes[inst.Width]
		if !ok {
			return 0, asmerr.NewBaref(asmerr.Semantic, "invalid st width %d", inst.Width)
		}
		opcode = base
		rd = uint32(inst.Rd)
		rn = uint32(inst.Rn)
		switch inst.Src2.Kind {
		case assembler.Imm:
			opcode |= immSelectBit
			imm = uint32(uint16(inst.Src2.Imm))
		case assembler.Register:
			rm = uint32(inst.Src2.Reg)
		}

	case assembler.OpB:
		opcode = 0b1110000
		if inst.Target.Kind == assembler.Address {
			imm = uint32(uint16(inst.Target.Imm))
		}
		// Deliberately no immSelectBit OR here: B/CBZ/CBNZ never OR it in.

	case assembler.OpCBZ:
		opcode = 0b1110100
		rn = uint32(inst.Rn)
		if inst.Target.Kind == assembler.Address {
			imm = uint32(uint16(inst.Target.Imm))
		}

	case assembler.OpCBNZ:
		opcode = 0b1111000
		rn = uint32(inst.Rn)
		if inst.Target.Kind == assembler.Address {
			imm = uint32(uint16(inst.Target.Imm))
		}

	default:
		return 0, asmerr.NewBaref(asmerr.Semantic, "unknown instruction op %s", inst.Op)
	}

	word := (opcode << 25) | (imm << 9) | (rm << 6) | (rn << 3) | rd
	return word, nil
}

// EncodeAll encodes every instruction into one little-endian byte stream.
func EncodeAll(instructions []assembler.Instruction) ([]byte, error) {
	out := make([]byte, 0, len(instructions)*4)
	buf := make([]byte, 4)
	for i, inst := range instructions {
		word, err := Encode(inst)
		if err != nil {
			return nil, asmerr.NewBaref(asmerr.Semantic, "encoding instruction %d (%s): %v", i, inst.Op, err)
		}
		binary.LittleEndian.PutUint32(buf, word)
		out = append(out, buf...)
	}
	return out, nil
}
