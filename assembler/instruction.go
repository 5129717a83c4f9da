package assembler

// Op tags the instruction variant.
type Op int

const (
	OpHalt Op = iota
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpAsr
	OpLsl
	OpAnd
	OpOrr
	OpNeg
	OpSwap
	OpLd
	OpLdMem
	OpSt
	OpB
	OpCBZ
	OpCBNZ
)

func (o Op) String() string {
	names := [...]string{
		"Halt", "Add", "Sub", "Mul", "Div", "Mod", "Asr", "Lsl", "And", "Orr",
		"Neg", "Swap", "Ld", "LdMem", "St", "B", "CBZ", "CBNZ",
	}
	if int(o) < len(names) {
		return names[o]
	}
	return "Op(?)"
}

// Instruction is the intermediate, possibly-unresolved form produced by
// pass 1 and rewritten in place by pass 2. Field usage varies by Op,
// following the exact register placement of the original encoder:
//
//   - Add/Sub/Mul/Div/Mod/Asr/Lsl/And/Orr: Rd, Rn = first two registers,
//     Src2 = third operand (Register|Imm).
//   - Neg: Rd = dst, Src2 = source (Register|Imm); a Register source is
//     placed in Rn, not Rm.
//   - Swap: Rd, Rn = the two registers.
//   - Ld: Rd = dst, Src2 = source (Register|Address|Unresolved); a Register
//     source is placed in Rn.
//   - LdMem: Rd = dst, Rn = base register, Src2 = offset (Register|Imm),
//     Width/SignExt set.
//   - St: Rd = source register, Rn = base register, Src2 = offset
//     (Register|Imm), Width set.
//   - B: Target = branch destination (Unresolved until pass 2, then Address).
//   - CBZ/CBNZ: Rn = checked register, Target = branch destination.
type Instruction struct {
	Op      Op
	Rd      uint8
	Rn      uint8
	Src2    Operand
	Target  Operand
	Width   uint8
	SignExt bool

	// Addr is the instruction's own text-section address, fixed at emission
	// time in pass 1 and never altered afterward. Label resolution computes
	// PC-relative offsets from the operand's PCAtIssue, which holds the same
	// address.
	Addr int
}
