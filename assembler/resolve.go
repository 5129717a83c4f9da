package assembler

import (
	"encoding/binary"

	"github.com/lookbusy1344/cs382asm/internal/asmerr"
)

// resolveLabels is pass 2: every still-Unresolved operand is rewritten into
// Address, using the symbol table built during pass 1.
func (a *Assembler) resolveLabels() error {
	for i := range a.Instructions {
		inst := &a.Instructions[i]
		switch inst.Op {
		case OpLd:
			if inst.Src2.Kind != Unresolved {
				continue
			}
			if err := a.resolveLdLabel(inst); err != nil {
				return err
			}
		case OpB, OpCBZ, OpCBNZ:
			if inst.Target.Kind != Unresolved {
				continue
			}
			if err := a.resolveBranchLabel(inst); err != nil {
				return err
			}
		}
	}
	return nil
}

// resolveLdLabel patches the reserved constant-pool slot with the label's
// absolute address and rewrites the Ld's operand to a PC-relative Address
// pointing at that slot.
func (a *Assembler) resolveLdLabel(inst *Instruction) error {
	name := inst.Src2.Label
	addr, ok := a.Symbols.Lookup(name)
	if !ok {
		return asmerr.NewBaref(asmerr.Semantic, "label %q is undefined", name)
	}
	slot := inst.Src2.ConstPoolSlot
	offset := slot - ConstantPoolBase
	if offset < 0 || offset+8 > len(a.ConstantPool) {
		return asmerr.NewBaref(asmerr.Semantic, "constant pool slot for label %q out of range", name)
	}
	binary.LittleEndian.PutUint64(a.ConstantPool[offset:offset+8], uint64(addr))

	pcRelative := offset - inst.Src2.PCAtIssue
	if pcRelative < -0x8000 || pcRelative > 0x7FFF {
		return asmerr.NewBaref(asmerr.Semantic, "pc-relative offset for label %q overflows 16 bits", name)
	}
	inst.Src2 = Operand{Kind: Address, Imm: int16(pcRelative)}
	return nil
}

// resolveBranchLabel rewrites a B/CBZ/CBNZ's Unresolved target into a
// PC-relative Address.
func (a *Assembler) resolveBranchLabel(inst *Instruction) error {
	name := inst.Target.Label
	addr, ok := a.Symbols.Lookup(name)
	if !ok {
		return asmerr.NewBaref(asmerr.Semantic, "label %q is undefined", name)
	}
	pcRelative := addr - inst.Target.PCAtIssue
	if pcRelative < -0x8000 || pcRelative > 0x7FFF {
		return asmerr.NewBaref(asmerr.Semantic, "pc-relative offset for label %q overflows 16 bits", name)
	}
	inst.Target = Operand{Kind: Address, Imm: int16(pcRelative)}
	return nil
}
