package assembler

// Fixed region layout for the assembled image. These are compile-time
// constants, not runtime configuration: the target address space is fixed
// in size and overridable only by recompilation.
const (
	ConstantPoolBase = 0x00
	DataBase         = 0x40
	TextBase         = 0x80
	ImageLimit       = 0x100

	constantPoolSize = DataBase - ConstantPoolBase
	dataSectionSize  = TextBase - DataBase
)
