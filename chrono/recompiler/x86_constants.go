package recompiler

// REX Prefix Constants
const (
	X86_REX   = 0x40 // REX prefix base
	X86_REX_W = 0x08 // REX.W - 64-bit operand size
	X86_REX_R = 0x04 // REX.R - Extension of ModRM reg field
	X86_REX_B = 0x01 // REX.B - Extension of ModRM r/m field
)

// ModRM Mode Constants
const (
	X86_MOD_REGISTER = 0x03 // reg
)

// Primary Opcodes
const (
	X86_OP_OR_RM_R        = 0x09 // OR r/m, r
	X86_OP_XOR_RM_R       = 0x31 // XOR r/m, r
	X86_OP_GROUP1_RM_IMM8 = 0x83 // Group 1 operations with imm8
	X86_OP_TEST_RM_R      = 0x85 // TEST r/m, r
	X86_OP_MOV_RM_R       = 0x89 // MOV r/m, r
	X86_OP_GROUP2_RM_IMM8 = 0xC1 // Group 2 shift operations with imm8
	X86_OP_RET            = 0xC3 // RET
	X86_OP_MOV_RM_IMM     = 0xC7 // MOV r/m, imm32
	X86_OP_GROUP2_RM_CL   = 0xD3 // Group 2 shift operations by CL
	X86_OP_JCC_REL8_BASE  = 0x70 // Jcc rel8 (+ condition)
)

// Group 1 /digit extensions (0x83)
const (
	X86_REG_OR  = 1
	X86_REG_AND = 4
	X86_REG_XOR = 6
	X86_REG_CMP = 7
)

// Group 2 /digit extensions (0xC1, 0xD3)
const (
	X86_REG_SHL = 4
	X86_REG_SHR = 5
)

// Condition codes for Jcc
const (
	X86_CC_NE = 0x5 // JNZ / JNE
	X86_CC_BE = 0x6 // JBE (unsigned <=)
)

// Encoded sizes the generator relies on when it emits internal short jumps.
const (
	x86XorRegRegLen = 3 // REX.W 31 /r
	x86Rel8Len      = 2 // 7x cb
)
