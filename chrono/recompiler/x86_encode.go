package recompiler

// buildREX returns REX.W plus the R/B extension bits for a reg,rm pair.
func buildREX(reg, rm X86Reg) byte {
	rex := byte(X86_REX | X86_REX_W)
	if reg.REXBit == 1 {
		rex |= X86_REX_R
	}
	if rm.REXBit == 1 {
		rex |= X86_REX_B
	}
	return rex
}

// buildModRM encodes a register-direct ModRM byte.
func buildModRM(reg, rm byte) byte {
	return X86_MOD_REGISTER<<6 | (reg&7)<<3 | rm&7
}

// emitRegReg emits `op dst, src` for the r/m, r forms (MOV, XOR, OR, TEST).
func (cb *CodeBuffer) emitRegReg(op byte, dst, src X86Reg) {
	cb.emit(buildREX(src, dst), op, buildModRM(src.RegBits, dst.RegBits))
}

func (cb *CodeBuffer) movRegReg(dst, src X86Reg) { cb.emitRegReg(X86_OP_MOV_RM_R, dst, src) }

func (cb *CodeBuffer) xorRegReg(dst, src X86Reg) { cb.emitRegReg(X86_OP_XOR_RM_R, dst, src) }

func (cb *CodeBuffer) orRegReg(dst, src X86Reg) { cb.emitRegReg(X86_OP_OR_RM_R, dst, src) }

func (cb *CodeBuffer) testRegReg(a, b X86Reg) { cb.emitRegReg(X86_OP_TEST_RM_R, a, b) }

// emitExt emits an opcode whose ModRM reg field is a /digit extension.
func (cb *CodeBuffer) emitExt(op, ext byte, dst X86Reg, imm ...byte) {
	cb.emit(buildREX(X86Reg{}, dst), op, buildModRM(ext, dst.RegBits))
	cb.emit(imm...)
}

// group1Imm8 emits AND/OR/XOR/CMP r/m64, imm8 (sign-extended; callers keep imm <= 0x7F).
func (cb *CodeBuffer) group1Imm8(ext byte, dst X86Reg, imm byte) {
	cb.emitExt(X86_OP_GROUP1_RM_IMM8, ext, dst, imm)
}

func (cb *CodeBuffer) shiftImm(ext byte, dst X86Reg, imm byte) {
	cb.emitExt(X86_OP_GROUP2_RM_IMM8, ext, dst, imm)
}

func (cb *CodeBuffer) shiftCL(ext byte, dst X86Reg) {
	cb.emitExt(X86_OP_GROUP2_RM_CL, ext, dst)
}

// movRegImm32 emits MOV r/m64, imm32 (sign-extended).
func (cb *CodeBuffer) movRegImm32(dst X86Reg, imm uint32) {
	cb.emitExt(X86_OP_MOV_RM_IMM, 0, dst, byte(imm), byte(imm>>8), byte(imm>>16), byte(imm>>24))
}

// jccRel8 emits a short conditional jump and returns the offset of its
// displacement byte.
func (cb *CodeBuffer) jccRel8(cc byte, disp int8) int {
	cb.emit(X86_OP_JCC_REL8_BASE+cc, byte(disp))
	return cb.pos - 1
}

func (cb *CodeBuffer) ret() { cb.emit(X86_OP_RET) }
