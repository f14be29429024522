// Completion: 100% - ARM64 instruction encoding complete
package main

import (
	"encoding/binary"
	"fmt"
)

// ARM64 instruction encoding
// ARM64 uses fixed 32-bit little-endian instructions

// ARM64 Register mapping
var arm64GPRegs = map[string]uint32{
	"x0": 0, "x1": 1, "x2": 2, "x3": 3, "x4": 4, "x5": 5, "x6": 6, "x7": 7,
	"x8": 8, "x9": 9, "x10": 10, "x11": 11, "x12": 12, "x13": 13, "x14": 14, "x15": 15,
	"x16": 16, "x17": 17, "x18": 18, "x19": 19, "x20": 20, "x21": 21, "x22": 22, "x23": 23,
	"x24": 24, "x25": 25, "x26": 26, "x27": 27, "x28": 28, "x29": 29, "x30": 30,
	"xzr": 31, "sp": 31, "fp": 29, "lr": 30,
}

// ARM64Out emits ARM64 machine code into a growable buffer. The buffer
// is append-only during generation and handed off as-is to the
// executable page once a terminal RET has been emitted.
type ARM64Out struct {
	code []byte
}

// encodeInstr appends a 32-bit ARM64 instruction in little-endian format
func (a *ARM64Out) encodeInstr(instr uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], instr)
	a.code = append(a.code, buf[:]...)
}

// Pos returns the byte offset the next instruction will be emitted at.
func (a *ARM64Out) Pos() int { return len(a.code) }

// Bytes returns the emitted machine code buffer.
func (a *ARM64Out) Bytes() []byte { return a.code }

// ARM64 Instruction encodings

// ADD (immediate): ADD Xd, Xn, #imm
func (a *ARM64Out) AddImm64(dest, src string, imm uint32) error {
	rd, ok := arm64GPRegs[dest]
	if !ok {
		return fmt.Errorf("invalid ARM64 register: %s", dest)
	}
	rn, ok := arm64GPRegs[src]
	if !ok {
		return fmt.Errorf("invalid ARM64 register: %s", src)
	}
	if imm > 0xfff {
		return fmt.Errorf("immediate value too large for ADD: %d", imm)
	}

	// ADD (immediate, 64-bit): sf=1, op=0, S=0
	instr := uint32(0x91000000) | (imm << 10) | (rn << 5) | rd
	a.encodeInstr(instr)
	return nil
}

// SUB (immediate): SUB Xd, Xn, #imm
func (a *ARM64Out) SubImm64(dest, src string, imm uint32) error {
	rd, ok := arm64GPRegs[dest]
	if !ok {
		return fmt.Errorf("invalid ARM64 register: %s", dest)
	}
	rn, ok := arm64GPRegs[src]
	if !ok {
		return fmt.Errorf("invalid ARM64 register: %s", src)
	}
	if imm > 0xfff {
		return fmt.Errorf("immediate value too large for SUB: %d", imm)
	}

	// SUB (immediate, 64-bit): sf=1, op=1, S=0
	instr := uint32(0xd1000000) | (imm << 10) | (rn << 5) | rd
	a.encodeInstr(instr)
	return nil
}

// MOV (register): MOV Xd, Xn  (alias for ORR Xd, XZR, Xn)
func (a *ARM64Out) MovReg64(dest, src string) error {
	rd, ok := arm64GPRegs[dest]
	if !ok {
		return fmt.Errorf("invalid ARM64 register: %s", dest)
	}
	rm, ok := arm64GPRegs[src]
	if !ok {
		return fmt.Errorf("invalid ARM64 register: %s", src)
	}

	// ORR (shifted register): sf=1, opc=01, shift=00, Rn=31 (xzr)
	instr := uint32(0xaa0003e0) | (rm << 16) | rd
	a.encodeInstr(instr)
	return nil
}

// MOVZ (move wide with zero): MOVZ Xd, #imm16, LSL #shift
func (a *ARM64Out) MovImm64(dest string, imm uint64) error {
	rd, ok := arm64GPRegs[dest]
	if !ok {
		return fmt.Errorf("invalid ARM64 register: %s", dest)
	}

	// MOVZ for the lowest 16 bits
	instr := uint32(0xd2800000) | (uint32(imm&0xffff) << 5) | rd
	a.encodeInstr(instr)

	// MOVK for each subsequent non-zero 16-bit chunk
	if (imm>>16)&0xffff != 0 {
		instr = uint32(0xf2a00000) | (uint32((imm>>16)&0xffff) << 5) | rd
		a.encodeInstr(instr)
	}
	if (imm>>32)&0xffff != 0 {
		instr = uint32(0xf2c00000) | (uint32((imm>>32)&0xffff) << 5) | rd
		a.encodeInstr(instr)
	}
	if (imm>>48)&0xffff != 0 {
		instr = uint32(0xf2e00000) | (uint32((imm>>48)&0xffff) << 5) | rd
		a.encodeInstr(instr)
	}

	return nil
}

// LDRB (immediate): LDRB Wt, [Xn, #offset]
// The destination is named as an X register; LDRB zero-extends the byte
// into the full register.
func (a *ARM64Out) LdrbImm(dest, base string, offset int32) error {
	rt, ok := arm64GPRegs[dest]
	if !ok {
		return fmt.Errorf("invalid ARM64 register: %s", dest)
	}
	rn, ok := arm64GPRegs[base]
	if !ok {
		return fmt.Errorf("invalid ARM64 register: %s", base)
	}

	if offset < 0 || offset >= 4096 {
		return fmt.Errorf("LDRB offset out of range: %d", offset)
	}

	// LDRB (immediate, unsigned offset): size=00, V=0, opc=01
	imm12 := uint32(offset)
	instr := uint32(0x39400000) | (imm12 << 10) | (rn << 5) | rt
	a.encodeInstr(instr)
	return nil
}

// STRB (immediate): STRB Wt, [Xn, #offset]
// Stores the low byte of the source register.
func (a *ARM64Out) StrbImm(src, base string, offset int32) error {
	rt, ok := arm64GPRegs[src]
	if !ok {
		return fmt.Errorf("invalid ARM64 register: %s", src)
	}
	rn, ok := arm64GPRegs[base]
	if !ok {
		return fmt.Errorf("invalid ARM64 register: %s", base)
	}

	if offset < 0 || offset >= 4096 {
		return fmt.Errorf("STRB offset out of range: %d", offset)
	}

	// STRB (immediate, unsigned offset): size=00, V=0, opc=00
	imm12 := uint32(offset)
	instr := uint32(0x39000000) | (imm12 << 10) | (rn << 5) | rt
	a.encodeInstr(instr)
	return nil
}

// CBZ (compare and branch if zero, 32-bit): CBZ Wt, label
// The byte offset is relative to this instruction's own address.
func (a *ARM64Out) CompareAndBranchZero32(reg string, offset int32) error {
	rt, ok := arm64GPRegs[reg]
	if !ok {
		return fmt.Errorf("invalid ARM64 register: %s", reg)
	}

	if offset%4 != 0 {
		return fmt.Errorf("branch offset must be word-aligned: %d", offset)
	}
	imm19 := offset >> 2
	if imm19 < -(1<<18) || imm19 >= (1<<18) {
		return fmt.Errorf("branch offset out of range: %d", offset)
	}

	// CBZ (32-bit): sf=0, op=0, imm19, Rt
	instr := uint32(0x34000000) | (uint32(imm19&0x7ffff) << 5) | rt
	a.encodeInstr(instr)
	return nil
}

// CBNZ (compare and branch if non-zero, 32-bit): CBNZ Wt, label
func (a *ARM64Out) CompareAndBranchNonZero32(reg string, offset int32) error {
	rt, ok := arm64GPRegs[reg]
	if !ok {
		return fmt.Errorf("invalid ARM64 register: %s", reg)
	}

	if offset%4 != 0 {
		return fmt.Errorf("branch offset must be word-aligned: %d", offset)
	}
	imm19 := offset >> 2
	if imm19 < -(1<<18) || imm19 >= (1<<18) {
		return fmt.Errorf("branch offset out of range: %d", offset)
	}

	// CBNZ (32-bit): sf=0, op=1, imm19, Rt
	instr := uint32(0x35000000) | (uint32(imm19&0x7ffff) << 5) | rt
	a.encodeInstr(instr)
	return nil
}

// SVC (supervisor call): SVC #imm16
func (a *ARM64Out) Svc(imm uint16) error {
	// SVC: 11010100 000 imm16 00001
	instr := uint32(0xd4000001) | (uint32(imm) << 5)
	a.encodeInstr(instr)
	return nil
}

// RET (return): RET Xn
func (a *ARM64Out) Return(reg string) error {
	rn, ok := arm64GPRegs[reg]
	if !ok {
		return fmt.Errorf("invalid ARM64 register: %s", reg)
	}

	// RET Xn: opc=10, op2=11111, op3=00000, Rn=Xn, op4=00000
	instr := uint32(0xd65f0000) | (rn << 5)
	a.encodeInstr(instr)
	return nil
}
