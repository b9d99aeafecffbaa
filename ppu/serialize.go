package ppu

import (
	"encoding/binary"
	"errors"
	"hash/crc32"
)

// Snapshot file format constants
const (
	snapVersion    = 1
	snapMagic      = "eMAGBSnap\x00\x00\x00"
	snapHeaderSize = 18 // magic(12) + version(2) + dataCRC(4)
)

// Fixed serialization sizes for snapshot sections
const (
	snapMemSize      = VRAMSize + PalBGSize + PalOBJSize + OAMSize
	snapBGSize       = NumBackgrounds * 25 // 6 words + enabled flag per background
	snapWindowSize   = 2*16 + 4            // two rects + four masks
	snapBlendSize    = 8                   // four 16-bit registers
	snapScanSize     = ScreenHeight * 61   // 15 words + enabled flag per line
	snapBGAffSize    = NumBackgrounds * 24
	snapObjAffSize   = NumObjAffine * 16
	snapDispatchSize = 16
)

// SnapshotSerializeSize is the exact byte length of an encoded snapshot.
const SnapshotSerializeSize = snapHeaderSize + snapMemSize + snapBGSize +
	snapWindowSize + snapBlendSize + snapScanSize + snapBGAffSize +
	snapObjAffSize + snapDispatchSize

// boolByte converts a bool to a uint8 (0 or 1).
func boolByte(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// EncodeSnapshot serializes a snapshot to its on-disk form.
func EncodeSnapshot(s *Snapshot) ([]byte, error) {
	if s == nil {
		return nil, errNilSnapshot
	}
	data := make([]byte, SnapshotSerializeSize)

	// Write header
	copy(data[0:12], snapMagic)
	binary.LittleEndian.PutUint16(data[12:14], snapVersion)

	offset := snapHeaderSize
	offset = encodeMemories(s, data, offset)
	encodeRegisters(s, data, offset)

	// Calculate and write data CRC32 (over everything after header)
	dataCRC := crc32.ChecksumIEEE(data[snapHeaderSize:])
	binary.LittleEndian.PutUint32(data[14:18], dataCRC)

	return data, nil
}

// DecodeSnapshot restores a snapshot from its on-disk form.
func DecodeSnapshot(data []byte) (*Snapshot, error) {
	if err := VerifySnapshot(data); err != nil {
		return nil, err
	}

	s := &Snapshot{}
	offset := snapHeaderSize
	offset = decodeMemories(s, data, offset)
	decodeRegisters(s, data, offset)

	return s, nil
}

// VerifySnapshot checks if encoded snapshot data is valid without loading it.
func VerifySnapshot(data []byte) error {
	if len(data) < SnapshotSerializeSize {
		return errors.New("snapshot data too short")
	}

	if string(data[0:12]) != snapMagic {
		return errors.New("invalid snapshot magic")
	}

	version := binary.LittleEndian.Uint16(data[12:14])
	if version > snapVersion {
		return errors.New("unsupported snapshot version")
	}

	expectedCRC := binary.LittleEndian.Uint32(data[14:18])
	actualCRC := crc32.ChecksumIEEE(data[snapHeaderSize:SnapshotSerializeSize])
	if expectedCRC != actualCRC {
		return errors.New("snapshot data is corrupted")
	}

	return nil
}

func encodeMemories(s *Snapshot, data []byte, offset int) int {
	copy(data[offset:], s.VRAM[:])
	offset += VRAMSize
	copy(data[offset:], s.PalBG[:])
	offset += PalBGSize
	copy(data[offset:], s.PalOBJ[:])
	offset += PalOBJSize
	copy(data[offset:], s.OAM[:])
	offset += OAMSize
	return offset
}

func decodeMemories(s *Snapshot, data []byte, offset int) int {
	copy(s.VRAM[:], data[offset:offset+VRAMSize])
	offset += VRAMSize
	copy(s.PalBG[:], data[offset:offset+PalBGSize])
	offset += PalBGSize
	copy(s.PalOBJ[:], data[offset:offset+PalOBJSize])
	offset += PalOBJSize
	copy(s.OAM[:], data[offset:offset+OAMSize])
	offset += OAMSize
	return offset
}

func putU32(data []byte, offset int, v uint32) int {
	binary.LittleEndian.PutUint32(data[offset:], v)
	return offset + 4
}

func putI32(data []byte, offset int, v int32) int {
	return putU32(data, offset, uint32(v))
}

func getU32(data []byte, offset int) (uint32, int) {
	return binary.LittleEndian.Uint32(data[offset:]), offset + 4
}

func getI32(data []byte, offset int) (int32, int) {
	v, off := getU32(data, offset)
	return int32(v), off
}

func encodeRegisters(s *Snapshot, data []byte, offset int) int {
	for b := 0; b < NumBackgrounds; b++ {
		bg := &s.BG[b]
		offset = putU32(data, offset, bg.CharBase)
		offset = putU32(data, offset, bg.ScreenBase)
		offset = putU32(data, offset, bg.HOfs)
		offset = putU32(data, offset, bg.VOfs)
		offset = putU32(data, offset, bg.Priority)
		offset = putU32(data, offset, bg.Flags)
		data[offset] = boolByte(bg.Enabled)
		offset++
	}

	for _, r := range []WindowRect{s.Win.Win0, s.Win.Win1} {
		offset = putU32(data, offset, r.X1)
		offset = putU32(data, offset, r.Y1)
		offset = putU32(data, offset, r.X2)
		offset = putU32(data, offset, r.Y2)
	}
	data[offset] = s.Win.In0
	data[offset+1] = s.Win.In1
	data[offset+2] = s.Win.Out
	data[offset+3] = s.Win.Obj
	offset += 4

	binary.LittleEndian.PutUint16(data[offset:], s.Blend.Control)
	binary.LittleEndian.PutUint16(data[offset+2:], s.Blend.Alpha)
	binary.LittleEndian.PutUint16(data[offset+4:], s.Blend.Bright)
	binary.LittleEndian.PutUint16(data[offset+6:], s.Blend.Mosaic)
	offset += 8

	for y := 0; y < ScreenHeight; y++ {
		ov := &s.Scan[y]
		for b := 0; b < NumBackgrounds; b++ {
			offset = putU32(data, offset, ov.HOfs[b])
		}
		for b := 0; b < NumBackgrounds; b++ {
			offset = putU32(data, offset, ov.VOfs[b])
		}
		offset = putU32(data, offset, ov.Win0X1)
		offset = putU32(data, offset, ov.Win0X2)
		offset = putU32(data, offset, ov.Win1X1)
		offset = putU32(data, offset, ov.Win1X2)
		offset = putU32(data, offset, ov.BldCnt)
		offset = putU32(data, offset, ov.BldAlpha)
		offset = putU32(data, offset, ov.BldY)
		data[offset] = boolByte(ov.Enabled)
		offset++
	}

	for b := 0; b < NumBackgrounds; b++ {
		a := &s.BGAffine[b]
		offset = putI32(data, offset, a.RefX)
		offset = putI32(data, offset, a.RefY)
		offset = putI32(data, offset, a.PA)
		offset = putI32(data, offset, a.PB)
		offset = putI32(data, offset, a.PC)
		offset = putI32(data, offset, a.PD)
	}
	for i := 0; i < NumObjAffine; i++ {
		a := &s.ObjAff[i]
		offset = putI32(data, offset, a.PA)
		offset = putI32(data, offset, a.PB)
		offset = putI32(data, offset, a.PC)
		offset = putI32(data, offset, a.PD)
	}

	offset = putU32(data, offset, s.Dispatch.MapWidth)
	offset = putU32(data, offset, s.Dispatch.MapHeight)
	offset = putU32(data, offset, s.Dispatch.ObjCharBase)
	offset = putU32(data, offset, s.Dispatch.ObjMapMode)

	return offset
}

func decodeRegisters(s *Snapshot, data []byte, offset int) int {
	for b := 0; b < NumBackgrounds; b++ {
		bg := &s.BG[b]
		bg.CharBase, offset = getU32(data, offset)
		bg.ScreenBase, offset = getU32(data, offset)
		bg.HOfs, offset = getU32(data, offset)
		bg.VOfs, offset = getU32(data, offset)
		bg.Priority, offset = getU32(data, offset)
		bg.Flags, offset = getU32(data, offset)
		bg.Enabled = data[offset] != 0
		offset++
	}

	for _, r := range []*WindowRect{&s.Win.Win0, &s.Win.Win1} {
		r.X1, offset = getU32(data, offset)
		r.Y1, offset = getU32(data, offset)
		r.X2, offset = getU32(data, offset)
		r.Y2, offset = getU32(data, offset)
	}
	s.Win.In0 = data[offset]
	s.Win.In1 = data[offset+1]
	s.Win.Out = data[offset+2]
	s.Win.Obj = data[offset+3]
	offset += 4

	s.Blend.Control = binary.LittleEndian.Uint16(data[offset:])
	s.Blend.Alpha = binary.LittleEndian.Uint16(data[offset+2:])
	s.Blend.Bright = binary.LittleEndian.Uint16(data[offset+4:])
	s.Blend.Mosaic = binary.LittleEndian.Uint16(data[offset+6:])
	offset += 8

	for y := 0; y < ScreenHeight; y++ {
		ov := &s.Scan[y]
		for b := 0; b < NumBackgrounds; b++ {
			ov.HOfs[b], offset = getU32(data, offset)
		}
		for b := 0; b < NumBackgrounds; b++ {
			ov.VOfs[b], offset = getU32(data, offset)
		}
		ov.Win0X1, offset = getU32(data, offset)
		ov.Win0X2, offset = getU32(data, offset)
		ov.Win1X1, offset = getU32(data, offset)
		ov.Win1X2, offset = getU32(data, offset)
		ov.BldCnt, offset = getU32(data, offset)
		ov.BldAlpha, offset = getU32(data, offset)
		ov.BldY, offset = getU32(data, offset)
		ov.Enabled = data[offset] != 0
		offset++
	}

	for b := 0; b < NumBackgrounds; b++ {
		a := &s.BGAffine[b]
		a.RefX, offset = getI32(data, offset)
		a.RefY, offset = getI32(data, offset)
		a.PA, offset = getI32(data, offset)
		a.PB, offset = getI32(data, offset)
		a.PC, offset = getI32(data, offset)
		a.PD, offset = getI32(data, offset)
	}
	for i := 0; i < NumObjAffine; i++ {
		a := &s.ObjAff[i]
		a.PA, offset = getI32(data, offset)
		a.PB, offset = getI32(data, offset)
		a.PC, offset = getI32(data, offset)
		a.PD, offset = getI32(data, offset)
	}

	s.Dispatch.MapWidth, offset = getU32(data, offset)
	s.Dispatch.MapHeight, offset = getU32(data, offset)
	s.Dispatch.ObjCharBase, offset = getU32(data, offset)
	s.Dispatch.ObjMapMode, offset = getU32(data, offset)

	return offset
}
