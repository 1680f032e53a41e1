package frame

import (
	"bytes"
	"fmt"
)

// Polynomial is the CRC-CCITT generator used by the link.
const Polynomial uint16 = 0x1021

var crcTable = makeTable(Polynomial)

func makeTable(poly uint16) [256]uint16 {
	var table [256]uint16
	for i := range table {
		crc := uint16(i) << 8
		for b := 0; b < 8; b++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ poly
			} else {
				crc <<= 1
			}
		}
		table[i] = crc
	}
	return table
}

// CRCTable returns a copy of the 256-entry lookup table.
func CRCTable() [256]uint16 {
	return crcTable
}

// CRC16 runs the table-driven CRC over data. Each data byte is folded in after
// the table step, which is what distinguishes this CRC from CRC-16/XMODEM.
func CRC16(data []byte) uint16 {
	var crc uint16
	for _, b := range data {
		crc = crcTable[crc>>8] ^ crc<<8 ^ uint16(b)
	}
	return crc
}

// ComputeCRC returns the two CRC bytes in wire order, low byte first.
func ComputeCRC(data []byte) []byte {
	crc := CRC16(data)
	return []byte{byte(crc), byte(crc >> 8)}
}

// ValidCRC is the soft form of CheckCRC.
func ValidCRC(data, crc []byte) bool {
	return len(crc) == CRCLen && bytes.Equal(ComputeCRC(data), crc)
}

func CheckCRC(data, crc []byte) error {
	if !ValidCRC(data, crc) {
		return fmt.Errorf("%w: got % x, want % x", ErrInvalidCRC, crc, ComputeCRC(data))
	}
	return nil
}
