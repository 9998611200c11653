/*
DESCRIPTION
  huffman.go provides insertion of the standard JPEG Huffman tables into
  images that omit them. Many UVC webcams strip the DHT segment from their
  MJPEG frames and rely on the decoder to assume the tables from ITU T.81
  Annex K.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package jpeg

import "encoding/binary"

// More JPEG marker codes.
const (
	codeDHT = 0xc4 // Define huffman tables.
	codeSOS = 0xda // Start of scan.
	codeTEM = 0x01
	codeRST = 0xd0 // First of the eight restart markers.
)

// Slices used in the creation of huffman tables. The first element of each
// bits slice is unused so that bits[i] is the count of codes of length i.
var (
	bitsDCLum = []byte{0, 0, 1, 5, 1, 1, 1, 1, 1, 1, 0, 0, 0, 0, 0, 0, 0}
	bitsDCChr = []byte{0, 0, 3, 1, 1, 1, 1, 1, 1, 1, 1, 1, 0, 0, 0, 0, 0}
	bitsACLum = []byte{0, 0, 2, 1, 3, 3, 2, 4, 3, 5, 5, 4, 4, 0, 0, 1, 0x7d}
	bitsACChr = []byte{0, 0, 2, 1, 2, 4, 4, 3, 4, 7, 5, 4, 4, 0, 1, 2, 0x77}
	valDC     = []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}
	valACLum  = []byte{
		0x01, 0x02, 0x03, 0x00, 0x04, 0x11, 0x05, 0x12,
		0x21, 0x31, 0x41, 0x06, 0x13, 0x51, 0x61, 0x07,
		0x22, 0x71, 0x14, 0x32, 0x81, 0x91, 0xa1, 0x08,
		0x23, 0x42, 0xb1, 0xc1, 0x15, 0x52, 0xd1, 0xf0,
		0x24, 0x33, 0x62, 0x72, 0x82, 0x09, 0x0a, 0x16,
		0x17, 0x18, 0x19, 0x1a, 0x25, 0x26, 0x27, 0x28,
		0x29, 0x2a, 0x34, 0x35, 0x36, 0x37, 0x38, 0x39,
		0x3a, 0x43, 0x44, 0x45, 0x46, 0x47, 0x48, 0x49,
		0x4a, 0x53, 0x54, 0x55, 0x56, 0x57, 0x58, 0x59,
		0x5a, 0x63, 0x64, 0x65, 0x66, 0x67, 0x68, 0x69,
		0x6a, 0x73, 0x74, 0x75, 0x76, 0x77, 0x78, 0x79,
		0x7a, 0x83, 0x84, 0x85, 0x86, 0x87, 0x88, 0x89,
		0x8a, 0x92, 0x93, 0x94, 0x95, 0x96, 0x97, 0x98,
		0x99, 0x9a, 0xa2, 0xa3, 0xa4, 0xa5, 0xa6, 0xa7,
		0xa8, 0xa9, 0xaa, 0xb2, 0xb3, 0xb4, 0xb5, 0xb6,
		0xb7, 0xb8, 0xb9, 0xba, 0xc2, 0xc3, 0xc4, 0xc5,
		0xc6, 0xc7, 0xc8, 0xc9, 0xca, 0xd2, 0xd3, 0xd4,
		0xd5, 0xd6, 0xd7, 0xd8, 0xd9, 0xda, 0xe1, 0xe2,
		0xe3, 0xe4, 0xe5, 0xe6, 0xe7, 0xe8, 0xe9, 0xea,
		0xf1, 0xf2, 0xf3, 0xf4, 0xf5, 0xf6, 0xf7, 0xf8,
		0xf9, 0xfa,
	}
	valACChr = []byte{
		0x00, 0x01, 0x02, 0x03, 0x11, 0x04, 0x05, 0x21,
		0x31, 0x06, 0x12, 0x41, 0x51, 0x07, 0x61, 0x71,
		0x13, 0x22, 0x32, 0x81, 0x08, 0x14, 0x42, 0x91,
		0xa1, 0xb1, 0xc1, 0x09, 0x23, 0x33, 0x52, 0xf0,
		0x15, 0x62, 0x72, 0xd1, 0x0a, 0x16, 0x24, 0x34,
		0xe1, 0x25, 0xf1, 0x17, 0x18, 0x19, 0x1a, 0x26,
		0x27, 0x28, 0x29, 0x2a, 0x35, 0x36, 0x37, 0x38,
		0x39, 0x3a, 0x43, 0x44, 0x45, 0x46, 0x47, 0x48,
		0x49, 0x4a, 0x53, 0x54, 0x55, 0x56, 0x57, 0x58,
		0x59, 0x5a, 0x63, 0x64, 0x65, 0x66, 0x67, 0x68,
		0x69, 0x6a, 0x73, 0x74, 0x75, 0x76, 0x77, 0x78,
		0x79, 0x7a, 0x82, 0x83, 0x84, 0x85, 0x86, 0x87,
		0x88, 0x89, 0x8a, 0x92, 0x93, 0x94, 0x95, 0x96,
		0x97, 0x98, 0x99, 0x9a, 0xa2, 0xa3, 0xa4, 0xa5,
		0xa6, 0xa7, 0xa8, 0xa9, 0xaa, 0xb2, 0xb3, 0xb4,
		0xb5, 0xb6, 0xb7, 0xb8, 0xb9, 0xba, 0xc2, 0xc3,
		0xc4, 0xc5, 0xc6, 0xc7, 0xc8, 0xc9, 0xca, 0xd2,
		0xd3, 0xd4, 0xd5, 0xd6, 0xd7, 0xd8, 0xd9, 0xda,
		0xe2, 0xe3, 0xe4, 0xe5, 0xe6, 0xe7, 0xe8, 0xe9,
		0xea, 0xf2, 0xf3, 0xf4, 0xf5, 0xf6, 0xf7, 0xf8,
		0xf9, 0xfa,
	}
)

// defaultDHT holds a complete DHT segment, marker included, defining the four
// standard tables.
var defaultDHT = buildDHT()

func buildDHT() []byte {
	p := make([]byte, 4, 512)
	binary.BigEndian.PutUint16(p, 0xff00|codeDHT)
	p = appendHuffman(p, bitsDCLum, valDC, 0)
	p = appendHuffman(p, bitsDCChr, valDC, 1)
	p = appendHuffman(p, bitsACLum, valACLum, 1<<4)
	p = appendHuffman(p, bitsACChr, valACChr, 1<<4|1)
	binary.BigEndian.PutUint16(p[2:], uint16(len(p)-2))
	return p
}

// appendHuffman appends a JPEG huffman table with class and id given by prefix.
func appendHuffman(p, bits, values []byte, prefix byte) []byte {
	p = append(p, prefix)
	p = append(p, bits[1:17]...)
	return append(p, values[:deriveN(bits)]...)
}

// deriveN calculates the number of values in a huffman table.
func deriveN(bits []byte) int {
	var n int
	for i := 1; i <= 16; i++ {
		n += int(bits[i])
	}
	return n
}

// InsertHuffman returns b with the standard huffman tables inserted before
// the start of scan if b has no DHT segment of its own. Images that already
// define tables, or that cannot be walked to a start of scan, are returned
// unchanged.
func InsertHuffman(b []byte) []byte {
	if len(b) < 4 || b[0] != 0xff || b[1] != codeSOI {
		return b
	}
	for i := 2; i+1 < len(b); {
		if b[i] != 0xff {
			return b
		}
		m := b[i+1]
		switch {
		case m == 0xff:
			// Fill byte.
			i++
			continue
		case m == codeDHT:
			return b
		case m == codeSOS:
			out := make([]byte, 0, len(b)+len(defaultDHT))
			out = append(out, b[:i]...)
			out = append(out, defaultDHT...)
			return append(out, b[i:]...)
		case m == codeTEM || (m >= codeRST && m < codeRST+8):
			i += 2
			continue
		}
		if i+4 > len(b) {
			return b
		}
		i += 2 + int(binary.BigEndian.Uint16(b[i+2:]))
	}
	return b
}
