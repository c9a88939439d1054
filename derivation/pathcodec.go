package derivation

import "encoding/binary"

// Child index words are 31 bits wide: the most significant bit of each 4-byte
// word is reserved as the BIP32 non-hardened marker and always zero.
const indexBits = 31

// ChildIndices packs an arbitrary byte sequence into a sequence of 31-bit
// child index words for non-hardened derivation, one 4-byte big-endian word
// per segment.
//
// The input is walked bit by bit, most significant bit first. Bit k of the
// input stream lands on bit k mod 31 of output word k div 31, counted from the
// word's most significant payload bit (bit 30). A completed word is flushed
// every 31 bits consumed; the trailing partial word is flushed, right-padded
// with zero bits, iff len(raw) mod 8 != 0. An input of exactly eight bytes
// therefore yields two words with the last two bits dropped; callers that
// round-trip paths must carry the word form, not the raw bytes.
func ChildIndices(raw []byte) [][]byte {
	var indices [][]byte
	var word uint32
	used := 0 // payload bits in the current word

	flush := func() {
		segment := make([]byte, 4)
		binary.BigEndian.PutUint32(segment, word)
		indices = append(indices, segment)
		word = 0
		used = 0
	}

	for _, b := range raw {
		for shift := 7; shift >= 0; shift-- {
			bit := uint32(b>>shift) & 1
			word |= bit << (indexBits - 1 - used)
			used++
			if used == indexBits {
				flush()
			}
		}
	}
	if len(raw)%8 != 0 {
		flush()
	}
	return indices
}
