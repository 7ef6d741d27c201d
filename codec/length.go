package codec

// UnitByteLength returns the number of UTF-8 bytes unit contributes when
// encoded. A high surrogate counts as the whole 4-byte pair it starts and a
// low surrogate as 0, so the sum over valid input is exact.
func UnitByteLength(unit uint16) int {
	switch {
	case unit < runeSelf:
		return 1
	case unit < 0x800:
		return 2
	case unit < surr1:
		return 3
	case unit < surr2:
		return 4
	case unit < surr3:
		return 0
	default:
		return 3
	}
}

// ByteLength returns the number of bytes needed to encode units. It does not
// check surrogate pairing: a high surrogate without a partner still counts 4,
// so for invalid input the result may exceed what EncodeInto writes before
// it reports the orphan.
func ByteLength(units []uint16) int {
	n := 0
	for _, u := range units {
		n += UnitByteLength(u)
	}
	return n
}
