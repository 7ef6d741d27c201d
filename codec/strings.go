package codec

import "unsafe"

// FromString converts a Go string to UTF-16 code units. The string must be
// valid UTF-8 under the rules Decode enforces.
func FromString(s string) ([]uint16, error) {
	return Decode(unsafe.Slice(unsafe.StringData(s), len(s)))
}

// ToString converts UTF-16 code units to a Go string.
func ToString(units []uint16) (string, error) {
	b, err := Encode(units)
	if err != nil {
		return "", err
	}
	return unsafe.String(unsafe.SliceData(b), len(b)), nil
}
