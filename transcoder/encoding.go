package transcoder

// Encoding is a Canonical ABI string-encoding option.
type Encoding uint8

const (
	// EncodingUTF8 stores strings as UTF-8 with the length in bytes.
	EncodingUTF8 Encoding = iota
	// EncodingUTF16 stores strings as little-endian UTF-16 with the length
	// in code units.
	EncodingUTF16
	// EncodingLatin1UTF16 is the compact dual encoding. It is recognised
	// but not supported.
	EncodingLatin1UTF16
)

func (e Encoding) String() string {
	switch e {
	case EncodingUTF8:
		return "utf8"
	case EncodingUTF16:
		return "utf16"
	case EncodingLatin1UTF16:
		return "latin1+utf16"
	default:
		return "unknown"
	}
}

// Align returns the alignment of string data in this encoding.
func (e Encoding) Align() uint32 {
	if e == EncodingUTF8 {
		return 1
	}
	return 2
}

// unitSize returns the width of one length unit in bytes.
func (e Encoding) unitSize() uint32 {
	if e == EncodingUTF8 {
		return 1
	}
	return 2
}
