package codec

import (
	"encoding/base64"
	"errors"
)

// ErrInvalidEncoding is returned when the input is not well-formed Base64.
var ErrInvalidEncoding = errors.New("invalid base64 encoding")

// Encode converts raw bytes to standard Base64 text. It never fails and
// round-trips through Decode.
func Encode(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// Decode converts Base64 text back to raw bytes. Padding is optional:
// padded input is decoded strictly against the standard alphabet, unpadded
// input against the raw encoding. Anything else fails with
// ErrInvalidEncoding. The alphabet is checked up front because the stdlib
// decoders silently skip CR and LF.
func Decode(s string) ([]byte, error) {
	for i := 0; i < len(s); i++ {
		if !validBase64Char(s[i]) {
			return nil, ErrInvalidEncoding
		}
	}

	enc := base64.StdEncoding
	if len(s)%4 != 0 {
		enc = base64.RawStdEncoding
	}

	out, err := enc.DecodeString(s)
	if err != nil {
		return nil, ErrInvalidEncoding
	}
	return out, nil
}

func validBase64Char(c byte) bool {
	switch {
	case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		return true
	case c == '+', c == '/', c == '=':
		return true
	}
	return false
}
