//go:build rp2040 || rp2350

package strconvx

import "blinkdemo-go/x/conv"

// Decimal only; no strconv tables pulled into the image.

type parseError struct{ s string }

func (e parseError) Error() string { return "strconvx: parsing \"" + e.s + "\": invalid syntax" }

func Itoa(i int) string {
	var buf [20]byte
	return string(conv.Itoa(buf[:], int64(i)))
}

func Atoi(s string) (int, error) {
	in := s
	neg := false
	if len(s) > 0 && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	if len(s) == 0 {
		return 0, parseError{in}
	}
	const maxInt = int(^uint(0) >> 1)
	v := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, parseError{in}
		}
		d := int(c - '0')
		if v > (maxInt-d)/10 {
			return 0, parseError{in}
		}
		v = v*10 + d
	}
	if neg {
		v = -v
	}
	return v, nil
}
