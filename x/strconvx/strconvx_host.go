//go:build !(rp2040 || rp2350)

package strconvx

import "strconv"

// Signature parity with strconv for the few helpers the shell needs.

func Itoa(i int) string          { return strconv.Itoa(i) }
func Atoi(s string) (int, error) { return strconv.Atoi(s) }
