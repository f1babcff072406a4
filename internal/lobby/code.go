package lobby

import (
	"crypto/rand"
	"math/big"
	"strings"
)

// Letters skip I and O so codes read unambiguously next to digits.
const (
	codeLetters = "ABCDEFGHJKLMNPQRSTUVWXYZ"
	codeDigits  = "0123456789"
)

// GenerateCode returns a code of the form LLL-DDD.
func GenerateCode() (string, error) {
	code := make([]byte, 0, 7)
	for i := 0; i < 3; i++ {
		c, err := pick(codeLetters)
		if err != nil {
			return "", err
		}
		code = append(code, c)
	}
	code = append(code, '-')
	for i := 0; i < 3; i++ {
		c, err := pick(codeDigits)
		if err != nil {
			return "", err
		}
		code = append(code, c)
	}
	return string(code), nil
}

func pick(charset string) (byte, error) {
	num, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
	if err != nil {
		return 0, err
	}
	return charset[num.Int64()], nil
}

// NormalizeCode accepts codes typed in any case and with stray spaces.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
