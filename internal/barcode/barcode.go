package barcode

import (
	"fmt"
	"math/rand/v2"
)

// Length is the number of digits in an identifier, check digit included.
const Length = 12

// DataLength is the number of data digits preceding the check digit.
const DataLength = Length - 1

// Generator produces random identifiers from its own random source.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator returns a Generator drawing digits from src.
func NewGenerator(src rand.Source) *Generator {
	return &Generator{rng: rand.New(src)}
}

// Generate returns a random 12-digit identifier with a valid check digit.
func (g *Generator) Generate() string {
	return generate(g.rng.IntN)
}

// Generate returns a random 12-digit identifier using the global random source.
// Uniqueness against existing identifiers is not checked.
func Generate() string {
	return generate(rand.IntN)
}

func generate(intN func(int) int) string {
	digits := make([]byte, Length)
	for i := range DataLength {
		digits[i] = byte('0' + intN(10))
	}
	// The data digits are always well-formed here.
	check, _ := CheckDigit(string(digits[:DataLength]))
	digits[DataLength] = byte('0' + check)
	return string(digits)
}

// CheckDigit computes the UPC-A check digit for an 11-digit string.
// Digits at odd positions (1st, 3rd, ...) are weighted by 3.
func CheckDigit(data string) (int, error) {
	if len(data) != DataLength {
		return 0, fmt.Errorf("expected %d digits, got %d characters", DataLength, len(data))
	}

	var oddSum, evenSum int
	for i := 0; i < DataLength; i++ {
		c := data[i]
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("invalid character %q at position %d", c, i)
		}
		if i%2 == 0 {
			oddSum += int(c - '0')
		} else {
			evenSum += int(c - '0')
		}
	}

	total := oddSum*3 + evenSum
	return (10 - total%10) % 10, nil
}

// IsValid reports whether s is a 12-digit identifier with a correct check digit.
// Malformed input is reported as invalid.
func IsValid(s string) bool {
	if len(s) != Length {
		return false
	}
	last := s[DataLength]
	if last < '0' || last > '9' {
		return false
	}
	check, err := CheckDigit(s[:DataLength])
	if err != nil {
		return false
	}
	return check == int(last-'0')
}
