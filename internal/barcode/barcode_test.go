package barcode

import (
	"math/rand/v2"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckDigitReferenceValues(t *testing.T) {
	tests := []struct {
		data string
		want int
	}{
		{"03600029145", 2},
		{"04210000526", 4},
		{"00000000000", 0},
		{"01234567890", 5},
		{"12345678901", 2},
	}

	for _, tt := range tests {
		got, err := CheckDigit(tt.data)
		require.NoError(t, err, tt.data)
		assert.Equal(t, tt.want, got, "CheckDigit(%q)", tt.data)
	}
}

func TestCheckDigitRejectsMalformedInput(t *testing.T) {
	for _, data := range []string{"", "0360002914", "036000291450", "0360002914a", " 3600029145", "0360002914٠"} {
		_, err := CheckDigit(data)
		assert.Error(t, err, "CheckDigit(%q)", data)
	}
}

func TestCheckDigitCompletesValidIdentifier(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for range 500 {
		data := ""
		for range DataLength {
			data += strconv.Itoa(rng.IntN(10))
		}
		check, err := CheckDigit(data)
		require.NoError(t, err)
		assert.True(t, IsValid(data+strconv.Itoa(check)), "identifier %s%d", data, check)
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"036000291452", true},
		{"042100005264", true},
		{"036000291453", false},
		{"042100005260", false},
		// Format errors are invalid, never a fault.
		{"", false},
		{"03600029145", false},
		{"0360002914520", false},
		{"03600029145x", false},
		{"0360002914-2", false},
		{"٠36000291452", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsValid(tt.in), "IsValid(%q)", tt.in)
	}
}

func TestGenerateProducesValidIdentifiers(t *testing.T) {
	for range 1000 {
		id := Generate()
		require.Len(t, id, Length)
		for _, c := range id {
			require.True(t, c >= '0' && c <= '9', "non-digit in %q", id)
		}
		require.True(t, IsValid(id), "invalid identifier %q", id)
	}
}

func TestGeneratorIsDeterministicForSeed(t *testing.T) {
	a := NewGenerator(rand.NewPCG(1, 2))
	b := NewGenerator(rand.NewPCG(1, 2))

	for range 20 {
		x, y := a.Generate(), b.Generate()
		assert.Equal(t, x, y)
		assert.True(t, IsValid(x))
	}
}
