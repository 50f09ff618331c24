package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDesignCode(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "D100", "D100"},
		{"trims edges", "  D100  ", "D100"},
		{"collapses runs", "D  100   A", "D 100 A"},
		{"tabs and newlines", "D\t100\nA", "D 100 A"},
		{"empty", "", ""},
		{"only spaces", "   ", ""},
		{"keeps case", "Ring-22k", "Ring-22k"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DesignCode(tc.in))
		})
	}
}

func TestKarigarName_FoldsCase(t *testing.T) {
	assert.Equal(t, "ramesh", KarigarName("Ramesh"))
	assert.Equal(t, "ramesh", KarigarName(" ramesh "))
	assert.Equal(t, "ramesh", KarigarName("RAMESH"))
	assert.Equal(t, "suresh kumar", KarigarName("Suresh   KUMAR"))
}

func TestStatus_FoldsCase(t *testing.T) {
	assert.Equal(t, "billed", Status(" Billed "))
	assert.Equal(t, "given_to_hallmark", Status("GIVEN_TO_HALLMARK"))
}

// f(f(x)) == f(x) must hold for every input.
func TestIdempotence(t *testing.T) {
	inputs := []string{"", "  ", "D 100", "  Ramesh  KUMAR ", "a\tb\nc", "UNASSIGNED"}

	for _, in := range inputs {
		assert.Equal(t, DesignCode(in), DesignCode(DesignCode(in)))
		assert.Equal(t, KarigarName(in), KarigarName(KarigarName(in)))
		assert.Equal(t, Status(in), Status(Status(in)))
	}
}
