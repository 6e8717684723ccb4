package automation

import "testing"

func TestParseAddressAcceptsAllFourNotations(t *testing.T) {
	cases := map[string]uint16{
		"0x1234": 0x1234,
		"$1234":  0x1234,
		"#1234":  0x1234,
		"1234":   1234,
	}
	for input, want := range cases {
		got, err := ParseAddress(input, 0xFFFF)
		if err != nil {
			t.Fatalf("ParseAddress(%q): %v", input, err)
		}
		if got != want {
			t.Fatalf("ParseAddress(%q) = %#04x, want %#04x", input, got, want)
		}
	}
}

func TestParseAddressRejectsOutOfRange(t *testing.T) {
	if _, err := ParseAddress("0x10000", 0xFFFF); err == nil {
		t.Fatal("expected an out-of-range error")
	}
}

func TestParseAddressRejectsGarbage(t *testing.T) {
	if _, err := ParseAddress("not-an-address", 0xFFFF); err == nil {
		t.Fatal("expected a parse error")
	}
}
