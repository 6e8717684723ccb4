package keyboard

import "testing"

func TestPressClearsBitAndReleaseRestoresIt(t *testing.T) {
	c := New()
	if !c.Press("a") {
		t.Fatal("expected Press(\"a\") to recognize the key")
	}
	pos := keyPositions["a"]
	if c.state[pos.row]&(1<<pos.bit) != 0 {
		t.Fatal("expected the bit to be cleared while pressed")
	}
	if !c.Release("a") {
		t.Fatal("expected Release(\"a\") to recognize the key")
	}
	if c.state[pos.row]&(1<<pos.bit) == 0 {
		t.Fatal("expected the bit to be set again after release")
	}
}

func TestPressUnknownKeyReportsFalse(t *testing.T) {
	c := New()
	if c.Press("nonexistent") {
		t.Fatal("expected Press on an unknown key name to fail")
	}
}

func TestTapReleasesImmediately(t *testing.T) {
	c := New()
	c.Tap("enter")
	pos := keyPositions["enter"]
	if c.state[pos.row]&(1<<pos.bit) == 0 {
		t.Fatal("expected the key to be released after Tap returns")
	}
}

func TestComboRejectsUnknownKeyWithoutSideEffects(t *testing.T) {
	c := New()
	before := c.State()
	ok, bad := c.Combo("caps", "bogus")
	if ok || bad != "bogus" {
		t.Fatalf("expected Combo to reject the unknown key, got ok=%v bad=%q", ok, bad)
	}
	if c.State() != before {
		t.Fatal("expected no keys to be pressed when Combo rejects an unknown name")
	}
}

func TestMacroRunsKnownSequenceAndReleasesAllKeys(t *testing.T) {
	c := New()
	if !c.Macro("e_mode") {
		t.Fatal("expected e_mode macro to be recognized")
	}
	if c.State() != (Matrix{allReleased, allReleased, allReleased, allReleased, allReleased, allReleased, allReleased, allReleased}) {
		t.Fatal("expected every key released once the macro's combos complete")
	}
	if c.Macro("nonexistent") {
		t.Fatal("expected an unknown macro name to be rejected")
	}
}

func TestTypeUppercaseUsesCapsShiftCombo(t *testing.T) {
	c := New()
	skipped := c.Type("Hi 5!")
	if len(skipped) != 1 || skipped[0] != '!' {
		t.Fatalf("expected only '!' to be skipped, got %q", string(skipped))
	}
}

func TestKnownKeysAndMacrosAreSorted(t *testing.T) {
	keys := KnownKeys()
	for i := 1; i < len(keys); i++ {
		if keys[i-1] > keys[i] {
			t.Fatalf("expected KnownKeys sorted, found %q before %q", keys[i-1], keys[i])
		}
	}
	macroNames := KnownMacros()
	for i := 1; i < len(macroNames); i++ {
		if macroNames[i-1] > macroNames[i] {
			t.Fatalf("expected KnownMacros sorted, found %q before %q", macroNames[i-1], macroNames[i])
		}
	}
}
