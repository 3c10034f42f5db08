package hash

import "testing"

func TestSHA256Hex(t *testing.T) {
	// Known vector: SHA256("abc")
	want := "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got := SHA256Hex("abc"); got != want {
		t.Errorf("SHA256Hex(abc) = %s, want %s", got, want)
	}
}

func TestSHA256Hex_EmptyString(t *testing.T) {
	want := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if got := SHA256Hex(""); got != want {
		t.Errorf("SHA256Hex(\"\") = %s, want %s", got, want)
	}
}

func TestFingerprint(t *testing.T) {
	full := SHA256Hex("run-42")

	if got := Fingerprint("run-42", 16); got != full[:16] {
		t.Errorf("Fingerprint length 16 = %s, want %s", got, full[:16])
	}
	if got := Fingerprint("run-42", 1000); got != full {
		t.Errorf("Fingerprint with oversized length = %s, want full digest", got)
	}
}

func TestFingerprint_Deterministic(t *testing.T) {
	a := Fingerprint("same-input", 16)
	b := Fingerprint("same-input", 16)
	if a != b {
		t.Errorf("fingerprints differ: %s vs %s", a, b)
	}
	if c := Fingerprint("other-input", 16); c == a {
		t.Error("different inputs produced the same fingerprint")
	}
}
