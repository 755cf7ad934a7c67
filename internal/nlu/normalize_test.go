package nlu

import "testing"

func TestNormalizeFoldsDiacritics(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Höj Volymen", "hoj volymen"},
		{"SÄNK ljudet", "sank ljudet"},
		{"spela på köket", "spela pa koket"},
		{"  spela   upp  ", "spela upp"},
		{"", ""},
		{"   ", ""},
	}
	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Fatalf("Normalize(%q)=%q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Höj volymen till 80 procent",
		"SPELA PÅ KÖKET",
		"  blandade   mellanslag\toch\ttabbar  ",
	}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Fatalf("Normalize not idempotent: %q -> %q -> %q", in, once, twice)
		}
	}
}
