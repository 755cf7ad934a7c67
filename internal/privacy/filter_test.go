package privacy

import "testing"

func TestCleanMasksPersonalData(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			"personnummer short form",
			"Ditt personnummer är 850709-1234.",
			"Ditt personnummer är [personnummer].",
		},
		{
			"personnummer with century",
			"Registrerat på 19850709-1234 sedan tidigare.",
			"Registrerat på [personnummer] sedan tidigare.",
		},
		{
			"email",
			"Jag skickade det till anna.svensson@example.se igår.",
			"Jag skickade det till [e-postadress] igår.",
		},
		{
			"mobile domestic",
			"Ring 070-123 45 67 så svarar de.",
			"Ring [telefonnummer] så svarar de.",
		},
		{
			"mobile international",
			"Numret är +46701234567.",
			"Numret är [telefonnummer].",
		},
		{
			"multiple hits",
			"Maila a@b.se eller ring 0701234567.",
			"Maila [e-postadress] eller ring [telefonnummer].",
		},
		{
			"clean text untouched",
			"Volymen är nu 80.",
			"Volymen är nu 80.",
		},
		{
			"empty",
			"",
			"",
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Clean(c.in); got != c.want {
				t.Fatalf("Clean(%q)=%q, want %q", c.in, got, c.want)
			}
		})
	}
}
