package password

import "testing"

func TestHashVerify_RoundTrip(t *testing.T) {
	// params chicos para que el test no tarde
	p := Params{Memory: 8 * 1024, Time: 1, Parallelism: 1, KeyLen: 32}

	phc, err := Hash(p, "Sup3r-secreta")
	if err != nil {
		t.Fatal(err)
	}
	if !Verify("Sup3r-secreta", phc) {
		t.Fatal("expected verify ok for correct password")
	}
	if Verify("otra-cosa", phc) {
		t.Fatal("expected verify fail for wrong password")
	}
}

func TestHash_EmptyPassword(t *testing.T) {
	if _, err := Hash(Default, ""); err == nil {
		t.Fatal("expected error for empty password")
	}
}

func TestVerify_MalformedPHC(t *testing.T) {
	malformed := []string{
		"",
		"$argon2id$v=19$m=8192,t=1,p=1$saltsolo", // faltan segmentos
		"$bcrypt$v=19$m=8192,t=1,p=1$c2FsdA$ZGs", // algoritmo distinto
		"$argon2id$v=18$m=8192,t=1,p=1$c2FsdA$ZGs",
		"$argon2id$v=19$m=8192$c2FsdA$ZGs",
		"$argon2id$v=19$m=8192,t=1,p=1$!!!$ZGs", // salt no base64
	}
	for _, phc := range malformed {
		if Verify("whatever", phc) {
			t.Fatalf("expected verify fail for %q", phc)
		}
	}
}

func TestPolicy_Validate(t *testing.T) {
	pol := Policy{MinLength: 10, RequireUpper: true, RequireDigit: true}

	if ok, _ := pol.Validate("Abcdefghi1"); !ok {
		t.Fatal("expected valid password")
	}

	cases := []struct {
		pwd    string
		reason string
	}{
		{"Ab1", "too_short"},
		{"abcdefghij1", "missing_upper"},
		{"Abcdefghijk", "missing_digit"},
	}
	for _, c := range cases {
		ok, reasons := pol.Validate(c.pwd)
		if ok {
			t.Fatalf("expected invalid: %q", c.pwd)
		}
		found := false
		for _, r := range reasons {
			if r == c.reason {
				found = true
			}
		}
		if !found {
			t.Fatalf("expected reason %q for %q, got %v", c.reason, c.pwd, reasons)
		}
	}
}
