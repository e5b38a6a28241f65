package policy

import "testing"

func TestIsAllowedNZMobiles(t *testing.T) {
	p := NewCallerPolicy([]string{"+64"})

	cases := []struct {
		number string
		want   bool
	}{
		{"+64211234567", true},
		{"+64221234567", true},
		{"+64271234567", true},
		{"+64291234567", true},
		{"+64 21 123 4567", true},
		{"+64-27-123-4567", true},
		{"(+64) 21 123 4567", true},
		{"+6421123456", true},    // exactly 8 digits after the code
		{"+642112345", false},    // too short
		{"+64331234567", false},  // landline prefix
		{"+64911234567", false},  // not a mobile prefix
		{"+19995550000", false},  // wrong country
		{"0211234567", false},    // national format, no country code
		{"anonymous", false},
		{"", false},
	}

	for _, tc := range cases {
		if got := p.IsAllowed(tc.number); got != tc.want {
			t.Errorf("IsAllowed(%q) = %v, want %v", tc.number, got, tc.want)
		}
	}
}

func TestIsAllowedOtherRegions(t *testing.T) {
	p := NewCallerPolicy([]string{"+64", "+61"})

	if !p.IsAllowed("+61412345678") {
		t.Fatalf("expected +61 number with enough digits to be allowed")
	}
	if p.IsAllowed("+614123") {
		t.Fatalf("expected short +61 number to be rejected")
	}
	// The +64 mobile rules still apply when both codes are configured.
	if p.IsAllowed("+64331234567") {
		t.Fatalf("expected +64 landline to be rejected")
	}
}

func TestIsAllowedNoCodesConfigured(t *testing.T) {
	p := NewCallerPolicy(nil)

	if p.IsAllowed("+64211234567") {
		t.Fatalf("expected rejection when no country codes are configured")
	}
}
