package phone

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"parenthesized US number", "(555) 123-4567", "+15551234567"},
		{"dashed US number", "555-123-4567", "+15551234567"},
		{"bare ten digits", "5551234567", "+15551234567"},
		{"spaced with country code", "+1 555 123 4567", "+15551234567"},
		{"eleven digits keeps bare plus", "15551234567", "+15551234567"},
		{"international number", "+44 20 7946 0958", "+442079460958"},
		{"short number", "12345", "+12345"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Normalize(tc.raw)
			if got != tc.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tc.raw, got, tc.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	for _, raw := range []string{"(555) 123-4567", "+442079460958", "5551234567"} {
		once := Normalize(raw)
		twice := Normalize(once)
		if once != twice {
			t.Fatalf("Normalize not idempotent: %q -> %q -> %q", raw, once, twice)
		}
	}
}

func TestNormalizeEquivalentFormats(t *testing.T) {
	a := Normalize("(555) 123-4567")
	b := Normalize("555-123-4567")
	if a != b {
		t.Fatalf("equivalent formats normalized differently: %q vs %q", a, b)
	}
}
