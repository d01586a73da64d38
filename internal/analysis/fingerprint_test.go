package analysis

import "testing"

func TestFingerprintDeterministic(t *testing.T) {
	a := Fingerprint("Great recipe", "Bake at 350F for 20 minutes", "")
	b := Fingerprint("Great recipe", "Bake at 350F for 20 minutes", "")
	if a != b {
		t.Fatalf("expected identical fingerprints, got %s and %s", a, b)
	}
	if len(a) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(a))
	}
}

func TestFingerprintFieldBoundaries(t *testing.T) {
	tests := []struct {
		name string
		a    [3]string
		b    [3]string
	}{
		{"title body shift", [3]string{"A", "BC", ""}, [3]string{"AB", "C", ""}},
		{"body excerpt shift", [3]string{"t", "A", "BC"}, [3]string{"t", "AB", "C"}},
		{"excerpt presence", [3]string{"t", "body", ""}, [3]string{"t", "body", "x"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if Fingerprint(tc.a[0], tc.a[1], tc.a[2]) == Fingerprint(tc.b[0], tc.b[1], tc.b[2]) {
				t.Fatalf("fingerprints collided for %v and %v", tc.a, tc.b)
			}
		})
	}
}
