package validation

import "testing"

func TestValidateAndNormalizeEmail(t *testing.T) {
	got, err := ValidateAndNormalizeEmail("  Buyer@Example.COM ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "buyer@example.com" {
		t.Errorf("expected lower-cased trimmed email, got %q", got)
	}

	for _, bad := range []string{"", "not-an-email", "missing@domain@twice"} {
		if _, err := ValidateAndNormalizeEmail(bad); err == nil {
			t.Errorf("expected %q to be rejected", bad)
		}
	}
}

func TestValidateReference(t *testing.T) {
	for _, ok := range []string{"ref_001", "T123-abc.9", "ref_failed_001"} {
		if err := ValidateReference(ok); err != nil {
			t.Errorf("expected %q to be accepted: %v", ok, err)
		}
	}

	long := make([]byte, 129)
	for i := range long {
		long[i] = 'a'
	}
	for _, bad := range []string{"", "ref with space", "ref;drop", string(long)} {
		if err := ValidateReference(bad); err == nil {
			t.Errorf("expected %q to be rejected", bad)
		}
	}
}
