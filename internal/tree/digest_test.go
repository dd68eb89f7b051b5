package tree

import "testing"

func TestParseDigest_RoundTrip(t *testing.T) {
	d := Digest{MD5: "6ba88abf6c98577a39f48df6bdfbaea9", Count: 3, Size: 60}

	parsed, err := ParseDigest(d.String())
	if err != nil {
		t.Fatalf("ParseDigest failed: %v", err)
	}

	if parsed != d {
		t.Errorf("Round trip mismatch: expected %+v, got %+v", d, parsed)
	}
}

func TestParseDigest_Empty(t *testing.T) {
	parsed, err := ParseDigest(EmptyDigest)
	if err != nil {
		t.Fatalf("ParseDigest failed: %v", err)
	}

	if parsed.Count != 0 || parsed.Size != 0 {
		t.Errorf("Empty checksum should have zero aggregates, got %+v", parsed)
	}
}

func TestParseDigest_Malformed(t *testing.T) {
	for _, s := range []string{"", "abc", "abc-1", "abc--5", "abc-x--5", "abc-1--y"} {
		if _, err := ParseDigest(s); err == nil {
			t.Errorf("Expected error for %q", s)
		}
	}
}
