package probe

import "testing"

func TestDigest(t *testing.T) {
	tests := []struct {
		name   string
		stdout string
		want   Fingerprint
	}{
		{
			name:   "known value",
			stdout: "hello",
			want:   "5d41402abc4b2a76b9719d911017c592",
		},
		{
			name:   "empty output digests cleanly",
			stdout: "",
			want:   "d41d8cd98f00b204e9800998ecf8427e",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Digest(tt.stdout); got != tt.want {
				t.Errorf("Digest(%q) = %v, want %v", tt.stdout, got, tt.want)
			}
		})
	}
}

func TestDigestDeterministic(t *testing.T) {
	const blob = "OpenVPN CLIENT LIST\nUpdated,2024-01-01 00:00:00\nEND\n"

	first := Digest(blob)
	second := Digest(blob)

	if first != second {
		t.Errorf("Digest() not deterministic: %v != %v", first, second)
	}
}

func TestDigestInvalidUTF8(t *testing.T) {
	raw := string([]byte{0xff, 0xfe})

	got := Digest(raw)
	if !got.Valid() {
		t.Fatalf("Digest(invalid utf-8) = %v, want valid fingerprint", got)
	}

	// Invalid runs are replaced before hashing, so the digest matches
	// the replacement-character form.
	if want := Digest("�"); got != want {
		t.Errorf("Digest(invalid utf-8) = %v, want %v", got, want)
	}
	if got == Digest("") {
		t.Error("Digest(invalid utf-8) collided with Digest(\"\")")
	}
}

func TestFingerprintValid(t *testing.T) {
	tests := []struct {
		name string
		fp   Fingerprint
		want bool
	}{
		{"md5 hex", "d41d8cd98f00b204e9800998ecf8427e", true},
		{"empty", "", false},
		{"too short", "d41d8cd9", false},
		{"uppercase rejected", "D41D8CD98F00B204E9800998ECF8427E", false},
		{"non-hex characters", "zzzz8cd98f00b204e9800998ecf8427e", false},
		{"too long", "d41d8cd98f00b204e9800998ecf8427e00", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fp.Valid(); got != tt.want {
				t.Errorf("Fingerprint(%q).Valid() = %v, want %v", tt.fp, got, tt.want)
			}
		})
	}
}
