package auth

import (
	"strings"
	"testing"
)

func TestGenerateID(t *testing.T) {
	tests := []struct {
		name    string
		byteLen int
		wantLen int // hex encoded length = byteLen * 2
	}{
		{"8 bytes", 8, 16},
		{"12 bytes", 12, 24},
		{"16 bytes", 16, 32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := GenerateID(tt.byteLen)
			if err != nil {
				t.Fatalf("GenerateID() error = %v", err)
			}
			if len(id) != tt.wantLen {
				t.Errorf("GenerateID() length = %d, want %d", len(id), tt.wantLen)
			}
			// Verify it's valid hex
			for _, c := range id {
				if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
					t.Errorf("GenerateID() contains invalid hex char: %c", c)
				}
			}
		})
	}

	// Test randomness - two IDs should be different
	id1, _ := GenerateID(16)
	id2, _ := GenerateID(16)
	if id1 == id2 {
		t.Error("GenerateID() produced duplicate IDs (extremely unlikely)")
	}
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("hunter2secret")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	if hash == "hunter2secret" {
		t.Error("HashPassword() returned the plaintext password")
	}

	// Hashes are salted, so hashing twice gives different values
	hash2, err := HashPassword("hunter2secret")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == hash2 {
		t.Error("HashPassword() produced identical hashes for the same password")
	}
}

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct-password")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	tests := []struct {
		name     string
		hash     string
		password string
		want     bool
	}{
		{"correct password", hash, "correct-password", true},
		{"wrong password", hash, "wrong-password", false},
		{"empty password", hash, "", false},
		{"garbage hash", "not-a-bcrypt-hash", "correct-password", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CheckPassword(tt.hash, tt.password); got != tt.want {
				t.Errorf("CheckPassword() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSignSessionID(t *testing.T) {
	token := SignSessionID("session-abc", "secret-key")

	if !strings.HasPrefix(token, "session-abc.") {
		t.Errorf("SignSessionID() = %q, want session ID prefix", token)
	}

	// Deterministic for the same inputs
	if token != SignSessionID("session-abc", "secret-key") {
		t.Error("SignSessionID() is not deterministic")
	}

	// Different secrets produce different signatures
	if token == SignSessionID("session-abc", "other-key") {
		t.Error("SignSessionID() produced same token for different secrets")
	}

	// Should be URL-safe (no padding)
	if strings.Contains(token, "=") {
		t.Error("SignSessionID() contains padding characters")
	}
}

func TestVerifySessionToken(t *testing.T) {
	secret := "test-secret"
	validToken := SignSessionID("session-xyz", secret)

	tests := []struct {
		name    string
		token   string
		secret  string
		want    string
		wantErr bool
	}{
		{"valid token", validToken, secret, "session-xyz", false},
		{"wrong secret", validToken, "other-secret", "", true},
		{"tampered session ID", "session-abc." + strings.SplitN(validToken, ".", 2)[1], secret, "", true},
		{"missing signature", "session-xyz", secret, "", true},
		{"empty session ID", SignSessionID("", secret), secret, "", true},
		{"empty token", "", secret, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := VerifySessionToken(tt.token, tt.secret)
			if (err != nil) != tt.wantErr {
				t.Fatalf("VerifySessionToken() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("VerifySessionToken() = %q, want %q", got, tt.want)
			}
		})
	}
}
