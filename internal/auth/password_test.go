package auth

import (
	"strings"
	"testing"
)

func TestPasswordHashingLifecycle(t *testing.T) {
	password := "S3curePass!"
	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("unexpected error hashing password: %v", err)
	}
	if hash == "" {
		t.Fatal("expected hash to be populated")
	}
	if hash == password {
		t.Fatal("hash must not equal plaintext")
	}

	if !CheckPassword(hash, password) {
		t.Fatal("expected password to verify")
	}
	if CheckPassword(hash, "wrong") {
		t.Fatal("expected verification to fail for wrong password")
	}
}

func TestCheckPasswordFailsClosed(t *testing.T) {
	hash, err := HashPassword("secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name      string
		hash      string
		candidate string
	}{
		{name: "empty hash", hash: "", candidate: "secret"},
		{name: "blank hash", hash: "   ", candidate: "secret"},
		{name: "malformed hash", hash: "not-a-bcrypt-hash", candidate: "secret"},
		{name: "truncated hash", hash: hash[:20], candidate: "secret"},
		{name: "empty candidate", hash: hash, candidate: ""},
		{name: "oversized candidate", hash: hash, candidate: strings.Repeat("a", 100)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if CheckPassword(tt.hash, tt.candidate) {
				t.Fatal("expected no match")
			}
		})
	}
}

func TestHashPasswordRejectsBlank(t *testing.T) {
	if _, err := HashPassword("  "); err == nil {
		t.Fatal("expected error for blank password")
	}
}
