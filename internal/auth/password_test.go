package auth

import "testing"

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("Password1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hash == "Password1" {
		t.Fatalf("hash must not equal plaintext")
	}
	if !PasswordMatches("Password1", hash) {
		t.Fatalf("expected password to match its own hash")
	}
}

func TestPasswordMatchesWrongPassword(t *testing.T) {
	hash, err := HashPassword("Password1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if PasswordMatches("Password2", hash) {
		t.Fatalf("expected mismatch to return false")
	}
}

func TestPasswordMatchesGarbageDigest(t *testing.T) {
	// 非法哈希只应返回 false，不应 panic 或报错
	if PasswordMatches("Password1", "not-a-bcrypt-digest") {
		t.Fatalf("expected false for invalid digest")
	}
}

func TestHashPasswordSalted(t *testing.T) {
	a, _ := HashPassword("Password1")
	b, _ := HashPassword("Password1")
	if a == b {
		t.Fatalf("expected distinct salts to produce distinct hashes")
	}
}
