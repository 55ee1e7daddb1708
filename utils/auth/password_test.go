package auth

import "testing"

func TestHashAndVerifyPassword(t *testing.T) {
	password := "correct-horse-battery"

	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == password {
		t.Fatal("hash must not equal the plaintext")
	}

	if err := VerifyPassword(hash, password); err != nil {
		t.Errorf("VerifyPassword with correct password: %v", err)
	}
	if err := VerifyPassword(hash, "wrong-password"); err == nil {
		t.Error("VerifyPassword with wrong password must fail")
	}
}

func TestHashPasswordRejectsShort(t *testing.T) {
	if _, err := HashPassword("short"); err == nil {
		t.Error("passwords under the minimum length must be rejected")
	}
}

func TestIsPasswordValid(t *testing.T) {
	tests := []struct {
		password string
		want     bool
	}{
		{"", false},
		{"1234567", false},
		{"12345678", true},
		{"a much longer passphrase", true},
	}
	for _, tt := range tests {
		if got := IsPasswordValid(tt.password); got != tt.want {
			t.Errorf("IsPasswordValid(%q) = %v, want %v", tt.password, got, tt.want)
		}
	}
}
