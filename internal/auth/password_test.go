package auth

import (
	"strings"
	"testing"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("correct-horse-battery")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "correct-horse-battery" {
		t.Fatal("hash must differ from plain text")
	}

	if err := CheckPassword(hash, "correct-horse-battery"); err != nil {
		t.Errorf("CheckPassword() with correct password error = %v", err)
	}
	if err := CheckPassword(hash, "wrong-password-here"); err == nil {
		t.Error("CheckPassword() with wrong password should fail")
	}
}

func TestHashPassword_LengthBounds(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"too short", "1234567", true},
		{"minimum length", "12345678", false},
		{"maximum length", strings.Repeat("a", 72), false},
		{"too long", strings.Repeat("a", 73), true},
		// 上限はバイト数で判定する（bcryptの72バイト制限）
		{"multibyte over limit", strings.Repeat("あ", 25), true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := HashPassword(tt.password)
			if (err != nil) != tt.wantErr {
				t.Errorf("HashPassword(%d chars) error = %v, wantErr %v", len(tt.password), err, tt.wantErr)
			}
		})
	}
}
