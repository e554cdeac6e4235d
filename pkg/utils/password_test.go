package utils

import "testing"

func TestPasswordRoundTrip(t *testing.T) {
	hash := HashPassword("admin123")
	if hash == "admin123" || hash == "" {
		t.Fatalf("hash = %q", hash)
	}
	if !CheckPassword("admin123", hash) {
		t.Error("correct password rejected")
	}
	if CheckPassword("admin124", hash) {
		t.Error("wrong password accepted")
	}
	if CheckPassword("admin123", "not-a-bcrypt-hash") {
		t.Error("garbage hash accepted")
	}
}
