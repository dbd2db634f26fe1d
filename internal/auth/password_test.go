package auth

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("Sup3rSecret")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "Sup3rSecret" {
		t.Fatal("hash equals plaintext")
	}

	if !CheckPassword(hash, "Sup3rSecret") {
		t.Error("correct password rejected")
	}
	if CheckPassword(hash, "WrongPass1") {
		t.Error("wrong password accepted")
	}
}

func TestValidEmail(t *testing.T) {
	valid := []string{"a@b.co", "user.name+tag@example.com"}
	invalid := []string{"", "plain", "no@dot", "two@@example.com", "spaces in@example.com"}

	for _, e := range valid {
		if !ValidEmail(e) {
			t.Errorf("ValidEmail(%q) = false", e)
		}
	}
	for _, e := range invalid {
		if ValidEmail(e) {
			t.Errorf("ValidEmail(%q) = true", e)
		}
	}
}

func TestValidPassword(t *testing.T) {
	tests := []struct {
		password string
		want     bool
	}{
		{"Abcdef12", true},
		{"LongEnough99", true},
		{"short1A", false},                  // under 8
		{"abcdefgh1", false},                // no uppercase
		{"ABCDEFGH1", false},                // no lowercase
		{"Abcdefghij", false},               // no digit
		{"Abcdefgh123456789012345", false}, // over 20
	}

	for _, tt := range tests {
		if got := ValidPassword(tt.password); got != tt.want {
			t.Errorf("ValidPassword(%q) = %v, want %v", tt.password, got, tt.want)
		}
	}
}
