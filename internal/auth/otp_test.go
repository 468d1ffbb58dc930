package auth

import (
	"testing"
	"time"
)

func TestGenerateOTPCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		code, err := GenerateOTPCode()
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("code %q has length %d, want 6", code, len(code))
		}
		for _, r := range code {
			if r < '0' || r > '9' {
				t.Fatalf("code %q contains non-digit", code)
			}
		}
		seen[code] = true
	}
	if len(seen) < 2 {
		t.Error("codes do not vary")
	}
}

func TestHashAndCompareOTP(t *testing.T) {
	hash, err := HashOTP("123456", 4)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "123456" {
		t.Fatal("code stored in the clear")
	}
	if err := CompareOTP(hash, "123456"); err != nil {
		t.Errorf("matching code rejected: %v", err)
	}
	if err := CompareOTP(hash, "654321"); err == nil {
		t.Error("wrong code accepted")
	}
}

func TestOTPExpiry(t *testing.T) {
	expiry := OTPExpiry(10 * time.Minute)
	remaining := time.Until(expiry)
	if remaining < 9*time.Minute || remaining > 10*time.Minute {
		t.Errorf("expiry %v from now, want ~10m", remaining)
	}
}
