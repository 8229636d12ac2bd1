package utils

import "testing"

func TestPasswordProblem(t *testing.T) {
	cases := []struct {
		pw, confirm, want string
	}{
		{"Ab1", "Ab1", "Password must be at least 8 characters long"},
		{"abcdefgh", "abcdefgh", "Password must contain at least one letter and one number"},
		{"12345678", "12345678", "Password must contain at least one letter and one number"},
		{"ValidPass123!", "ValidPass124!", "Passwords do not match"},
		{"ValidPass123!", "ValidPass123!", ""},
	}
	for _, tc := range cases {
		if got := PasswordProblem(tc.pw, tc.confirm); got != tc.want {
			t.Fatalf("PasswordProblem(%q, %q) = %q, want %q", tc.pw, tc.confirm, got, tc.want)
		}
	}
}

func TestLooksLikeEmail(t *testing.T) {
	for _, ok := range []string{"a@b.c", "test.user@example.com"} {
		if !LooksLikeEmail(ok) {
			t.Fatalf("expected %q to pass", ok)
		}
	}
	for _, bad := range []string{"", "@b.c", "a@", "plain", "a b@c.d"} {
		if LooksLikeEmail(bad) {
			t.Fatalf("expected %q to fail", bad)
		}
	}
}
