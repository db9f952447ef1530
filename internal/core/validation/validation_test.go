package validation

import "testing"

func TestValidateEmail(t *testing.T) {
	v := New()

	cases := []struct {
		in   string
		want bool
	}{
		{"a@b.com", true},
		{"first.last+tag@sub.example.org", true},
		{"USER@EXAMPLE.IO", true},
		{"a@b.c", false},
		{"no-at-sign.com", false},
		{"a@b", false},
		{"@b.com", false},
		{"a b@c.com", false},
		{"a@b.c0m", false},
		{"", false},
	}

	for _, tc := range cases {
		if got := v.ValidateEmail(tc.in); got != tc.want {
			t.Errorf("ValidateEmail(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	v := New()

	cases := []struct {
		in     string
		ok     bool
		reason string
	}{
		{"abc12345", true, ReasonPasswordValid},
		{"abc1234", false, ReasonPasswordTooShort},
		{"", false, ReasonPasswordTooShort},
		{"12345678", false, ReasonPasswordNoLetter},
		{"abcdefgh", false, ReasonPasswordNoDigit},
		// length is checked first, even when other rules also fail
		{"abc", false, ReasonPasswordTooShort},
		{"ééééééé1", false, ReasonPasswordNoLetter},
	}

	for _, tc := range cases {
		ok, reason := v.ValidatePassword(tc.in)
		if ok != tc.ok || reason != tc.reason {
			t.Errorf("ValidatePassword(%q) = (%v, %q), want (%v, %q)", tc.in, ok, reason, tc.ok, tc.reason)
		}
	}
}

func TestStruct_CustomTags(t *testing.T) {
	v := New()

	type form struct {
		Email    string `validate:"required,emailshape"`
		Password string `validate:"required,password"`
	}

	if err := v.Struct(form{Email: "a@b.com", Password: "abc12345"}); err != nil {
		t.Fatalf("expected valid form, got %v", err)
	}
	if err := v.Struct(form{Email: "bad", Password: "abc12345"}); err == nil {
		t.Fatalf("expected emailshape failure")
	}
	if err := v.Struct(form{Email: "a@b.com", Password: "short"}); err == nil {
		t.Fatalf("expected password failure")
	}
}
