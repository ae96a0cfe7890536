package handler

import (
	"strings"
	"testing"
)

func TestValidator_ReportsJSONFieldNames(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&signupRequest{Password: "x", Email: "not-an-email"})
	if err == nil {
		t.Fatalf("expected validation error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "username is required") {
		t.Fatalf("missing username message: %q", msg)
	}
	if !strings.Contains(msg, "email must be a valid email") {
		t.Fatalf("missing email message: %q", msg)
	}
}

func TestValidator_EmbeddedRequest(t *testing.T) {
	v := NewValidator()

	if err := v.Validate(&createUserRequest{signupRequest: signupRequest{Username: "a", Password: "b"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := v.Validate(&createUserRequest{}); err == nil {
		t.Fatalf("expected embedded fields to be validated")
	}
}

func TestValidator_PasswordLength(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&signupRequest{Username: "imane", Password: strings.Repeat("p", 73)})
	if err == nil || !strings.Contains(err.Error(), "password must be at most 72 characters") {
		t.Fatalf("expected max length message, got %v", err)
	}
	if err := v.Validate(&signupRequest{Username: "imane", Password: strings.Repeat("p", 72)}); err != nil {
		t.Fatalf("password at the limit rejected: %v", err)
	}
}
