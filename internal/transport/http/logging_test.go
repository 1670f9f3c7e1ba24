package http

import (
	"strings"
	"testing"
)

func TestSanitizeBodyRedactsPasswords(t *testing.T) {
	body := []byte(`{"email":"user@example.com","password":"hunter22","nested":{"newPassword":"abc12345"}}`)

	summary := sanitizeBody(body, "application/json")
	m, ok := summary.(map[string]interface{})
	if !ok {
		t.Fatalf("expected a map summary, got %T", summary)
	}
	if m["password"] != "redacted" {
		t.Fatalf("expected password to be redacted, got %v", m["password"])
	}
	nested, ok := m["nested"].(map[string]interface{})
	if !ok || nested["newPassword"] != "redacted" {
		t.Fatalf("expected nested password key to be redacted, got %v", m["nested"])
	}
	if m["email"] != "user@example.com" {
		t.Fatalf("non-secret fields must survive, got %v", m["email"])
	}
}

func TestSanitizeBodyFormEncoded(t *testing.T) {
	body := []byte("email=user%40example.com&password=hunter22")

	summary := sanitizeBody(body, "application/x-www-form-urlencoded")
	m, ok := summary.(map[string]interface{})
	if !ok {
		t.Fatalf("expected a map summary, got %T", summary)
	}
	if m["password"] != "redacted" {
		t.Fatalf("expected password to be redacted, got %v", m["password"])
	}
}

func TestSanitizeBodyClampsLongText(t *testing.T) {
	body := []byte(strings.Repeat("a", maxLoggedBody+100))

	summary := sanitizeBody(body, "text/plain")
	text, ok := summary.(string)
	if !ok {
		t.Fatalf("expected string summary, got %T", summary)
	}
	if !strings.HasSuffix(text, "...(truncated)") {
		t.Fatal("expected long body to be truncated")
	}
}

func TestSanitizeBodyBinary(t *testing.T) {
	summary := sanitizeBody([]byte{0xff, 0x00, 0x13}, "application/octet-stream")
	if summary != "binary" {
		t.Fatalf("expected binary marker, got %v", summary)
	}
}
