package push

import (
	"encoding/base64"
	"encoding/json"
	"testing"
)

func TestGenerateVAPIDKeys(t *testing.T) {
	pub, priv, err := GenerateVAPIDKeys()
	if err != nil {
		t.Fatalf("generate VAPID keys: %v", err)
	}

	// Public key should be base64url-encoded, 65 bytes uncompressed P-256 point
	pubBytes, err := base64.RawURLEncoding.DecodeString(pub)
	if err != nil {
		t.Fatalf("decode public key: %v", err)
	}
	if len(pubBytes) != 65 {
		t.Errorf("public key length = %d, want 65", len(pubBytes))
	}

	// Private key should be base64url-encoded, 32 bytes P-256 scalar
	privBytes, err := base64.RawURLEncoding.DecodeString(priv)
	if err != nil {
		t.Fatalf("decode private key: %v", err)
	}
	if len(privBytes) != 32 {
		t.Errorf("private key length = %d, want 32", len(privBytes))
	}

	pub2, _, _ := GenerateVAPIDKeys()
	if pub == pub2 {
		t.Error("expected different keys on second generation")
	}
}

func TestPayloadOmitsEmptyFields(t *testing.T) {
	data, err := json.Marshal(Payload{Title: "Påminnelse", Body: "Julbord imorgon"})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}

	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	for _, key := range []string{"url", "tag", "icon", "data"} {
		if _, ok := m[key]; ok {
			t.Errorf("empty field %q should be omitted", key)
		}
	}
	if m["title"] != "Påminnelse" {
		t.Errorf("title = %v, want Påminnelse", m["title"])
	}
}
