package coinone_auth

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func TestSignKnownVector(t *testing.T) {
	s := NewSignerWithNonce("token-123", "s3cr3t", func() string { return "00000000-0000-4000-8000-000000000000" })

	signed, err := s.Sign(map[string]any{"currencies": []string{"KRW", "BTC"}})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	wantBody := `{"access_token":"token-123","currencies":["KRW","BTC"],"nonce":"00000000-0000-4000-8000-000000000000"}`
	if string(signed.Body) != wantBody {
		t.Fatalf("body = %s\nwant %s", signed.Body, wantBody)
	}

	wantPayload := base64.StdEncoding.EncodeToString([]byte(wantBody))
	if signed.Payload != wantPayload {
		t.Errorf("payload = %s, want %s", signed.Payload, wantPayload)
	}

	mac := hmac.New(sha512.New, []byte("s3cr3t"))
	mac.Write([]byte(wantPayload))
	wantSig := hex.EncodeToString(mac.Sum(nil))
	if signed.Signature != wantSig {
		t.Errorf("signature = %s, want %s", signed.Signature, wantSig)
	}
	if len(signed.Signature) != 128 {
		t.Errorf("signature length = %d, want 128 hex chars", len(signed.Signature))
	}
}

func TestSignIsDeterministicForFixedNonce(t *testing.T) {
	s := NewSignerWithNonce("tok", "key", func() string { return "n" })

	a, err := s.Sign(map[string]any{"order_id": "abc"})
	if err != nil {
		t.Fatal(err)
	}
	b, err := s.Sign(map[string]any{"order_id": "abc"})
	if err != nil {
		t.Fatal(err)
	}
	if a.Signature != b.Signature || a.Payload != b.Payload {
		t.Error("same payload, nonce and secret produced different signatures")
	}

	other := NewSignerWithNonce("tok", "other-key", func() string { return "n" })
	c, err := other.Sign(map[string]any{"order_id": "abc"})
	if err != nil {
		t.Fatal(err)
	}
	if c.Signature == a.Signature {
		t.Error("different secrets produced the same signature")
	}
}

func TestSignInjectsFreshNonce(t *testing.T) {
	s := NewSigner("tok", "key")
	seen := make(map[string]bool)

	for i := 0; i < 50; i++ {
		payload := map[string]any{}
		if _, err := s.Sign(payload); err != nil {
			t.Fatal(err)
		}
		nonce, ok := payload["nonce"].(string)
		if !ok {
			t.Fatalf("payload missing nonce after signing: %v", payload)
		}
		if _, err := uuid.Parse(nonce); err != nil {
			t.Fatalf("nonce %q is not a UUID: %v", nonce, err)
		}
		if seen[nonce] {
			t.Fatalf("nonce %q reused", nonce)
		}
		seen[nonce] = true
		if payload["access_token"] != "tok" {
			t.Errorf("access_token = %v", payload["access_token"])
		}
	}
}

func TestSignedPayloadDecodesToBody(t *testing.T) {
	s := NewSigner("tok", "key")
	signed, err := s.Sign(map[string]any{"side": "BUY"})
	if err != nil {
		t.Fatal(err)
	}

	raw, err := base64.StdEncoding.DecodeString(signed.Payload)
	if err != nil {
		t.Fatalf("payload is not base64: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("payload is not JSON: %v", err)
	}
	if decoded["side"] != "BUY" {
		t.Errorf("decoded payload = %v", decoded)
	}
}

func TestApplySetsHeaders(t *testing.T) {
	req := httptest.NewRequest("POST", "/v2.1/order", nil)
	Signed{Payload: "cGF5bG9hZA==", Signature: "abc"}.Apply(req)

	if got := req.Header.Get(HeaderPayload); got != "cGF5bG9hZA==" {
		t.Errorf("%s = %q", HeaderPayload, got)
	}
	if got := req.Header.Get(HeaderSignature); got != "abc" {
		t.Errorf("%s = %q", HeaderSignature, got)
	}
	if got := req.Header.Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q", got)
	}
}

func TestSignNilPayload(t *testing.T) {
	if _, err := NewSigner("tok", "key").Sign(nil); err == nil {
		t.Error("expected error for nil payload")
	}
}

func TestEnabled(t *testing.T) {
	var nilSigner *Signer
	if nilSigner.Enabled() {
		t.Error("nil signer reports enabled")
	}
	if NewSigner("", "key").Enabled() {
		t.Error("signer without access token reports enabled")
	}
	if !NewSigner("tok", "key").Enabled() {
		t.Error("signer with credentials reports disabled")
	}
}
