package tokens

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
)

// JWT header constants required by RFC 7519.
const (
	headerType      = "JWT"
	headerAlgorithm = "HS256" // HMAC-SHA256, symmetric key stays server-side
)

type header struct {
	Type      string `json:"typ"`
	Algorithm string `json:"alg"`
}

// signer produces and verifies compact HMAC-SHA256 JWTs. The signing key
// lives in memory only and should be at least 32 bytes.
type signer struct {
	key []byte
}

func newSigner(key []byte) (*signer, error) {
	if len(key) == 0 {
		return nil, ErrMissingSigningKey
	}
	return &signer{key: key}, nil
}

// Sign encodes the claims into a signed compact JWT string.
func (s *signer) Sign(claims Claims) (string, error) {
	headerJSON, err := json.Marshal(header{Type: headerType, Algorithm: headerAlgorithm})
	if err != nil {
		return "", err
	}
	claimsJSON, err := json.Marshal(claims)
	if err != nil {
		return "", err
	}

	payload := base64URLEncode(headerJSON) + "." + base64URLEncode(claimsJSON)
	return payload + "." + s.sign(payload), nil
}

// Parse verifies the token's signature and decodes its claims. It does not
// check expiry or revocation; Service.Verify layers those on top so the
// failure reasons stay distinguishable.
func (s *signer) Parse(tokenString string) (Claims, error) {
	parts := strings.Split(tokenString, ".")
	if len(parts) != 3 {
		return Claims{}, ErrMalformedToken
	}

	// Constant-time comparison prevents timing attacks on the signature.
	payload := parts[0] + "." + parts[1]
	expected := s.sign(payload)
	if subtle.ConstantTimeCompare([]byte(parts[2]), []byte(expected)) != 1 {
		return Claims{}, ErrMalformedToken
	}

	headerJSON, err := base64URLDecode(parts[0])
	if err != nil {
		return Claims{}, errors.Join(ErrMalformedToken, err)
	}
	var h header
	if err := json.Unmarshal(headerJSON, &h); err != nil {
		return Claims{}, errors.Join(ErrMalformedToken, err)
	}
	// Pinning the algorithm blocks algorithm-confusion attacks.
	if h.Algorithm != headerAlgorithm {
		return Claims{}, ErrMalformedToken
	}

	claimsJSON, err := base64URLDecode(parts[1])
	if err != nil {
		return Claims{}, errors.Join(ErrMalformedToken, err)
	}
	var claims Claims
	if err := json.Unmarshal(claimsJSON, &claims); err != nil {
		return Claims{}, errors.Join(ErrMalformedToken, err)
	}

	return claims, nil
}

func (s *signer) sign(payload string) string {
	h := hmac.New(sha256.New, s.key)
	h.Write([]byte(payload))
	return base64URLEncode(h.Sum(nil))
}

// base64URLEncode encodes without padding as required by RFC 7515.
func base64URLEncode(data []byte) string {
	return base64.RawURLEncoding.EncodeToString(data)
}

func base64URLDecode(s string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(s)
}
