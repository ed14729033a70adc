package api

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pixeltwin-dev/pixeltwin/pkg/twincore"
)

// IntegrityManager signs attestation verdicts for the spoofed device.
// It generates an RSA keypair at startup and exposes the public key via JWKS,
// so a verifier can check that the verdict carries the impersonated identity.
type IntegrityManager struct {
	mu         sync.RWMutex
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	keyID      string
}

// NewIntegrityManager creates an IntegrityManager with a fresh RSA-2048 keypair.
func NewIntegrityManager() (*IntegrityManager, error) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, fmt.Errorf("failed to generate RSA key: %w", err)
	}

	// Generate a stable key ID from the public key modulus
	hash := sha256.Sum256(key.PublicKey.N.Bytes())
	kid := base64.RawURLEncoding.EncodeToString(hash[:8])

	return &IntegrityManager{
		privateKey: key,
		publicKey:  &key.PublicKey,
		keyID:      kid,
	}, nil
}

// GenerateVerdict creates a signed verdict token binding the caller's nonce
// to the spoofed device identity.
func (m *IntegrityManager) GenerateVerdict(nonce string, identity map[string]string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	now := time.Now()
	claims := jwt.MapClaims{
		"iss":     "https://pixeltwin.dev",
		"aud":     "com.google.android.apps.photos",
		"iat":     now.Unix(),
		"nbf":     now.Unix(),
		"exp":     now.Add(5 * time.Minute).Unix(),
		"nonce":   nonce,
		"verdict": []string{"MEETS_BASIC_INTEGRITY", "MEETS_DEVICE_INTEGRITY"},
	}
	for k, v := range identity {
		claims[k] = v
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = m.keyID

	signed, err := token.SignedString(m.privateKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign verdict: %w", err)
	}

	return signed, nil
}

// Verify parses a verdict token against the manager's public key. Used by
// tests and the scenario runner to check round trips.
func (m *IntegrityManager) Verify(tokenString string) (jwt.MapClaims, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.publicKey, nil
	}, jwt.WithAudience("com.google.android.apps.photos"))
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// JWKS represents a JSON Web Key Set.
type JWKS struct {
	Keys []JWK `json:"keys"`
}

// JWK represents a single JSON Web Key.
type JWK struct {
	KTY string `json:"kty"`
	Use string `json:"use"`
	KID string `json:"kid"`
	ALG string `json:"alg"`
	N   string `json:"n"`
	E   string `json:"e"`
}

// GetJWKS returns the public key in JWK format.
func (m *IntegrityManager) GetJWKS() JWKS {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return JWKS{
		Keys: []JWK{
			{
				KTY: "RSA",
				Use: "sig",
				KID: m.keyID,
				ALG: "RS256",
				N:   base64.RawURLEncoding.EncodeToString(m.publicKey.N.Bytes()),
				E:   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(m.publicKey.E)).Bytes()),
			},
		},
	}
}

// GetJWKS handles GET /.well-known/jwks.json.
func (h *Handler) GetJWKS(w http.ResponseWriter, r *http.Request) {
	twincore.JSON(w, http.StatusOK, h.integrity.GetJWKS())
}

// integrityRequest is the JSON body for POST /integrity/token.
type integrityRequest struct {
	Nonce string `json:"nonce"`
}

// IntegrityToken handles POST /integrity/token - a signed attestation
// verdict carrying the currently impersonated identity.
func (h *Handler) IntegrityToken(w http.ResponseWriter, r *http.Request) {
	var req integrityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		twincore.Error(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Nonce == "" {
		twincore.Error(w, http.StatusBadRequest, "nonce is required")
		return
	}

	dev := h.currentDevice()
	identity := map[string]string{
		"device": dev.Name,
	}
	for _, key := range []string{"ro.product.brand", "ro.product.model", "ro.build.fingerprint"} {
		if v, ok := dev.Properties[key]; ok {
			identity[key] = v
		}
	}
	if dev.Version != nil {
		identity["sdk"] = fmt.Sprintf("%d", dev.Version.SDK)
	}

	token, err := h.integrity.GenerateVerdict(req.Nonce, identity)
	if err != nil {
		twincore.Error(w, http.StatusInternalServerError, "generating verdict: "+err.Error())
		return
	}

	twincore.JSON(w, http.StatusOK, map[string]any{
		"token":  token,
		"device": dev.Name,
	})
}
