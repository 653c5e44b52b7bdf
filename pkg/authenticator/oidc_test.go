package authenticator

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/echo-threads/backend/config"
	"github.com/stretchr/testify/require"
)

func signRS256(t *testing.T, key *rsa.PrivateKey, claims map[string]any) string {
	header, err := json.Marshal(map[string]string{"alg": "RS256", "typ": "JWT"})
	require.NoError(t, err)
	payload, err := json.Marshal(claims)
	require.NoError(t, err)

	enc := base64.RawURLEncoding
	signingInput := enc.EncodeToString(header) + "." + enc.EncodeToString(payload)

	digest := sha256.Sum256([]byte(signingInput))
	sig, err := rsa.SignPKCS1v15(rand.Reader, key, crypto.SHA256, digest[:])
	require.NoError(t, err)

	return signingInput + "." + enc.EncodeToString(sig)
}

func TestOIDCVerifier_Verify(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	cfg := config.AuthConfigs{Issuer: "https://id.example.com", ClientID: "echo"}
	verifier := NewStaticOIDCVerifier(cfg, &oidc.StaticKeySet{
		PublicKeys: []crypto.PublicKey{&key.PublicKey},
	})

	now := time.Now()
	validClaims := func() map[string]any {
		return map[string]any{
			"iss":      cfg.Issuer,
			"aud":      cfg.ClientID,
			"sub":      "user_ext_1",
			"iat":      now.Unix(),
			"exp":      now.Add(time.Hour).Unix(),
			"username": "alice",
			"name":     "Alice",
			"picture":  "https://img/alice.png",
		}
	}

	tests := []struct {
		name    string
		claims  func() map[string]any
		want    Identity
		wantErr bool
	}{
		{
			name:   "valid",
			claims: validClaims,
			want: Identity{
				ExternalID: "user_ext_1",
				Username:   "alice",
				Name:       "Alice",
				Image:      "https://img/alice.png",
			},
		},
		{
			name: "expired",
			claims: func() map[string]any {
				c := validClaims()
				c["exp"] = now.Add(-time.Hour).Unix()
				return c
			},
			wantErr: true,
		},
		{
			name: "wrong audience",
			claims: func() map[string]any {
				c := validClaims()
				c["aud"] = "other"
				return c
			},
			wantErr: true,
		},
		{
			name: "wrong issuer",
			claims: func() map[string]any {
				c := validClaims()
				c["iss"] = "https://evil.example.com"
				return c
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := verifier.Verify(context.Background(), signRS256(t, key, tt.claims()))
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}
