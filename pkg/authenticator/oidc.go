package authenticator

import (
	"context"
	"errors"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/echo-threads/backend/config"
)

// Identity is the caller described by a verified ID token.
type Identity struct {
	ExternalID string
	Username   string
	Name       string
	Image      string
}

type IDTokenVerifier interface {
	Verify(ctx context.Context, rawIDToken string) (Identity, error)
}

type oidcVerifier struct {
	verifier *oidc.IDTokenVerifier
}

// NewOIDCVerifier discovers the provider keys from the issuer.
func NewOIDCVerifier(ctx context.Context, cfg config.AuthConfigs) (*oidcVerifier, error) {
	provider, err := oidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("cannot discover oidc provider: %w", err)
	}

	return &oidcVerifier{
		verifier: provider.Verifier(newOIDCConfig(cfg)),
	}, nil
}

// NewStaticOIDCVerifier verifies tokens against a fixed key set.
func NewStaticOIDCVerifier(cfg config.AuthConfigs, keySet oidc.KeySet) *oidcVerifier {
	return &oidcVerifier{
		verifier: oidc.NewVerifier(cfg.Issuer, keySet, newOIDCConfig(cfg)),
	}
}

func newOIDCConfig(cfg config.AuthConfigs) *oidc.Config {
	return &oidc.Config{
		ClientID:          cfg.ClientID,
		SkipClientIDCheck: cfg.ClientID == "",
	}
}

func (v *oidcVerifier) Verify(ctx context.Context, rawIDToken string) (Identity, error) {
	idToken, err := v.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return Identity{}, err
	}

	var claims struct {
		Username string `json:"username"`
		Name     string `json:"name"`
		Picture  string `json:"picture"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return Identity{}, errors.New("invalid id token")
	}

	if idToken.Subject == "" {
		return Identity{}, errors.New("id token has no subject")
	}

	return Identity{
		ExternalID: idToken.Subject,
		Username:   claims.Username,
		Name:       claims.Name,
		Image:      claims.Picture,
	}, nil
}
