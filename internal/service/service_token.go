package service

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-user-keeper/internal/config"
	"github.com/MKhiriev/go-user-keeper/internal/utils"
	"github.com/MKhiriev/go-user-keeper/models"
)

// tokenCodec is the JWT implementation of [TokenCodec]: HS256, issuer
// checked, expiry required.
type tokenCodec struct {
	signKey  string
	issuer   string
	duration time.Duration
	now      func() time.Time
}

// NewTokenCodec builds a [TokenCodec] from the token settings of cfg.
// now supplies the clock for both issuance and verification; nil means
// time.Now.
func NewTokenCodec(cfg config.App, now func() time.Time) TokenCodec {
	if now == nil {
		now = time.Now
	}
	return &tokenCodec{
		signKey:  cfg.TokenSignKey,
		issuer:   cfg.TokenIssuer,
		duration: cfg.TokenDuration,
		now:      now,
	}
}

func (c *tokenCodec) Issue(ctx context.Context, userID string) (models.Token, error) {
	token, err := utils.GenerateJWTToken(c.issuer, userID, c.duration, c.signKey, c.now())
	if err != nil {
		return models.Token{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	return token, nil
}

// Verify normalises every validation failure to ErrTokenIsExpiredOrInvalid
// so that callers do not need to inspect low-level JWT errors.
func (c *tokenCodec) Verify(ctx context.Context, token string) (string, error) {
	parsed, err := utils.ValidateAndParseJWTToken(token, c.signKey, c.issuer, c.now)
	if err != nil {
		return "", ErrTokenIsExpiredOrInvalid
	}

	return parsed.UserID, nil
}
