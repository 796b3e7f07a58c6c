// Package apikey mints API keys. The raw key is returned once; only its
// bcrypt hash and lookup prefix are persisted.
package apikey

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/shopfloor/internal/apperr"
	"github.com/kiranshivaraju/shopfloor/pkg/models"
	"golang.org/x/crypto/bcrypt"
)

const (
	rawPrefix    = "sfk_"
	PrefixLen    = 8
	secretBytes  = 24
	maxNameBytes = 100
)

// Prefix returns the lookup prefix of a raw key.
func Prefix(raw string) (string, bool) {
	if len(raw) <= PrefixLen {
		return "", false
	}
	return raw[:PrefixLen], true
}

// New generates a key for tenantID. Unknown scopes are rejected; an empty
// scope list defaults to read.
func New(tenantID uuid.UUID, name string, scopes []string) (string, *models.APIKey, error) {
	const op = "create api key"
	name = strings.TrimSpace(name)
	if name == "" {
		return "", nil, apperr.Validation(op, "name", "is required")
	}
	if len(name) > maxNameBytes {
		return "", nil, apperr.Validation(op, "name", "must be at most 100 characters")
	}
	scopes, err := normalizeScopes(scopes)
	if err != nil {
		return "", nil, err
	}

	secret := make([]byte, secretBytes)
	if _, err := rand.Read(secret); err != nil {
		return "", nil, fmt.Errorf("generate key: %w", err)
	}
	raw := rawPrefix + hex.EncodeToString(secret)

	hash, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, fmt.Errorf("hash key: %w", err)
	}

	now := time.Now().UTC()
	return raw, &models.APIKey{
		ID:        uuid.New(),
		TenantID:  tenantID,
		Name:      name,
		KeyHash:   string(hash),
		KeyPrefix: raw[:PrefixLen],
		Scopes:    scopes,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func normalizeScopes(in []string) ([]string, error) {
	if len(in) == 0 {
		return []string{models.ScopeRead}, nil
	}
	seen := map[string]bool{}
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		switch s {
		case models.ScopeRead, models.ScopeWrite, models.ScopeAdmin:
		default:
			return nil, apperr.Validation("create api key", "scopes", fmt.Sprintf("unknown scope %q", s))
		}
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out, nil
}
