package auth

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/viant/mcp-protocol/authorization"
)

// DefaultNamespace attributes runs without a caller token, e.g. CLI invocations.
const DefaultNamespace = "default"

// Service derives the caller namespace of a patch run from a JWT carried in context.
// MCP auth middleware places the token in context; the CLI never does.
type Service struct {
	DefaultNamespace string
	// Parse turns a token string into claims; unverified by default since the middleware already validated it.
	Parse func(token string) (jwt.MapClaims, error)
	// Claims lists claim names tried in order for the namespace.
	Claims []string
}

// Namespace returns the first non-empty configured claim, or DefaultNamespace.
func (s *Service) Namespace(ctx context.Context) (string, error) {
	if s == nil {
		return DefaultNamespace, nil
	}
	token, err := tokenString(ctx.Value(authorization.TokenKey))
	if err != nil || token == "" || s.Parse == nil {
		return s.DefaultNamespace, err
	}
	claims, err := s.Parse(token)
	if err != nil {
		return s.DefaultNamespace, nil
	}
	for _, name := range s.Claims {
		if v, _ := claims[name].(string); v != "" {
			return v, nil
		}
	}
	return s.DefaultNamespace, nil
}

func tokenString(value any) (string, error) {
	switch tv := value.(type) {
	case nil:
		return "", nil
	case string:
		return tv, nil
	case *authorization.Token:
		return tv.Token, nil
	default:
		return "", fmt.Errorf("unsupported token type %T", value)
	}
}

// New returns a Service reading "email", "preferred_username" or "sub" without signature verification.
func New() *Service {
	return &Service{
		DefaultNamespace: DefaultNamespace,
		Claims:           []string{"email", "preferred_username", "sub"},
		Parse: func(token string) (jwt.MapClaims, error) {
			var claims jwt.MapClaims
			_, _, err := new(jwt.Parser).ParseUnverified(token, &claims)
			return claims, err
		},
	}
}
