// Package jwt emite y valida los access tokens del portal.
//
// Tokens HS256 firmados con un secreto compartido de configuración. Los
// refresh tokens NO son JWT: son tokens opacos que viven hasheados en el
// store (ver security/token).
package jwt

import (
	"errors"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken  = errors.New("invalid_jwt")
	ErrTokenExpired  = errors.New("expired")
	ErrInvalidIssuer = errors.New("invalid_issuer")
)

// Claims son las claims propias que viajan en el access token.
type Claims struct {
	UserID     string
	Email      string
	BusinessID string // vacío hasta que el user acepta/crea un business
	Role       string // owner | dispatcher | provider
}

// Issuer firma y valida access tokens.
type Issuer struct {
	Iss       string
	Secret    []byte
	AccessTTL time.Duration
}

func NewIssuer(iss, secret string, accessTTL time.Duration) *Issuer {
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	return &Issuer{Iss: iss, Secret: []byte(secret), AccessTTL: accessTTL}
}

// IssueAccess emite un access token con claims estándar + las del portal.
func (i *Issuer) IssueAccess(c Claims) (string, time.Time, error) {
	now := time.Now().UTC()
	exp := now.Add(i.AccessTTL)

	claims := jwtv5.MapClaims{
		"iss":   i.Iss,
		"sub":   c.UserID,
		"iat":   now.Unix(),
		"nbf":   now.Unix(),
		"exp":   exp.Unix(),
		"email": c.Email,
	}
	if c.BusinessID != "" {
		claims["bid"] = c.BusinessID
	}
	if c.Role != "" {
		claims["role"] = c.Role
	}

	tk := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	tk.Header["typ"] = "JWT"

	signed, err := tk.SignedString(i.Secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Parse valida firma, iss y exp/nbf (con tolerancia chica) y devuelve
// las claims tipadas.
func (i *Issuer) Parse(token string) (*Claims, error) {
	tok, err := jwtv5.Parse(token, func(t *jwtv5.Token) (any, error) {
		return i.Secret, nil
	}, jwtv5.WithValidMethods([]string{"HS256"}))
	if err != nil {
		if errors.Is(err, jwtv5.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	if !tok.Valid {
		return nil, ErrInvalidToken
	}

	mc, ok := tok.Claims.(jwtv5.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	if iss, _ := mc["iss"].(string); i.Iss != "" && iss != i.Iss {
		return nil, ErrInvalidIssuer
	}

	now := time.Now()
	if expf, ok := mc["exp"].(float64); ok {
		if time.Unix(int64(expf), 0).Before(now.Add(-30 * time.Second)) {
			return nil, ErrTokenExpired
		}
	}
	if nbff, ok := mc["nbf"].(float64); ok {
		if time.Unix(int64(nbff), 0).After(now.Add(30 * time.Second)) {
			return nil, ErrInvalidToken
		}
	}

	c := &Claims{}
	c.UserID, _ = mc["sub"].(string)
	c.Email, _ = mc["email"].(string)
	c.BusinessID, _ = mc["bid"].(string)
	c.Role, _ = mc["role"].(string)
	if c.UserID == "" {
		return nil, ErrInvalidToken
	}
	return c, nil
}
