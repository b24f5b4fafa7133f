package tokens

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInviteInvalid = errors.New("invite_invalid")
	ErrInviteExpired = errors.New("invite_expired")
)

// SignInvite genera el token de invitación que viaja por email:
// base64url(providerID|exp) + "." + base64url(hmac-sha256).
// No toca la base: la invitación se valida contra el provider en estado
// "invited" al momento de aceptar.
func SignInvite(secret, providerID string, ttl time.Duration) string {
	exp := time.Now().UTC().Add(ttl).Unix()
	payload := fmt.Sprintf("%s|%d", providerID, exp)
	sig := signHMAC(secret, payload)
	return base64.RawURLEncoding.EncodeToString([]byte(payload)) + "." + sig
}

// VerifyInvite valida firma y expiración, y devuelve el providerID.
func VerifyInvite(secret, tok string) (string, error) {
	parts := strings.SplitN(tok, ".", 2)
	if len(parts) != 2 {
		return "", ErrInviteInvalid
	}
	raw, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return "", ErrInviteInvalid
	}
	payload := string(raw)

	if !hmac.Equal([]byte(signHMAC(secret, payload)), []byte(parts[1])) {
		return "", ErrInviteInvalid
	}

	fields := strings.SplitN(payload, "|", 2)
	if len(fields) != 2 {
		return "", ErrInviteInvalid
	}
	exp, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return "", ErrInviteInvalid
	}
	if time.Now().UTC().Unix() > exp {
		return "", ErrInviteExpired
	}
	return fields[0], nil
}

func signHMAC(secret, payload string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
