package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// LinkSigner issues and verifies signed download tokens for archived exports.
type LinkSigner struct {
	secret []byte
	ttl    time.Duration
}

// NewLinkSigner constructs a signer with the provided secret and token TTL.
func NewLinkSigner(secret string, ttl time.Duration) *LinkSigner {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &LinkSigner{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Issue returns a signed token referencing an archived artifact.
func (s *LinkSigner) Issue(timetableID, filename string) (string, time.Time, error) {
	if timetableID == "" || filename == "" {
		return "", time.Time{}, fmt.Errorf("timetableID and filename required")
	}
	if len(s.secret) == 0 {
		return "", time.Time{}, fmt.Errorf("signing secret missing")
	}
	expiresAt := time.Now().Add(s.ttl)
	encodedName := base64.RawURLEncoding.EncodeToString([]byte(filename))
	signature := s.sign(timetableID, expiresAt.Unix(), encodedName)
	token := strings.Join([]string{timetableID, strconv.FormatInt(expiresAt.Unix(), 10), encodedName, signature}, ".")
	return token, expiresAt, nil
}

// Verify checks a token's signature and expiry and returns the embedded reference.
func (s *LinkSigner) Verify(token string) (timetableID, filename string, err error) {
	parts := strings.Split(token, ".")
	if len(parts) != 4 {
		return "", "", fmt.Errorf("invalid token format")
	}
	timetableID = parts[0]
	encodedName := parts[2]

	expUnix, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return "", "", fmt.Errorf("invalid token timestamp")
	}

	rawName, err := base64.RawURLEncoding.DecodeString(encodedName)
	if err != nil {
		return "", "", fmt.Errorf("decode filename: %w", err)
	}

	expected := s.sign(timetableID, expUnix, encodedName)
	if !hmac.Equal([]byte(expected), []byte(parts[3])) {
		return "", "", fmt.Errorf("invalid token signature")
	}
	if time.Now().After(time.Unix(expUnix, 0)) {
		return "", "", fmt.Errorf("token expired")
	}
	return timetableID, string(rawName), nil
}

func (s *LinkSigner) sign(timetableID string, expUnix int64, encodedName string) string {
	mac := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(mac, "%s|%d|%s", timetableID, expUnix, encodedName)
	return hex.EncodeToString(mac.Sum(nil))
}
