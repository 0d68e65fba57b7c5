// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/url"
	"strings"
	"time"
)

const (
	// TokenLifetime is added to the signing time before bucketing.
	TokenLifetime = time.Hour
	// ExpiryBucket rounds token expirations up so identical requests share a token.
	ExpiryBucket = 300
)

var (
	ErrMissingSecret  = errors.New("signing secret missing")
	ErrMissingMediaID = errors.New("media id missing")
	ErrTokenMalformed = errors.New("token malformed")
	ErrInvalidAlg     = errors.New("invalid algorithm: must be HS256")
	ErrInvalidSig     = errors.New("invalid signature")
	ErrTokenExpired   = errors.New("token expired")
)

// MediaClaims is the payload accepted by the hosting service's media lookup endpoint.
// Field order matters for byte-stable tokens: resource first, then exp.
type MediaClaims struct {
	Resource string `json:"resource"`
	Exp      int64  `json:"exp"`
}

type jwtHeader struct {
	Alg string `json:"alg"`
	Typ string `json:"typ"`
}

// MediaResourcePath returns the API path the token authorises.
func MediaResourcePath(mediaID string) string {
	return "/v2/media/" + url.PathEscape(mediaID)
}

// TokenExpiry returns now+TokenLifetime rounded up to the next ExpiryBucket boundary.
func TokenExpiry(now time.Time) int64 {
	deadline := now.Add(TokenLifetime)
	secs := deadline.Unix()
	if secs%ExpiryBucket == 0 && deadline.Nanosecond() == 0 {
		return secs
	}
	return (secs/ExpiryBucket + 1) * ExpiryBucket
}

// SignMediaToken builds and signs the claims for mediaID at time now.
func SignMediaToken(secret []byte, mediaID string, now time.Time) (string, MediaClaims, error) {
	if len(secret) == 0 {
		return "", MediaClaims{}, ErrMissingSecret
	}
	if mediaID == "" {
		return "", MediaClaims{}, ErrMissingMediaID
	}
	claims := MediaClaims{
		Resource: MediaResourcePath(mediaID),
		Exp:      TokenExpiry(now),
	}
	token, err := GenerateHS256(secret, claims)
	if err != nil {
		return "", MediaClaims{}, err
	}
	return token, claims, nil
}

// GenerateHS256 signs an arbitrary JSON-serialisable claim set.
func GenerateHS256(secret []byte, claims any) (string, error) {
	hJSON, err := json.Marshal(jwtHeader{Alg: "HS256", Typ: "JWT"})
	if err != nil {
		return "", err
	}
	cJSON, err := json.Marshal(claims)
	if err != nil {
		return "", err
	}

	payload := base64.RawURLEncoding.EncodeToString(hJSON) + "." + base64.RawURLEncoding.EncodeToString(cJSON)
	return payload + "." + base64.RawURLEncoding.EncodeToString(sign(secret, payload)), nil
}

// VerifyMediaToken checks the signature and expiry of a media token and returns its claims.
func VerifyMediaToken(token string, secret []byte, now time.Time) (*MediaClaims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, ErrTokenMalformed
	}

	// Signature first, so claim parsing never runs on forged input.
	actualSig, err := base64.RawURLEncoding.DecodeString(parts[2])
	if err != nil {
		return nil, ErrInvalidSig
	}
	if !hmac.Equal(sign(secret, parts[0]+"."+parts[1]), actualSig) {
		return nil, ErrInvalidSig
	}

	hJSON, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return nil, ErrTokenMalformed
	}
	var header jwtHeader
	if err := json.Unmarshal(hJSON, &header); err != nil {
		return nil, ErrTokenMalformed
	}
	if header.Alg != "HS256" {
		return nil, ErrInvalidAlg
	}

	cJSON, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, ErrTokenMalformed
	}
	var claims MediaClaims
	if err := json.Unmarshal(cJSON, &claims); err != nil {
		return nil, ErrTokenMalformed
	}
	if claims.Exp <= now.Unix() {
		return nil, ErrTokenExpired
	}
	return &claims, nil
}

func sign(secret []byte, payload string) []byte {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(payload))
	return mac.Sum(nil)
}
