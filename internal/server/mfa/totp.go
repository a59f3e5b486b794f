// Package mfa implements the time-based one-time password (RFC 6238) second
// factor: secret provisioning, otpauth URIs for authenticator apps, code
// verification and single-use backup codes.
package mfa

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base32"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

const (
	secretBytes = 20
	digits      = 6
	period      = 30
	// skew is the number of adjacent time steps accepted on either side,
	// tolerating clock drift between server and phone.
	skew = 1
)

// GenerateSecret returns a fresh base32-encoded TOTP secret.
func GenerateSecret() (string, error) {
	raw := make([]byte, secretBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	enc := base32.StdEncoding.WithPadding(base32.NoPadding)
	return enc.EncodeToString(raw), nil
}

// ProvisionURI builds the otpauth:// URI encoded into the enrollment QR code.
func ProvisionURI(secret, account, issuer string) string {
	label := url.PathEscape(issuer + ":" + account)

	v := url.Values{}
	v.Set("secret", secret)
	v.Set("issuer", issuer)
	v.Set("algorithm", "SHA1")
	v.Set("digits", "6")
	v.Set("period", "30")

	return "otpauth://totp/" + label + "?" + v.Encode()
}

// VerifyCode reports whether code is valid for secret at the given time,
// accepting one time step of drift in either direction.
func VerifyCode(secret, code string, now time.Time) (bool, error) {
	trimmed := strings.TrimSpace(code)
	if len(trimmed) != digits || !isNumeric(trimmed) {
		return false, nil
	}

	key, err := decodeSecret(secret)
	if err != nil {
		return false, err
	}

	baseCounter := now.Unix() / period
	for step := int64(-skew); step <= skew; step++ {
		counter := baseCounter + step
		if counter < 0 {
			continue
		}
		generated := hotpCode(key, counter)
		if subtle.ConstantTimeCompare([]byte(generated), []byte(trimmed)) == 1 {
			return true, nil
		}
	}

	return false, nil
}

// GenerateCode returns the code valid for secret at the given time.
func GenerateCode(secret string, now time.Time) (string, error) {
	key, err := decodeSecret(secret)
	if err != nil {
		return "", err
	}
	return hotpCode(key, now.Unix()/period), nil
}

func decodeSecret(secret string) ([]byte, error) {
	normalized := strings.ToUpper(strings.TrimRight(secret, "="))
	key, err := base32.StdEncoding.WithPadding(base32.NoPadding).DecodeString(normalized)
	if err != nil {
		return nil, fmt.Errorf("decoding totp secret: %w", err)
	}
	if len(key) == 0 {
		return nil, errors.New("empty totp secret")
	}
	return key, nil
}

func hotpCode(key []byte, counter int64) string {
	var msg [8]byte
	binary.BigEndian.PutUint64(msg[:], uint64(counter))

	mac := hmac.New(sha1.New, key)
	_, _ = mac.Write(msg[:])
	sum := mac.Sum(nil)

	offset := sum[len(sum)-1] & 0x0f
	bin := (int(sum[offset])&0x7f)<<24 |
		(int(sum[offset+1])&0xff)<<16 |
		(int(sum[offset+2])&0xff)<<8 |
		(int(sum[offset+3]) & 0xff)

	return fmt.Sprintf("%06d", bin%1000000)
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// GenerateBackupCodes returns n single-use recovery codes alongside their
// SHA-256 digests. Only the digests are meant to be stored.
func GenerateBackupCodes(n int) (codes []string, hashes []string, err error) {
	for i := 0; i < n; i++ {
		raw := make([]byte, 5)
		if _, err := rand.Read(raw); err != nil {
			return nil, nil, err
		}
		code := hex.EncodeToString(raw)
		codes = append(codes, code)
		hashes = append(hashes, HashBackupCode(code))
	}
	return codes, hashes, nil
}

// HashBackupCode digests a backup code for storage and comparison.
func HashBackupCode(code string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(code)))
	return hex.EncodeToString(sum[:])
}
