package security

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"
	"slices"
	"strings"
	"time"

	"hoaportal/internal/utils"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const (
	backupCodeCount = 8
	backupCodeBytes = 4
	qrSize          = 200
)

// One 30 second step of tolerance either side absorbs clock skew.
var totpOpts = totp.ValidateOpts{
	Period:    30,
	Skew:      1,
	Digits:    otp.DigitsSix,
	Algorithm: otp.AlgorithmSHA1,
}

func generateKey(issuer, account string) (*otp.Key, error) {
	return totp.Generate(totp.GenerateOpts{
		Issuer:      issuer,
		AccountName: account,
		Period:      totpOpts.Period,
		Digits:      totpOpts.Digits,
		Algorithm:   totpOpts.Algorithm,
	})
}

// qrDataURI renders the provisioning URI as a base64 PNG data URI.
func qrDataURI(key *otp.Key) (string, error) {
	img, err := key.Image(qrSize, qrSize)
	if err != nil {
		return "", fmt.Errorf("render qr code: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encode qr code: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func validTOTP(code, secret string, at time.Time) bool {
	ok, err := totp.ValidateCustom(strings.TrimSpace(code), secret, at.UTC(), totpOpts)
	return err == nil && ok
}

// generateBackupCodes returns backupCodeCount distinct 8-character uppercase hex codes.
func generateBackupCodes() ([]string, error) {
	codes := make([]string, 0, backupCodeCount)
	for len(codes) < backupCodeCount {
		code, err := utils.GenerateHexCode(backupCodeBytes)
		if err != nil {
			return nil, fmt.Errorf("generate backup code: %w", err)
		}
		if !slices.Contains(codes, code) {
			codes = append(codes, code)
		}
	}
	return codes, nil
}

// consumeBackupCode removes code from codes, ignoring case. It reports
// whether a code was removed.
func consumeBackupCode(codes []string, code string) ([]string, bool) {
	code = strings.TrimSpace(code)
	for i, c := range codes {
		if strings.EqualFold(c, code) {
			return slices.Delete(slices.Clone(codes), i, i+1), true
		}
	}
	return codes, false
}
