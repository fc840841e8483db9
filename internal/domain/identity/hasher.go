package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"go.uber.org/zap"
)

// Kind identifies which normalization path a raw identity value takes
// before hashing.
type Kind string

const (
	KindPhone Kind = "PHONE"
	KindEmail Kind = "EMAIL"
)

// legacyPrefixes maps retired 11-digit Vietnamese mobile prefixes to the
// 10-digit ranges they were migrated to in 2018.
var legacyPrefixes = map[string]string{
	"0120": "070",
	"0121": "079",
	"0122": "077",
	"0123": "083",
	"0124": "084",
	"0125": "085",
	"0126": "076",
	"0127": "081",
	"0128": "078",
	"0129": "082",
	"0162": "032",
	"0163": "033",
	"0164": "034",
	"0165": "035",
	"0166": "036",
	"0167": "037",
	"0168": "038",
	"0169": "039",
	"0186": "056",
	"0188": "058",
	"0199": "059",
}

// Hasher turns raw PII into salted one-way lookup keys. The digest is
// SHA-256 rendered as lowercase hex; salts are fixed per deployment so
// the same customer hashes identically across platforms and runs.
type Hasher struct {
	phoneSalt string
	emailSalt string
	logger    *zap.Logger
}

// NewHasher creates a hasher with the given per-kind salts.
func NewHasher(phoneSalt, emailSalt string, logger *zap.Logger) *Hasher {
	return &Hasher{
		phoneSalt: phoneSalt,
		emailSalt: emailSalt,
		logger:    logger,
	}
}

// Hash normalizes and digests a raw identity value. It returns ok=false
// for empty or structurally invalid input instead of an error; the
// caller treats a missing hash as "identity unknown".
func (h *Hasher) Hash(kind Kind, raw string) (string, bool) {
	switch kind {
	case KindPhone:
		return h.HashPhone(raw)
	case KindEmail:
		return h.HashEmail(raw)
	default:
		h.logger.Warn("unknown identity kind", zap.String("kind", string(kind)))
		return "", false
	}
}

// HashPhone normalizes a Vietnamese phone number and returns its salted
// digest.
func (h *Hasher) HashPhone(raw string) (string, bool) {
	normalized, ok := NormalizePhone(raw)
	if !ok {
		if strings.TrimSpace(raw) != "" {
			h.logger.Warn("phone failed normalization", zap.String("phone", MaskPhone(raw)))
		}
		return "", false
	}
	return h.digest(h.phoneSalt, normalized), true
}

// HashEmail lowercases and validates an email address and returns its
// salted digest.
func (h *Hasher) HashEmail(raw string) (string, bool) {
	normalized, ok := NormalizeEmail(raw)
	if !ok {
		if strings.TrimSpace(raw) != "" {
			h.logger.Warn("email failed validation", zap.String("email", MaskEmail(raw)))
		}
		return "", false
	}
	return h.digest(h.emailSalt, normalized), true
}

func (h *Hasher) digest(salt, normalized string) string {
	sum := sha256.Sum256([]byte(salt + normalized))
	return hex.EncodeToString(sum[:])
}

// NormalizePhone collapses the format variants of a Vietnamese phone
// number into national format: punctuation stripped, the 84 country
// code replaced by a leading 0, and retired 11-digit prefixes remapped
// to their current 10-digit ranges.
func NormalizePhone(raw string) (string, bool) {
	digits := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		if raw[i] >= '0' && raw[i] <= '9' {
			digits = append(digits, raw[i])
		}
	}
	phone := string(digits)
	if phone == "" {
		return "", false
	}

	// 84xxxxxxxxx -> 0xxxxxxxxx
	if strings.HasPrefix(phone, "84") && len(phone) >= 11 {
		phone = phone[2:]
	}
	if !strings.HasPrefix(phone, "0") {
		phone = "0" + phone
	}

	if len(phone) == 11 {
		if current, ok := legacyPrefixes[phone[:4]]; ok {
			phone = current + phone[4:]
		}
	}

	switch len(phone) {
	case 10:
		return phone, true
	case 11:
		// fixed-line numbers keep the 02x area-code format
		if strings.HasPrefix(phone, "02") {
			return phone, true
		}
	}
	return "", false
}

// NormalizeEmail trims and lowercases an email address, rejecting
// values without the minimal user@domain.tld shape.
func NormalizeEmail(raw string) (string, bool) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if len(email) < 6 {
		return "", false
	}
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return "", false
	}
	if strings.Count(email, "@") != 1 {
		return "", false
	}
	dot := strings.LastIndex(email, ".")
	if dot < at+2 || dot == len(email)-1 {
		return "", false
	}
	return email, true
}

// MaskPhone obscures a phone number for log output. Masked values are
// display-only and must never be used as lookup keys.
func MaskPhone(raw string) string {
	if len(raw) <= 5 {
		return "***"
	}
	return raw[:3] + "***" + raw[len(raw)-2:]
}

// MaskEmail obscures the local part of an email for log output.
func MaskEmail(raw string) string {
	at := strings.Index(raw, "@")
	if at <= 1 {
		return "***"
	}
	return raw[:1] + "***" + raw[at:]
}
