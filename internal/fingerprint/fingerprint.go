// Package fingerprint derives the dedup identity of a posting.
package fingerprint

import (
	"crypto/md5"
	"encoding/hex"
	"strings"

	"jobalert/internal/domain"
)

// Of returns the md5 hex digest of the lower-cased, trimmed title and company.
// The URL is left out on purpose: the same job on two boards must collapse.
func Of(title, company string) domain.Fingerprint {
	raw := strings.ToLower(strings.TrimSpace(title)) + strings.ToLower(strings.TrimSpace(company))
	sum := md5.Sum([]byte(raw))
	return domain.Fingerprint(hex.EncodeToString(sum[:]))
}
