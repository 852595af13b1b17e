package fingerprint

import (
	"crypto/md5"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOf_Deterministic(t *testing.T) {
	assert.Equal(t, Of("Backend Dev", "Acme"), Of("Backend Dev", "Acme"))
}

func TestOf_CaseAndWhitespaceInsensitive(t *testing.T) {
	want := Of("Backend Dev", "Acme")

	tests := []struct {
		name    string
		title   string
		company string
	}{
		{"upper", "BACKEND DEV", "ACME"},
		{"lower", "backend dev", "acme"},
		{"padded title", "  Backend Dev\t", "Acme"},
		{"padded company", "Backend Dev", "\n Acme  "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, want, Of(tt.title, tt.company))
		})
	}
}

func TestOf_DistinctPostings(t *testing.T) {
	assert.NotEqual(t, Of("Backend Developer", "Acme"), Of("Senior Backend Developer", "Acme"))
	assert.NotEqual(t, Of("Backend Developer", "Acme"), Of("Backend Developer", "Globex"))
}

// Ledgers written by earlier versions hold md5(lower(title)+lower(company)).
func TestOf_MatchesLegacyDigest(t *testing.T) {
	sum := md5.Sum([]byte("react developeracme"))
	assert.Equal(t, hex.EncodeToString(sum[:]), string(Of(" React Developer ", "ACME")))
}
