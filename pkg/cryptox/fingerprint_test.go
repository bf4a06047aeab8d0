package cryptox

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateFingerprint(t *testing.T) {
	fp, err := GenerateFingerprint()
	require.NoError(t, err)
	require.NotEmpty(t, fp.Raw)
	require.NotEmpty(t, fp.Hash)

	// Raw is hex of FingerprintSize bytes, hash is hex SHA-256.
	require.Len(t, fp.Raw, FingerprintSize*2)
	require.Len(t, fp.Hash, 64)

	// The pair must be internally consistent.
	require.Equal(t, HashFingerprint(fp.Raw), fp.Hash)
}

func TestGenerateFingerprint_Unique(t *testing.T) {
	const count = 100
	seen := make(map[string]bool, count)

	for range count {
		fp, err := GenerateFingerprint()
		require.NoError(t, err)
		require.NotContains(t, seen, fp.Raw, "duplicate fingerprint generated")
		seen[fp.Raw] = true
	}
}

func TestHashFingerprint(t *testing.T) {
	a1 := HashFingerprint("value-a")
	a2 := HashFingerprint("value-a")
	b := HashFingerprint("value-b")

	// Deterministic across calls
	require.Equal(t, a1, a2)

	// Different inputs yield different digests
	require.NotEqual(t, a1, b)
}
