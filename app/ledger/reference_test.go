package ledger

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReferenceNumberFormat(t *testing.T) {
	at := time.Date(2026, 1, 15, 9, 30, 42, 0, time.UTC)
	ref := NewReferenceNumber("3f2a81c4-9d1e-4b7a-8c55-0a4de91b0a11", at)

	parts := strings.Split(ref, "-")
	require.Len(t, parts, 4)
	assert.Equal(t, "PAY", parts[0])
	assert.Equal(t, "20260115093042", parts[1])
	assert.Equal(t, "3F2A81C4", parts[2])
	assert.Len(t, parts[3], 6)
	assert.Equal(t, strings.ToUpper(ref), ref)
}

func TestNewReferenceNumberShortStudentID(t *testing.T) {
	ref := NewReferenceNumber("ab", time.Now())
	assert.Contains(t, ref, "-AB-")
}

func TestNewReferenceNumberVaries(t *testing.T) {
	at := time.Now()
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		ref := NewReferenceNumber("3f2a81c4-9d1e-4b7a-8c55-0a4de91b0a11", at)
		assert.False(t, seen[ref], "duplicate reference %s", ref)
		seen[ref] = true
	}
}
