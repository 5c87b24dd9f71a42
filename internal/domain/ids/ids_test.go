package ids

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewULID(t *testing.T) {
	id, err := NewULID()
	require.NoError(t, err)
	require.Len(t, id, 26)
	require.NoError(t, ValidateULID(id))
}

func TestNewULIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		id, err := NewULID()
		require.NoError(t, err)
		require.False(t, seen[id], "duplicate ULID %s", id)
		seen[id] = true
	}
}

func TestValidateULID(t *testing.T) {
	cases := []struct {
		name  string
		value string
		valid bool
	}{
		{"valid", "01J8ZQ4VH4X2M9T6C1N5R7W3KD", true},
		{"lowercase", "01j8zq4vh4x2m9t6c1n5r7w3kd", true},
		{"too short", "01J8ZQ4VH4", false},
		{"empty", "", false},
		{"illegal chars", "01J8ZQ4VH4X2M9T6C1N5R7W3!!", false},
		{"uuid", "b9f7c3a2-8e1d-4f6a-9c0b-2d5e7f8a1b3c", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateULID(tc.value)
			if tc.valid {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, ErrInvalidULID)
			}
		})
	}
}
