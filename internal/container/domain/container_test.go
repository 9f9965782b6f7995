package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseType(t *testing.T) {
	t.Run("KnownTypes", func(t *testing.T) {
		for _, name := range []string{"generic", "smartphone", "yubikey"} {
			parsed, err := ParseType(name)
			require.NoError(t, err)
			assert.Equal(t, Type(name), parsed)
		}
	})

	t.Run("CaseInsensitive", func(t *testing.T) {
		parsed, err := ParseType("Smartphone")
		require.NoError(t, err)
		assert.Equal(t, TypeSmartphone, parsed)
	})

	t.Run("Unknown", func(t *testing.T) {
		_, err := ParseType("wrongType")
		assert.ErrorIs(t, err, ErrUnsupportedType)
	})

	t.Run("Missing", func(t *testing.T) {
		_, err := ParseType("")
		assert.ErrorIs(t, err, ErrMissingType)

		_, err = ParseType("   ")
		assert.ErrorIs(t, err, ErrMissingType)
	})
}

func TestTypeNewSerial(t *testing.T) {
	tests := map[Type]string{
		TypeGeneric:    "CONT",
		TypeSmartphone: "SMPH",
		TypeYubikey:    "YUBI",
	}

	for containerType, prefix := range tests {
		serial := containerType.NewSerial()
		assert.True(t, strings.HasPrefix(serial, prefix), serial)
		assert.Len(t, serial, len(prefix)+8)
		assert.Equal(t, strings.ToUpper(serial), serial)
	}

	// Serials must be unique across calls.
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		serial := TypeGeneric.NewSerial()
		assert.False(t, seen[serial], serial)
		seen[serial] = true
	}
}

func TestStateTypes(t *testing.T) {
	stateTypes := StateTypes()

	assert.Contains(t, stateTypes[StateActive], StateDisabled)
	assert.Contains(t, stateTypes[StateDisabled], StateActive)
	assert.Empty(t, stateTypes[StateDamaged])
	assert.Empty(t, stateTypes[StateLost])

	assert.True(t, ValidState("active"))
	assert.False(t, ValidState("bogus"))
}

func TestTypeTokenTypes(t *testing.T) {
	assert.Contains(t, TypeSmartphone.TokenTypes(), "totp")
	assert.Equal(t, []string{"hotp"}, TypeYubikey.TokenTypes())
	assert.NotEmpty(t, TypeGeneric.Description())
}

func TestContainerHasRealm(t *testing.T) {
	container := &Container{Realms: []string{"realm1", "realm2"}}
	assert.True(t, container.HasRealm("realm1"))
	assert.False(t, container.HasRealm("realm3"))
}
