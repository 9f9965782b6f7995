package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUser_Equal(t *testing.T) {
	hans := &User{Login: "hans", Realm: "realm1", Resolver: "resolver1"}

	t.Run("SameTripleIsEqual", func(t *testing.T) {
		other := &User{Login: "hans", Realm: "realm1", Resolver: "resolver1", UID: "42"}
		assert.True(t, hans.Equal(other))
	})

	t.Run("DifferentLogin", func(t *testing.T) {
		assert.False(t, hans.Equal(&User{Login: "cornelius", Realm: "realm1", Resolver: "resolver1"}))
	})

	t.Run("DifferentRealm", func(t *testing.T) {
		assert.False(t, hans.Equal(&User{Login: "hans", Realm: "realm2", Resolver: "resolver1"}))
	})

	t.Run("DifferentResolver", func(t *testing.T) {
		assert.False(t, hans.Equal(&User{Login: "hans", Realm: "realm1", Resolver: "resolver2"}))
	})

	t.Run("NilIsNeverEqual", func(t *testing.T) {
		assert.False(t, hans.Equal(nil))
		var nilUser *User
		assert.False(t, nilUser.Equal(hans))
	})
}

func TestUser_String(t *testing.T) {
	hans := &User{Login: "root", Realm: "realm1", Resolver: "resolver1"}
	assert.Equal(t, "<root.resolver1@realm1>", hans.String())
}
