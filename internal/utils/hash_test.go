// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher_HashAndCompare(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	hash, err := h.HashPassword("correct horse")
	require.NoError(t, err)

	assert.NotEqual(t, "correct horse", hash)
	assert.True(t, strings.HasPrefix(hash, "$2a$"))

	ok, err := h.ComparePassword(hash, "correct horse")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.ComparePassword(hash, "wrong horse")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPasswordHasher_SaltedHashesDiffer(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	first, err := h.HashPassword("same")
	require.NoError(t, err)
	second, err := h.HashPassword("same")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestPasswordHasher_UsesConfiguredCost(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost + 1)

	hash, err := h.HashPassword("pw")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost+1, cost)
}

func TestNewPasswordHasher_OutOfRangeCostFallsBack(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewPasswordHasher(0).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewPasswordHasher(bcrypt.MaxCost+1).cost)
}

func TestPasswordHasher_MalformedHash(t *testing.T) {
	ok, err := NewPasswordHasher(bcrypt.MinCost).ComparePassword("not-a-hash", "pw")

	assert.False(t, ok)
	assert.Error(t, err)
}

func TestPasswordHasher_TooLongPassword(t *testing.T) {
	_, err := NewPasswordHasher(bcrypt.MinCost).HashPassword(strings.Repeat("x", 73))

	assert.Error(t, err)
}
