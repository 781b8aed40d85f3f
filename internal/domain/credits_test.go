package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreditPackages(t *testing.T) {
	pkgs := CreditPackages()
	require.Len(t, pkgs, 3)
	assert.Equal(t, []string{"10", "20", "50"}, []string{pkgs[0].Code, pkgs[1].Code, pkgs[2].Code})

	p, ok := LookupPackage("20")
	require.True(t, ok)
	assert.Equal(t, 20, p.Credits)
	assert.Equal(t, "170", p.Price.String())
	assert.Equal(t, "20 Credits ($170)", p.Label())

	_, ok = LookupPackage("15")
	assert.False(t, ok)
}
