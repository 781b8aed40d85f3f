package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPolicyDefaultIsPermissiveForBlockedUsers(t *testing.T) {
	p := Policy{}
	admin := &User{IsAdmin: true, IsBlocked: true}

	assert.True(t, p.CanLogin(admin))
	assert.True(t, p.CanAdminister(admin))
}

func TestPolicyEnforceBlock(t *testing.T) {
	p := Policy{EnforceBlock: true}
	blockedAdmin := &User{IsAdmin: true, IsBlocked: true}

	assert.False(t, p.CanLogin(blockedAdmin))
	assert.False(t, p.CanAdminister(blockedAdmin))
	assert.True(t, p.CanAdminister(&User{IsAdmin: true}))
}

func TestPolicyCreditsAndSellers(t *testing.T) {
	p := Policy{}

	assert.False(t, p.CanCreateRequest(&User{Credits: 0}))
	assert.True(t, p.CanCreateRequest(&User{Credits: 1}))
	assert.False(t, p.CanBid(&User{IsBuyer: true}))
	assert.True(t, p.CanBid(&User{IsSeller: true}))
	assert.False(t, p.CanAdminister(&User{}))
	assert.False(t, p.CanBid(nil))
}
