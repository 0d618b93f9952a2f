package membership_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xecut/xecutbot/internal/membership"
)

func TestIsAuthorized(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status membership.Status
		want   bool
	}{
		{membership.StatusUnknown, false},
		{membership.StatusNotMember, false},
		{membership.StatusLeft, false},
		{membership.StatusBanned, false},
		{membership.StatusRestricted, false},
		{membership.StatusMember, true},
		{membership.StatusAdministrator, true},
		{membership.StatusOwner, true},
		{membership.Status(42), false},
	}

	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, membership.IsAuthorized(tt.status))
		})
	}
}

func TestStatusString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "owner", membership.StatusOwner.String())
	assert.Equal(t, "not_member", membership.StatusNotMember.String())
	assert.Equal(t, "unknown", membership.Status(-1).String())
}
