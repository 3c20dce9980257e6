package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beefboard/boardclient/internal/client/client"
	"github.com/beefboard/boardclient/internal/client/models"
)

func TestProfileLookup_Fetch(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		fc      *fakeClient
		want    *models.User
		wantErr error
	}{
		{name: "found", fc: &fakeClient{GetUserRet: &alice}, want: &alice},
		{name: "unknown user", fc: &fakeClient{GetUserErr: client.ErrNotFound}},
		{name: "transport", fc: &fakeClient{GetUserErr: client.ErrConnection}, wantErr: client.ErrConnection},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := NewProfileLookup(tt.fc).Fetch(ctx, " alice ")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, u)
			assert.Equal(t, "alice", tt.fc.LastGetUser)
		})
	}
}

func TestProfileLookup_EmptyUsername(t *testing.T) {
	fc := &fakeClient{}
	_, err := NewProfileLookup(fc).Fetch(context.Background(), "  ")
	require.ErrorIs(t, err, client.ErrInvalidRequest)
	assert.Zero(t, fc.Calls("GetUser"))
}

func TestProfileLookup_IsUsernameAvailable(t *testing.T) {
	ctx := context.Background()

	ok, err := NewProfileLookup(&fakeClient{GetUserErr: client.ErrNotFound}).IsUsernameAvailable(ctx, "bob")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = NewProfileLookup(&fakeClient{GetUserRet: &alice}).IsUsernameAvailable(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = NewProfileLookup(&fakeClient{GetUserErr: client.ErrServerUnavailable}).IsUsernameAvailable(ctx, "x")
	assert.ErrorIs(t, err, client.ErrServerUnavailable)
}
