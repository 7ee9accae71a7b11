package vm

import (
	"errors"
	"testing"

	"github.com/opsforge/vcadmin/pkg/vcenter/mocks"
	"github.com/stretchr/testify/require"
)

func TestLocate_NotFoundIsDistinct(t *testing.T) {
	client := new(mocks.ClientInterface)
	client.On("FindVM", "DC0", "ghost").Return(nil, nil)

	_, err := Locate(client, "DC0", "ghost")
	require.ErrorIs(t, err, ErrNotFound)
	client.AssertExpectations(t)
}

func TestLocate_LookupFailure(t *testing.T) {
	lookupErr := errors.New("connection refused")
	client := new(mocks.ClientInterface)
	client.On("FindVM", "DC0", "web-01").Return(nil, lookupErr)

	_, err := Locate(client, "DC0", "web-01")
	require.ErrorIs(t, err, lookupErr)
	require.NotErrorIs(t, err, ErrNotFound)
}

func TestExists(t *testing.T) {
	client := new(mocks.ClientInterface)
	client.On("FindVM", "DC0", "ghost").Return(nil, nil)

	ok, err := Exists(client, "DC0", "ghost")
	require.NoError(t, err)
	require.False(t, ok)
}
