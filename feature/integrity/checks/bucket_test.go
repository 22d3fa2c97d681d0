package checks

import (
	"context"
	"errors"
	"testing"

	"inventory-recon/core/storage/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestCheckBucket(t *testing.T) {
	t.Run("Bucket Present", func(t *testing.T) {
		mockClient := new(mocks.Client)
		mockClient.On("BucketExists", mock.Anything, "reports").Return(true, nil)

		assert.NoError(t, CheckBucket(context.Background(), mockClient, "reports"))
		mockClient.AssertExpectations(t)
	})

	t.Run("Bucket Missing", func(t *testing.T) {
		mockClient := new(mocks.Client)
		mockClient.On("BucketExists", mock.Anything, "reports").Return(false, nil)

		err := CheckBucket(context.Background(), mockClient, "reports")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "does not exist")
	})

	t.Run("Storage Error", func(t *testing.T) {
		mockClient := new(mocks.Client)
		mockClient.On("BucketExists", mock.Anything, "reports").Return(false, errors.New("connection refused"))

		err := CheckBucket(context.Background(), mockClient, "reports")
		assert.ErrorContains(t, err, "connection refused")
	})
}
