package integrity

import (
	"context"
	"errors"
	"testing"

	"inventory-recon/core/storage/mocks"
	"inventory-recon/feature/integrity/checks"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var layout = checks.Layout{
	LogsDir:       "data/logs",
	LogsPattern:   "log_*.txt",
	CatalogFile:   "data/skus/skus.json",
	PricesDir:     "data/market_prices",
	PricesPattern: "market_prices_*",
}

func TestService_Run(t *testing.T) {
	t.Run("All Present Without Upload", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "data/logs/log_1.txt", nil, 0o644))
		require.NoError(t, afero.WriteFile(fs, "data/skus/skus.json", []byte("[]"), 0o644))
		require.NoError(t, afero.WriteFile(fs, "data/market_prices/market_prices_1.parquet", nil, 0o644))

		report, err := NewService(fs, layout, nil, "", zap.NewNop()).Run(context.Background(), false)
		require.NoError(t, err)
		assert.True(t, report.OK())
		assert.Empty(t, report.BucketError)
	})

	t.Run("Fix Creates Directories", func(t *testing.T) {
		fs := afero.NewMemMapFs()

		report, err := NewService(fs, layout, nil, "", zap.NewNop()).Run(context.Background(), true)
		require.NoError(t, err)
		assert.Equal(t, []string{"data/logs", "data/market_prices"}, report.Fixed)
		assert.False(t, report.OK())
		assert.Len(t, report.Missing, 3)

		ok, _ := afero.DirExists(fs, "data/logs")
		assert.True(t, ok)
	})

	t.Run("Bucket Error Is Reported", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "reports").Return(false, errors.New("connection refused"))

		report, err := NewService(afero.NewMemMapFs(), layout, client, "reports", zap.NewNop()).Run(context.Background(), false)
		require.NoError(t, err)
		assert.Contains(t, report.BucketError, "connection refused")
		client.AssertExpectations(t)
	})
}
