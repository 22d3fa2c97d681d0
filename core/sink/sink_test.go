package sink

import (
	"context"
	"errors"
	"testing"

	"inventory-recon/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func sampleTable() Table {
	return Table{
		Name:   "top_region_per_sku",
		Header: []string{"sku", "region_name"},
		Rows: [][]string{
			{"WINE-OPU-001", "Napa Valley"},
			{"WHKY-GLE-018", "Speyside, Scotland"},
		},
	}
}

func TestTable_Encode(t *testing.T) {
	data, err := sampleTable().Encode()
	require.NoError(t, err)
	assert.Equal(t, "sku,region_name\nWINE-OPU-001,Napa Valley\nWHKY-GLE-018,\"Speyside, Scotland\"\n", string(data))
}

func TestTable_EncodeRaggedRow(t *testing.T) {
	table := sampleTable()
	table.Rows = append(table.Rows, []string{"only-one"})

	_, err := table.Encode()
	assert.Error(t, err)
}

func TestLocalSink_Write(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := NewLocal(fs, "outputs")

	require.NoError(t, s.Write(context.Background(), sampleTable()))

	data, err := afero.ReadFile(fs, "outputs/top_region_per_sku.csv")
	require.NoError(t, err)
	assert.Contains(t, string(data), "WINE-OPU-001,Napa Valley")
}

func TestObjectSink_Write(t *testing.T) {
	t.Run("CreatesMissingBucketOnce", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "reports").Return(false, nil).Once()
		client.On("MakeBucket", mock.Anything, "reports", mock.Anything).Return(nil).Once()
		client.On("PutObject", mock.Anything, "reports", "outputs/top_region_per_sku.csv", mock.Anything, mock.AnythingOfType("int64"), mock.MatchedBy(func(opts minio.PutObjectOptions) bool {
			return opts.ContentType == "text/csv"
		})).Return(minio.UploadInfo{}, nil).Twice()

		s := NewObject(client, "reports", "outputs")
		require.NoError(t, s.Write(context.Background(), sampleTable()))
		require.NoError(t, s.Write(context.Background(), sampleTable()))

		client.AssertExpectations(t)
	})

	t.Run("UploadError", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "reports").Return(true, nil)
		client.On("PutObject", mock.Anything, "reports", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(minio.UploadInfo{}, errors.New("connection refused"))

		err := NewObject(client, "reports", "").Write(context.Background(), sampleTable())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection refused")
		client.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
	})
}

type failingSink struct{}

func (failingSink) Write(context.Context, Table) error { return errors.New("disk full") }

func TestMulti_Write(t *testing.T) {
	fs := afero.NewMemMapFs()
	m := Multi{NewLocal(fs, "a"), failingSink{}, NewLocal(fs, "b")}

	err := m.Write(context.Background(), sampleTable())
	assert.EqualError(t, err, "disk full")

	exists, _ := afero.Exists(fs, "a/top_region_per_sku.csv")
	assert.True(t, exists)
	exists, _ = afero.Exists(fs, "b/top_region_per_sku.csv")
	assert.False(t, exists)
}
