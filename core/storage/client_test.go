package storage_test

import (
	"bytes"
	"context"
	"io"
	"testing"

	"tour-admin/core/storage"
	"tour-admin/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	t.Run("ValidConfig", func(t *testing.T) {
		cfg := storage.Config{
			Endpoint:  "localhost:9000",
			AccessKey: "testkey",
			SecretKey: "testsecret",
			Bucket:    "test-bucket",
			Region:    "ap-northeast-2",
		}

		client, err := storage.NewClient(cfg)
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("EndpointWithHTTPS", func(t *testing.T) {
		cfg := storage.Config{
			Endpoint:  "https://s3.amazonaws.com",
			AccessKey: "testkey",
			SecretKey: "testsecret",
			UseSSL:    true,
		}

		client, err := storage.NewClient(cfg)
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})
}

func TestPutJSON(t *testing.T) {
	mockClient := new(mocks.Client)
	var uploaded []byte
	mockClient.On("PutObject", mock.Anything, "bucket", "archive/x.json", mock.Anything, mock.Anything,
		mock.MatchedBy(func(opts minio.PutObjectOptions) bool { return opts.ContentType == "application/json" })).
		Run(func(args mock.Arguments) {
			uploaded, _ = io.ReadAll(args.Get(3).(io.Reader))
		}).
		Return(minio.UploadInfo{}, nil)

	err := storage.PutJSON(context.Background(), mockClient, "bucket", "archive/x.json", map[string]string{"id": "A"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"A"}`, string(uploaded))
}

func TestGetJSON(t *testing.T) {
	mockClient := new(mocks.Client)
	mockClient.On("GetObject", mock.Anything, "bucket", "a.json", mock.Anything).
		Return(io.NopCloser(bytes.NewReader([]byte(`{"id":"B"}`))), nil)

	var out map[string]string
	require.NoError(t, storage.GetJSON(context.Background(), mockClient, "bucket", "a.json", &out))
	assert.Equal(t, "B", out["id"])

	mockClient.On("GetObject", mock.Anything, "bucket", "missing.json", mock.Anything).Return(nil, assert.AnError)
	assert.Error(t, storage.GetJSON(context.Background(), mockClient, "bucket", "missing.json", &out))
}
