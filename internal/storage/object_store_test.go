package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"incognitify/portal/internal/config"
)

func TestNewObjectStore_EndpointSchemes(t *testing.T) {
	store, err := NewObjectStore(config.StorageConfig{
		Endpoint:      "https://s3.example.test:9000",
		AccessKey:     "key",
		SecretKey:     "secret",
		BucketLocales: "portal-locales",
		Region:        "us-east-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "s3.example.test:9000", store.client.EndpointURL().Host)
	assert.Equal(t, "https", store.client.EndpointURL().Scheme)
	assert.Equal(t, "portal-locales", store.LocalesBucket())

	plain, err := NewObjectStore(config.StorageConfig{Endpoint: "localhost:9000", BucketLocales: "b"})
	require.NoError(t, err)
	assert.Equal(t, "http", plain.client.EndpointURL().Scheme)
}

func TestNewObjectStore_BadEndpoint(t *testing.T) {
	_, err := NewObjectStore(config.StorageConfig{Endpoint: "http://bad host"})
	assert.Error(t, err)
}
