package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectKey(t *testing.T) {
	key := ObjectKey(FolderImages, "Cover Photo.PNG")
	assert.True(t, strings.HasPrefix(key, "images/"))
	assert.True(t, strings.HasSuffix(key, ".png"))
	assert.NotContains(t, key, "Cover")

	assert.NotEqual(t, ObjectKey(FolderFiles, "a.zip"), ObjectKey(FolderFiles, "a.zip"))

	noExt := ObjectKey(FolderFiles, `C:\Users\me\archive`)
	assert.Len(t, strings.TrimPrefix(noExt, "files/"), 36)
}

func TestNewS3UploaderRequiresBucket(t *testing.T) {
	_, err := NewS3Uploader(context.Background(), S3Config{Region: "us-east-1"})
	require.Error(t, err)
}

func TestNewS3UploaderWithStaticCredentials(t *testing.T) {
	u, err := NewS3Uploader(context.Background(), S3Config{
		Bucket:        "digistore",
		Region:        "us-east-1",
		Endpoint:      "http://localhost:9000",
		AccessKey:     "minio",
		SecretKey:     "minio123",
		PublicBaseURL: "https://cdn.example.com/",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com", u.publicBaseURL)
}
