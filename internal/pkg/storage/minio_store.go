package storage

import (
	"Mintora/internal/pkg/minio"
	"bytes"
	"context"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

const objectPrefix = "objects/"

// MinioStore 以内容哈希为对象名写入 MinIO
type MinioStore struct{}

func NewMinioStore() *MinioStore {
	return &MinioStore{}
}

func (s *MinioStore) PutFile(ctx context.Context, _ string, contentType string, data []byte) (string, error) {
	address := ContentAddress(data)
	_, err := minio.UploadFile(ctx, objectPrefix+address, bytes.NewReader(data), int64(len(data)), contentType)
	if err != nil {
		return "", errors.Wrap(err, "minio put object")
	}
	return CASLocator(address), nil
}

func (s *MinioStore) PutJSON(ctx context.Context, name string, v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", errors.Wrap(err, "marshal json object")
	}
	return s.PutFile(ctx, name, "application/json", data)
}

func (s *MinioStore) URL(locator string) string {
	_, key := SplitLocator(locator)
	return minio.GetPublicURL(objectPrefix + key)
}
