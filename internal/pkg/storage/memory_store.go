package storage

import (
	"context"
	"strings"
	"sync"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// MemoryStore 进程内内容寻址存储
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
	baseURL string
}

func NewMemoryStore(baseURL string) *MemoryStore {
	return &MemoryStore{
		objects: make(map[string][]byte),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (s *MemoryStore) PutFile(_ context.Context, _ string, _ string, data []byte) (string, error) {
	address := ContentAddress(data)

	s.mu.Lock()
	s.objects[address] = append([]byte(nil), data...)
	s.mu.Unlock()

	return CASLocator(address), nil
}

func (s *MemoryStore) PutJSON(ctx context.Context, name string, v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", errors.Wrap(err, "marshal json object")
	}
	return s.PutFile(ctx, name, "application/json", data)
}

func (s *MemoryStore) URL(locator string) string {
	_, key := SplitLocator(locator)
	return s.baseURL + "/" + key
}

// Get 按 locator 读取对象
func (s *MemoryStore) Get(locator string) ([]byte, bool) {
	_, key := SplitLocator(locator)

	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.objects[key]
	return data, ok
}

// Len 已存储对象数
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
