package service

import (
	"Mintora/internal/model"
	"Mintora/internal/pkg/coin"
	"Mintora/internal/pkg/es"
	"Mintora/internal/pkg/mongo"
	"Mintora/internal/repository"
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// countingProtocol 统计 CreateCoin 调用次数
type countingProtocol struct {
	coin.Protocol
	creates atomic.Int32
	delay   time.Duration
	err     error
}

func (s *countingProtocol) CreateCoin(ctx context.Context, req *coin.CreateCoinRequest) (*coin.CreatedCoin, error) {
	s.creates.Add(1)
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.Protocol.CreateCoin(ctx, req)
}

// checksumProtocol 返回大小写混合的代币地址
type checksumProtocol struct {
	coin.Protocol
}

func (s *checksumProtocol) CreateCoin(ctx context.Context, req *coin.CreateCoinRequest) (*coin.CreatedCoin, error) {
	created, err := s.Protocol.CreateCoin(ctx, req)
	if err != nil {
		return nil, err
	}
	created.Address = "0x" + strings.ToUpper(strings.TrimPrefix(created.Address, "0x"))
	return created, nil
}

// failingContentRepo 插入始终失败，其余操作委托给内存实现
type failingContentRepo struct {
	*repository.MemoryContentRepo
	err      error
	attaches atomic.Int32
}

func (s *failingContentRepo) Insert(context.Context, *model.ContentRecord) error {
	return s.err
}

func (s *failingContentRepo) AttachPrediction(ctx context.Context, id uint64, forecast *model.TrendForecast, at time.Time) error {
	s.attaches.Add(1)
	return s.MemoryContentRepo.AttachPrediction(ctx, id, forecast, at)
}

type countingForecaster struct {
	calls atomic.Int32
}

func (s *countingForecaster) Predict(context.Context, *model.ContentRecord) (*model.TrendForecast, error) {
	s.calls.Add(1)
	return &model.TrendForecast{ConfidencePct: 50}, nil
}

type failingStore struct {
	failFile bool
	failJSON bool
}

func (s *failingStore) PutFile(context.Context, string, string, []byte) (string, error) {
	if s.failFile {
		return "", errors.New("gateway unavailable")
	}
	return "cas://file", nil
}

func (s *failingStore) PutJSON(context.Context, string, any) (string, error) {
	if s.failJSON {
		return "", errors.New("gateway unavailable")
	}
	return "cas://meta", nil
}

func (s *failingStore) URL(locator string) string {
	return "https://gw/" + locator
}

type failingForecaster struct{ err error }

func (s failingForecaster) Predict(context.Context, *model.ContentRecord) (*model.TrendForecast, error) {
	return nil, s.err
}

type blockingForecaster struct{}

func (blockingForecaster) Predict(ctx context.Context, _ *model.ContentRecord) (*model.TrendForecast, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

type panickingForecaster struct{}

func (panickingForecaster) Predict(context.Context, *model.ContentRecord) (*model.TrendForecast, error) {
	panic("model exploded")
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []any
}

func (s *recordingPublisher) Publish(_ context.Context, _ string, event any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

type memoryCache struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string]string)}
}

func (s *memoryCache) GetValue(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data[key], nil
}

func (s *memoryCache) SetWithExpiration(_ context.Context, key string, value interface{}, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value.(string)
	return nil
}

func (s *memoryCache) DeleteKey(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

type memoryLocker struct {
	mu    sync.Mutex
	held  map[string]interface{}
	calls atomic.Int32
}

func newMemoryLocker() *memoryLocker {
	return &memoryLocker{held: make(map[string]interface{})}
}

func (s *memoryLocker) TryLock(ctx context.Context, key string, value interface{}, _ time.Duration, retryTimes int) (bool, error) {
	s.calls.Add(1)
	for i := 0; i <= retryTimes; i++ {
		s.mu.Lock()
		if _, ok := s.held[key]; !ok {
			s.held[key] = value
			s.mu.Unlock()
			return true, nil
		}
		s.mu.Unlock()
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(10 * time.Millisecond):
		}
	}
	return false, nil
}

func (s *memoryLocker) UnLock(_ context.Context, key string, value interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.held[key] == value {
		delete(s.held, key)
	}
}

type fakeSearch struct {
	mu      sync.Mutex
	indexed map[uint64]*es.ContentES
	hits    []uint64
	err     error
}

func newFakeSearch() *fakeSearch {
	return &fakeSearch{indexed: make(map[uint64]*es.ContentES)}
}

func (s *fakeSearch) IndexContent(_ context.Context, doc *es.ContentES) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.indexed[doc.ID] = doc
	return nil
}

func (s *fakeSearch) DeleteContent(_ context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.indexed, id)
	return nil
}

func (s *fakeSearch) Search(_ context.Context, _ string, _, _ int) ([]uint64, int64, error) {
	if s.err != nil {
		return nil, 0, s.err
	}
	return s.hits, int64(len(s.hits)), nil
}

func (s *fakeSearch) isIndexed(id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.indexed[id]
	return ok
}

type recordingAudit struct {
	mu      sync.Mutex
	sources []string
}

func (s *recordingAudit) Append(_ context.Context, _ uint64, _ string, source string, _ *model.TrendForecast) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sources = append(s.sources, source)
	return nil
}

func (s *recordingAudit) ListByContent(context.Context, uint64, int64) ([]*mongo.ForecastAuditModel, error) {
	return nil, nil
}

func (s *recordingAudit) list() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.sources...)
}

func jpegBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for x := 0; x < 32; x++ {
		img.Set(x, x, color.RGBA{B: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}))
	return buf.Bytes()
}

// mp4Bytes 最小的 ftyp 头，足以被识别为 video/mp4
func mp4Bytes() []byte {
	return []byte{
		0x00, 0x00, 0x00, 0x18, 'f', 't', 'y', 'p',
		'm', 'p', '4', '2', 0x00, 0x00, 0x00, 0x00,
		'm', 'p', '4', '2', 'i', 's', 'o', 'm',
	}
}
