package service

import (
	"Mintora/internal/model"
	"Mintora/internal/pkg/coin"
	"Mintora/internal/pkg/predictor"
	"Mintora/internal/pkg/storage"
	"Mintora/internal/repository"
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCreator = "0x1111111111111111111111111111111111111111"

type publishFixture struct {
	svc       PublishService
	store     *storage.MemoryStore
	contents  *repository.MemoryContentRepo
	coins     *repository.MemoryCoinRepo
	protocol  *countingProtocol
	publisher *recordingPublisher
	audit     *recordingAudit
}

func newPublishFixture(forecaster Forecaster) *publishFixture {
	f := &publishFixture{
		store:     storage.NewMemoryStore("https://gateway.test"),
		contents:  repository.NewMemoryContentRepo(),
		coins:     repository.NewMemoryCoinRepo(),
		protocol:  &countingProtocol{Protocol: coin.NewLocalProtocol(8453)},
		publisher: &recordingPublisher{},
		audit:     &recordingAudit{},
	}
	coinSvc := NewCoinService(f.coins, f.protocol, newMemoryLocker(), CoinSettings{
		ChainID:         8453,
		SeedPurchaseWei: decimal.RequireFromString("100000000000000"),
	})
	f.svc = NewPublishService(f.store, coinSvc, f.contents, forecaster, f.publisher, f.audit,
		WorkflowTimeouts{Storage: 5, Coin: 5, Persist: 5, Predict: 1})
	return f
}

func (f *publishFixture) recordCount(t *testing.T) int {
	t.Helper()
	records, err := f.contents.List(context.Background(), repository.ContentFilter{
		Limit:             repository.MaxListLimit,
		IncludeUnapproved: true,
	})
	require.NoError(t, err)
	return len(records)
}

func validInput(t *testing.T) *PublishInput {
	return &PublishInput{
		CreatorID:        testCreator,
		Title:            "Test",
		ContentType:      model.ContentTypeImage,
		Price:            decimal.RequireFromString("0.01"),
		AgeVerification:  true,
		ContentOwnership: true,
		FileName:         "test.jpg",
		FileData:         jpegBytes(t),
	}
}

func TestPublishFirstContentCreatesCoin(t *testing.T) {
	f := newPublishFixture(predictor.New(predictor.NewHeuristicScorer()))

	rec, err := f.svc.Publish(context.Background(), validInput(t))
	require.NoError(t, err)

	assert.NotZero(t, rec.ID)
	assert.Equal(t, model.ContentStatusPending, rec.Status)
	assert.Equal(t, int64(0), rec.MintCount)
	assert.Equal(t, "T", rec.CoinSymbol)
	assert.NotEmpty(t, rec.CoinAddress)
	assert.NotNil(t, rec.Prediction)
	assert.Equal(t, int32(1), f.protocol.creates.Load())

	c, err := f.coins.GetByCreator(context.Background(), testCreator)
	require.NoError(t, err)
	assert.Equal(t, rec.CoinAddress, c.CoinAddress)
	assert.Equal(t, "T", c.Symbol)
	assert.Equal(t, "Test", c.Name)

	stored, err := f.contents.GetByID(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.Prediction)
	assert.Equal(t, []string{AuditSourcePublish}, f.audit.list())
	assert.Len(t, f.publisher.events, 1)

	raw, ok := f.store.Get(rec.MetadataLocator)
	require.True(t, ok)
	var doc MetadataDocument
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, "Test", doc.Name)
	assert.Equal(t, f.store.URL(rec.FileLocator), doc.Image)
	assert.Empty(t, doc.AnimationURL)
	assert.Equal(t, "0.01", doc.Properties.Price)
	assert.Equal(t, 32, doc.Properties.Width)
	assert.Equal(t, 32, doc.Properties.Height)
}

func TestPublishReusesExistingCoin(t *testing.T) {
	f := newPublishFixture(predictor.New(predictor.NewHeuristicScorer()))
	ctx := context.Background()

	first, err := f.svc.Publish(ctx, validInput(t))
	require.NoError(t, err)

	in := validInput(t)
	in.Title = "Another Drop"
	second, err := f.svc.Publish(ctx, in)
	require.NoError(t, err)

	assert.Equal(t, int32(1), f.protocol.creates.Load())
	assert.Equal(t, first.CoinAddress, second.CoinAddress)
	assert.Equal(t, first.CoinSymbol, second.CoinSymbol)
}

func TestPublishVideoSetsAnimationURL(t *testing.T) {
	f := newPublishFixture(predictor.New(predictor.NewHeuristicScorer()))

	in := validInput(t)
	in.ContentType = model.ContentTypeVideo
	in.FileName = "clip.mp4"
	in.FileData = mp4Bytes()

	rec, err := f.svc.Publish(context.Background(), in)
	require.NoError(t, err)

	raw, ok := f.store.Get(rec.MetadataLocator)
	require.True(t, ok)
	var doc MetadataDocument
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, f.store.URL(rec.FileLocator), doc.AnimationURL)
	assert.Equal(t, doc.Image, doc.AnimationURL)
}

func TestPublishValidation(t *testing.T) {
	negative := decimal.RequireFromString("-1")

	tests := []struct {
		name   string
		mutate func(in *PublishInput)
		field  string
	}{
		{"missing age verification", func(in *PublishInput) { in.AgeVerification = false }, "ageVerification"},
		{"missing ownership", func(in *PublishInput) { in.ContentOwnership = false }, "contentOwnership"},
		{"blank title", func(in *PublishInput) { in.Title = "   " }, "title"},
		{"no file", func(in *PublishInput) { in.FileData = nil }, "file"},
		{"type mismatch", func(in *PublishInput) { in.ContentType = model.ContentTypeAudio }, "file"},
		{"unknown content type", func(in *PublishInput) { in.ContentType = "text" }, "contentType"},
		{"negative price", func(in *PublishInput) { in.Price = negative }, "price"},
		{"subscription without price", func(in *PublishInput) { in.SubscriptionEnabled = true }, "subscriptionPrice"},
		{"negative subscription price", func(in *PublishInput) {
			in.SubscriptionEnabled = true
			in.SubscriptionPrice = &negative
		}, "subscriptionPrice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPublishFixture(predictor.New(predictor.NewHeuristicScorer()))
			in := validInput(t)
			tt.mutate(in)

			rec, err := f.svc.Publish(context.Background(), in)
			assert.Nil(t, rec)
			require.ErrorIs(t, err, ErrValidation)

			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.field, ve.Field)

			assert.Equal(t, 0, f.recordCount(t))
			assert.Equal(t, int32(0), f.protocol.creates.Load())
			assert.Equal(t, 0, f.store.Len())
		})
	}
}

func TestPublishStorageFailureAborts(t *testing.T) {
	for _, store := range []*failingStore{{failFile: true}, {failJSON: true}} {
		contents := repository.NewMemoryContentRepo()
		protocol := &countingProtocol{Protocol: coin.NewLocalProtocol(1)}
		coinSvc := NewCoinService(repository.NewMemoryCoinRepo(), protocol, nil, CoinSettings{ChainID: 1})
		svc := NewPublishService(store, coinSvc, contents, nil, nil, nil, WorkflowTimeouts{})

		rec, err := svc.Publish(context.Background(), validInput(t))
		assert.Nil(t, rec)
		assert.ErrorIs(t, err, ErrStorage)
		assert.Equal(t, int32(0), protocol.creates.Load())
	}
}

func TestPublishCoinFailureAborts(t *testing.T) {
	f := newPublishFixture(nil)
	f.protocol.err = errors.New("rpc down")

	rec, err := f.svc.Publish(context.Background(), validInput(t))
	assert.Nil(t, rec)
	assert.ErrorIs(t, err, ErrCoinProvisioning)
	assert.Contains(t, err.Error(), "rpc down")
	assert.Equal(t, 0, f.recordCount(t))
}

func TestPublishPersistenceFailureAborts(t *testing.T) {
	contents := &failingContentRepo{MemoryContentRepo: repository.NewMemoryContentRepo(), err: errors.New("db down")}
	forecaster := &countingForecaster{}
	publisher := &recordingPublisher{}
	audit := &recordingAudit{}
	coinSvc := NewCoinService(repository.NewMemoryCoinRepo(), coin.NewLocalProtocol(8453), nil, CoinSettings{ChainID: 8453})
	svc := NewPublishService(storage.NewMemoryStore("https://gateway.test"), coinSvc, contents, forecaster, publisher, audit,
		WorkflowTimeouts{Storage: 5, Coin: 5, Persist: 5, Predict: 1})

	rec, err := svc.Publish(context.Background(), validInput(t))
	assert.Nil(t, rec)
	require.ErrorIs(t, err, ErrPersistence)
	assert.Contains(t, err.Error(), "db down")

	sentinel, code := Classify(err)
	assert.Equal(t, ErrPersistence, sentinel)
	assert.Equal(t, InternalServerError, code)

	assert.Equal(t, int32(0), forecaster.calls.Load())
	assert.Equal(t, int32(0), contents.attaches.Load())
	assert.Empty(t, publisher.events)
	assert.Empty(t, audit.list())
}

func TestPublishResponseMatchesStoredRecord(t *testing.T) {
	f := newPublishFixture(predictor.New(predictor.NewHeuristicScorer()))
	ctx := context.Background()

	rec, err := f.svc.Publish(ctx, validInput(t))
	require.NoError(t, err)
	require.NotNil(t, rec.Prediction)

	stored, err := f.contents.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.True(t, stored.UpdatedAt.Equal(rec.UpdatedAt), "response %v, stored %v", rec.UpdatedAt, stored.UpdatedAt)
	assert.False(t, rec.UpdatedAt.Before(rec.CreatedAt))
}

func TestPublishSurvivesForecastFailures(t *testing.T) {
	forecasters := map[string]Forecaster{
		"error":   failingForecaster{err: errors.New("model offline")},
		"timeout": blockingForecaster{},
		"panic":   panickingForecaster{},
	}
	for name, fc := range forecasters {
		t.Run(name, func(t *testing.T) {
			f := newPublishFixture(fc)

			rec, err := f.svc.Publish(context.Background(), validInput(t))
			require.NoError(t, err)
			assert.Nil(t, rec.Prediction)
			assert.Equal(t, model.ContentStatusPending, rec.Status)
			assert.Equal(t, 1, f.recordCount(t))
			assert.Empty(t, f.audit.list())
		})
	}
}

func TestPublishConcurrentFirstContentCreatesOneCoin(t *testing.T) {
	f := newPublishFixture(nil)
	f.protocol.delay = 20 * time.Millisecond

	const n = 8
	var wg sync.WaitGroup
	results := make([]*model.ContentRecord, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			in := validInput(t)
			in.Title = fmt.Sprintf("Drop %d", i)
			results[i], errs[i] = f.svc.Publish(context.Background(), in)
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, results[0].CoinAddress, results[i].CoinAddress)
	}
	assert.Equal(t, int32(1), f.protocol.creates.Load())
	assert.Equal(t, n, f.recordCount(t))
}

func TestCreateCoinForCreatorLoserReadsWinner(t *testing.T) {
	repo := repository.NewMemoryCoinRepo()
	protocol := coin.NewLocalProtocol(1)
	a := NewCoinService(repo, protocol, nil, CoinSettings{ChainID: 1})
	b := NewCoinService(repo, protocol, nil, CoinSettings{ChainID: 1})
	ctx := context.Background()

	first, err := a.CreateCoinForCreator(ctx, testCreator, "First", "F", "cas://m1")
	require.NoError(t, err)
	second, err := b.CreateCoinForCreator(ctx, testCreator, "Second", "S", "cas://m2")
	require.NoError(t, err)

	assert.Equal(t, first.CoinAddress, second.CoinAddress)
	assert.Equal(t, "F", second.Symbol)
}
