package service

import (
	"Mintora/internal/model"
	"Mintora/internal/pkg/mongo"
	"Mintora/internal/pkg/storage"
	"Mintora/internal/pkg/util"
	"Mintora/internal/repository"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// WorkflowTimeouts 发布流程各外部调用超时（秒），<=0 表示不限制
type WorkflowTimeouts struct {
	Storage int
	Coin    int
	Persist int
	Predict int
}

// PublishInput 发布请求
type PublishInput struct {
	CreatorID           string
	Title               string
	Description         string
	ContentType         string
	Price               decimal.Decimal
	SubscriptionEnabled bool
	SubscriptionPrice   *decimal.Decimal
	CoinName            string
	CoinSymbol          string
	Tags                []string
	AgeVerification     bool
	ContentOwnership    bool
	FileName            string
	FileData            []byte
}

// MetadataDocument 上传到对象存储的内容元数据
type MetadataDocument struct {
	Name         string             `json:"name"`
	Description  string             `json:"description"`
	Image        string             `json:"image"`
	AnimationURL string             `json:"animation_url,omitempty"`
	ExternalURL  string             `json:"external_url,omitempty"`
	Properties   MetadataProperties `json:"properties"`
}

type MetadataProperties struct {
	Price             string   `json:"price"`
	ContentType       string   `json:"contentType"`
	MimeType          string   `json:"mimeType"`
	Tags              []string `json:"tags"`
	Subscription      bool     `json:"subscription,omitempty"`
	SubscriptionPrice string   `json:"subscriptionPrice,omitempty"`
	Creator           string   `json:"creator"`
	Width             int      `json:"width,omitempty"`
	Height            int      `json:"height,omitempty"`
}

type PublishService interface {
	Publish(ctx context.Context, in *PublishInput) (*model.ContentRecord, error)
}

type publishServiceImpl struct {
	store      storage.ObjectStore
	coins      CoinService
	repo       repository.ContentRepo
	forecaster Forecaster
	publisher  EventPublisher
	audit      mongo.ForecastAuditRepo
	timeouts   WorkflowTimeouts
}

// NewPublishService publisher/audit 可为 nil
func NewPublishService(
	store storage.ObjectStore,
	coins CoinService,
	repo repository.ContentRepo,
	forecaster Forecaster,
	publisher EventPublisher,
	audit mongo.ForecastAuditRepo,
	timeouts WorkflowTimeouts,
) PublishService {
	return &publishServiceImpl{
		store:      store,
		coins:      coins,
		repo:       repo,
		forecaster: forecaster,
		publisher:  publisher,
		audit:      audit,
		timeouts:   timeouts,
	}
}

// Publish 上传文件与元数据、解析代币、落库，最后尽力生成趋势预测
func (s *publishServiceImpl) Publish(ctx context.Context, in *PublishInput) (*model.ContentRecord, error) {
	mime, err := validatePublishInput(in)
	if err != nil {
		return nil, err
	}
	title := strings.TrimSpace(in.Title)

	// 1. 上传文件
	fileLocator, err := s.putFile(ctx, in, mime)
	if err != nil {
		log.ErrorContext(ctx, "publish: upload file failed", "creator", in.CreatorID, "err", err)
		return nil, stageError(ErrStorage, err)
	}
	log.InfoContext(ctx, "publish: file uploaded", "creator", in.CreatorID, "locator", fileLocator)

	// 2. 构建并上传元数据
	doc := s.buildMetadata(in, title, mime, fileLocator)
	metadataLocator, err := s.putMetadata(ctx, doc)
	if err != nil {
		log.ErrorContext(ctx, "publish: upload metadata failed", "creator", in.CreatorID, "err", err)
		return nil, stageError(ErrStorage, err)
	}
	log.InfoContext(ctx, "publish: metadata uploaded", "creator", in.CreatorID, "locator", metadataLocator)

	// 3. 解析或创建创作者代币
	creatorCoin, err := s.resolveCoin(ctx, in, title, metadataLocator)
	if err != nil {
		log.ErrorContext(ctx, "publish: resolve coin failed", "creator", in.CreatorID, "err", err)
		return nil, err
	}

	// 4. 落库，成功即视为发布成功
	rec := &model.ContentRecord{
		Title:               title,
		Description:         strings.TrimSpace(in.Description),
		CreatorID:           in.CreatorID,
		ContentType:         in.ContentType,
		Price:               in.Price,
		SubscriptionEnabled: in.SubscriptionEnabled,
		MetadataLocator:     metadataLocator,
		FileLocator:         fileLocator,
		CoinAddress:         creatorCoin.CoinAddress,
		CoinSymbol:          creatorCoin.Symbol,
		Status:              model.ContentStatusPending,
		MintCount:           0,
		Tags:                tagsOrEmpty(in.Tags),
	}
	if in.SubscriptionEnabled {
		rec.SubscriptionPrice = in.SubscriptionPrice
	}
	if err = s.persist(ctx, rec); err != nil {
		log.ErrorContext(ctx, "publish: persist record failed", "creator", in.CreatorID, "err", err)
		return nil, stageError(ErrPersistence, err)
	}
	log.InfoContext(ctx, "publish: record persisted", "id", rec.ID, "creator", rec.CreatorID, "coin", rec.CoinAddress)

	s.emitPublished(ctx, rec)

	// 5. 趋势预测，失败只记录日志
	if forecast := s.forecast(ctx, rec); forecast != nil {
		if at, ok := s.attach(ctx, rec, forecast); ok {
			rec.Prediction = forecast
			rec.UpdatedAt = at
		}
	}
	return rec, nil
}

func validatePublishInput(in *PublishInput) (string, error) {
	if in == nil {
		return "", NewValidationError("body", "不能为空")
	}
	if in.CreatorID == "" {
		return "", NewValidationError("creatorId", "不能为空")
	}
	if strings.TrimSpace(in.Title) == "" {
		return "", NewValidationError("title", "不能为空")
	}
	if !model.IsValidContentType(in.ContentType) {
		return "", NewValidationError("contentType", "取值必须为 image/video/audio")
	}
	if len(in.FileData) == 0 {
		return "", NewValidationError("file", "不能为空")
	}
	mime, err := util.CheckMediaFile(in.FileName, in.FileData, in.ContentType)
	if err != nil {
		return "", NewValidationError("file", err.Error())
	}
	if in.Price.IsNegative() {
		return "", NewValidationError("price", "不能为负数")
	}
	if in.SubscriptionEnabled {
		if in.SubscriptionPrice == nil {
			return "", NewValidationError("subscriptionPrice", "开启订阅时必填")
		}
		if in.SubscriptionPrice.IsNegative() {
			return "", NewValidationError("subscriptionPrice", "不能为负数")
		}
	}
	if !in.AgeVerification {
		return "", NewValidationError("ageVerification", "需要确认年龄")
	}
	if !in.ContentOwnership {
		return "", NewValidationError("contentOwnership", "需要确认内容所有权")
	}
	return mime, nil
}

func (s *publishServiceImpl) putFile(ctx context.Context, in *PublishInput, mime string) (string, error) {
	ctx, cancel := withTimeout(ctx, s.timeouts.Storage)
	defer cancel()
	return s.store.PutFile(ctx, in.FileName, mime, in.FileData)
}

func (s *publishServiceImpl) putMetadata(ctx context.Context, doc *MetadataDocument) (string, error) {
	ctx, cancel := withTimeout(ctx, s.timeouts.Storage)
	defer cancel()
	return s.store.PutJSON(ctx, "metadata.json", doc)
}

func (s *publishServiceImpl) buildMetadata(in *PublishInput, title, mime, fileLocator string) *MetadataDocument {
	fileURL := s.store.URL(fileLocator)
	doc := &MetadataDocument{
		Name:        title,
		Description: strings.TrimSpace(in.Description),
		Image:       fileURL,
		Properties: MetadataProperties{
			Price:       in.Price.String(),
			ContentType: in.ContentType,
			MimeType:    mime,
			Tags:        tagsOrEmpty(in.Tags),
			Creator:     in.CreatorID,
		},
	}
	if in.ContentType == model.ContentTypeVideo || in.ContentType == model.ContentTypeAudio {
		doc.AnimationURL = fileURL
	}
	if in.SubscriptionEnabled && in.SubscriptionPrice != nil {
		doc.Properties.Subscription = true
		doc.Properties.SubscriptionPrice = in.SubscriptionPrice.String()
	}
	if in.ContentType == model.ContentTypeImage {
		if w, h, ok := util.ImageSize(in.FileData); ok {
			doc.Properties.Width = w
			doc.Properties.Height = h
		}
	}
	return doc
}

func (s *publishServiceImpl) resolveCoin(ctx context.Context, in *PublishInput, title, metadataLocator string) (*model.CreatorCoin, error) {
	ctx, cancel := withTimeout(ctx, s.timeouts.Coin)
	defer cancel()

	name := title
	if strings.TrimSpace(in.CoinName) != "" {
		name = in.CoinName
	}
	name = util.DeriveCoinName(name)
	symbol := util.NormalizeCoinSymbol(in.CoinSymbol)
	if symbol == "" {
		symbol = util.DeriveCoinSymbol(title)
	}
	c, err := s.coins.ResolveCoin(ctx, in.CreatorID, name, symbol, metadataLocator)
	if err != nil {
		if errors.Is(err, ErrCoinProvisioning) {
			return nil, err
		}
		return nil, stageError(ErrCoinProvisioning, err)
	}
	return c, nil
}

func (s *publishServiceImpl) persist(ctx context.Context, rec *model.ContentRecord) error {
	ctx, cancel := withTimeout(ctx, s.timeouts.Persist)
	defer cancel()
	return s.repo.Insert(ctx, rec)
}

func (s *publishServiceImpl) emitPublished(ctx context.Context, rec *model.ContentRecord) {
	if s.publisher == nil {
		return
	}
	key := strconv.FormatUint(rec.ID, 10)
	if err := s.publisher.Publish(ctx, key, newContentEvent(EventContentPublished, rec)); err != nil {
		log.WarnContext(ctx, "publish: emit content event failed", "id", rec.ID, "err", err)
	}
}

// forecast 在独立 goroutine 中预测并限时等待，任何错误都不会返回给调用方
func (s *publishServiceImpl) forecast(ctx context.Context, rec *model.ContentRecord) *model.TrendForecast {
	if s.forecaster == nil {
		return nil
	}
	ctx, cancel := withTimeout(ctx, s.timeouts.Predict)
	defer cancel()

	type result struct {
		forecast *model.TrendForecast
		err      error
	}
	ch := make(chan result, 1)
	input := rec.Clone()
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- result{err: fmt.Errorf("predictor panic: %v", r)}
			}
		}()
		f, err := s.forecaster.Predict(ctx, input)
		ch <- result{forecast: f, err: err}
	}()

	select {
	case r := <-ch:
		if r.err != nil {
			log.WarnContext(ctx, "publish: forecast failed", "id", rec.ID, "err", r.err)
			return nil
		}
		return r.forecast
	case <-ctx.Done():
		log.WarnContext(ctx, "publish: forecast timeout", "id", rec.ID, "err", ctx.Err())
		return nil
	}
}

// attach 保存预测结果并写审计日志
func (s *publishServiceImpl) attach(ctx context.Context, rec *model.ContentRecord, forecast *model.TrendForecast) (time.Time, bool) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), attachTimeout(s.timeouts.Persist))
	defer cancel()

	at := time.Now()
	if err := s.repo.AttachPrediction(ctx, rec.ID, forecast, at); err != nil {
		log.WarnContext(ctx, "publish: attach forecast failed", "id", rec.ID, "err", err)
		return time.Time{}, false
	}
	if s.audit != nil {
		if err := s.audit.Append(ctx, rec.ID, rec.CreatorID, AuditSourcePublish, forecast); err != nil {
			log.WarnContext(ctx, "publish: append forecast audit failed", "id", rec.ID, "err", err)
		}
	}
	return at, true
}

func attachTimeout(seconds int) time.Duration {
	if seconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(seconds) * time.Second
}

func tagsOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return util.NormalizeTags(tags)
}
