package handler

import (
	"Mintora/internal/api/dto"
	"Mintora/internal/model"
	"Mintora/internal/pkg/consts"
	"Mintora/internal/pkg/response"
	"Mintora/internal/pkg/storage"
	"Mintora/internal/pkg/util"
	"Mintora/internal/repository"
	"Mintora/internal/service"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/copier"
)

type ContentHandler struct {
	publishSvc service.PublishService
	contentSvc service.ContentService
	store      storage.ObjectStore
}

func NewContentHandler(publishSvc service.PublishService, contentSvc service.ContentService, store storage.ObjectStore) *ContentHandler {
	return &ContentHandler{
		publishSvc: publishSvc,
		contentSvc: contentSvc,
		store:      store,
	}
}

// Publish 上传文件并发布内容
func (s *ContentHandler) Publish(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, consts.MaxUploadSize)

	var form dto.PublishContentForm
	if err := c.ShouldBind(&form); err != nil {
		response.Error(c, service.NewValidationError("form", err.Error()))
		return
	}
	if err := validate(&form); err != nil {
		response.Error(c, err)
		return
	}

	in, err := s.publishInput(c, &form)
	if err != nil {
		response.Error(c, err)
		return
	}

	rec, err := s.publishSvc.Publish(c.Request.Context(), in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Create(c, s.toDTO(rec))
}

func (s *ContentHandler) publishInput(c *gin.Context, form *dto.PublishContentForm) (*service.PublishInput, error) {
	price, err := parseDecimal("price", form.Price)
	if err != nil {
		return nil, err
	}
	if price == nil {
		return nil, service.NewValidationError("price", "价格不能为空")
	}
	subPrice, err := parseDecimal("subscriptionPrice", form.SubscriptionPrice)
	if err != nil {
		return nil, err
	}
	tags, err := util.ParseTags(form.Tags)
	if err != nil {
		return nil, service.NewValidationError("tags", "标签格式错误")
	}

	in := &service.PublishInput{
		CreatorID:           creatorID(c),
		Title:               form.Title,
		Description:         form.Description,
		ContentType:         strings.ToLower(strings.TrimSpace(form.ContentType)),
		Price:               *price,
		SubscriptionEnabled: form.IsSubscription,
		SubscriptionPrice:   subPrice,
		CoinName:            form.CoinName,
		CoinSymbol:          form.CoinSymbol,
		Tags:                tags,
		AgeVerification:     form.AgeVerification,
		ContentOwnership:    form.ContentOwnership,
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return in, nil
		}
		return nil, service.NewValidationError("file", "文件读取失败")
	}
	if fileHeader.Size > consts.MaxUploadSize {
		return nil, service.NewValidationError("file", util.ErrFileTooLarge.Error())
	}
	file, err := fileHeader.Open()
	if err != nil {
		return nil, service.NewValidationError("file", "文件读取失败")
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, service.NewValidationError("file", "文件读取失败")
	}
	in.FileName = fileHeader.Filename
	in.FileData = data
	return in, nil
}

// List 已审核内容列表，创作者查询自己时包含待审核内容
func (s *ContentHandler) List(c *gin.Context) {
	var query dto.ListContentQuery
	if err := bindQuery(c, &query); err != nil {
		response.Error(c, err)
		return
	}

	minPrice, err := parseDecimal("minPrice", query.MinPrice)
	if err != nil {
		response.Error(c, err)
		return
	}
	maxPrice, err := parseDecimal("maxPrice", query.MaxPrice)
	if err != nil {
		response.Error(c, err)
		return
	}

	filter := repository.ContentFilter{
		CreatorID:           strings.ToLower(strings.TrimSpace(query.Creator)),
		ContentType:         query.ContentType,
		MinPrice:            minPrice,
		MaxPrice:            maxPrice,
		SubscriptionEnabled: query.IsSubscription,
		Sort:                query.Sort,
		Limit:               query.Limit,
		Offset:              query.Offset,
	}

	records, err := s.contentSvc.List(c.Request.Context(), creatorID(c), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	data := s.toDTOs(records)
	response.List(c, len(data), nil, data)
}

// Trending 按铸造数排行
func (s *ContentHandler) Trending(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	records, err := s.contentSvc.Trending(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	data := s.toDTOs(records)
	response.List(c, len(data), nil, data)
}

// Search 全文检索已审核内容
func (s *ContentHandler) Search(c *gin.Context) {
	var query dto.SearchContentQuery
	if err := bindQuery(c, &query); err != nil {
		response.Error(c, err)
		return
	}

	records, total, err := s.contentSvc.Search(c.Request.Context(), query.Q, query.Limit, query.Offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	data := s.toDTOs(records)
	response.List(c, len(data), &total, data)
}

func (s *ContentHandler) Get(c *gin.Context) {
	id, err := contentID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	rec, err := s.contentSvc.Get(c.Request.Context(), creatorID(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, s.toDTO(rec))
}

// UpdateTerms 创作者修改价格与标签
func (s *ContentHandler) UpdateTerms(c *gin.Context) {
	id, err := contentID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.UpdateContentDTO
	if err = bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	terms := repository.ContentTerms{Tags: req.Tags}
	if req.Price != nil {
		price, err := parseDecimal("price", *req.Price)
		if err != nil {
			response.Error(c, err)
			return
		}
		if price == nil {
			response.Error(c, service.NewValidationError("price", "价格不能为空"))
			return
		}
		terms.Price = price
	}

	rec, err := s.contentSvc.UpdateTerms(c.Request.Context(), creatorID(c), id, terms)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, s.toDTO(rec))
}

// UpdateStatus 审核员变更审核状态
func (s *ContentHandler) UpdateStatus(c *gin.Context) {
	id, err := contentID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.UpdateStatusDTO
	if err = bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	rec, err := s.contentSvc.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, s.toDTO(rec))
}

// Mint 记录一次铸造，同一交易只计一次
func (s *ContentHandler) Mint(c *gin.Context) {
	id, err := contentID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.MintDTO
	if err = bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	rec, err := s.contentSvc.RecordMint(c.Request.Context(), id, strings.TrimSpace(req.TxHash))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, s.toDTO(rec))
}

// Predict 同步生成趋势预测，仅创作者本人可调用
func (s *ContentHandler) Predict(c *gin.Context) {
	id, err := contentID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	forecast, err := s.contentSvc.Predict(c.Request.Context(), creatorID(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, forecast)
}

func (s *ContentHandler) toDTO(rec *model.ContentRecord) *dto.ContentDTO {
	out := &dto.ContentDTO{}
	_ = copier.Copy(out, rec)
	if out.Tags == nil {
		out.Tags = []string{}
	}
	out.MetadataURL = s.store.URL(rec.MetadataLocator)
	out.FileURL = s.store.URL(rec.FileLocator)
	return out
}

func (s *ContentHandler) toDTOs(records []*model.ContentRecord) []*dto.ContentDTO {
	out := make([]*dto.ContentDTO, 0, len(records))
	for _, rec := range records {
		out = append(out, s.toDTO(rec))
	}
	return out
}
