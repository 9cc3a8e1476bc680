package es

import (
	"Mintora/internal/api/config"
	"Mintora/internal/pkg/logger"
	"context"
	log "log/slog"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
)

var Client *elasticsearch.TypedClient

var ContentIndex string

const (
	NotFoundCode = 404
	ConflictCode = 409
)

// InitClient 初始化 Elasticsearch 客户端
func InitClient() error {
	elasticCfg := config.Cfg.Elastic

	ContentIndex = elasticCfg.Indices.ContentIndex

	cfg := elasticsearch.Config{
		Addresses: []string{elasticCfg.Address},
		Username:  elasticCfg.Username,
		Password:  elasticCfg.Password,
		Transport: &logger.ESTransport{
			Transport: http.DefaultTransport,
		},
	}

	var err error
	Client, err = elasticsearch.NewTypedClient(cfg)
	if err != nil {
		log.Error("Cannot Connect to Elasticsearch", "err", err)
		return err
	}

	ctx := context.Background()
	info, err := Client.Info().Do(ctx)
	if err != nil {
		log.Error("Cannot Connect to Elasticsearch", "err", err)
		return err
	}

	log.Info("Connected to Elasticsearch", "version", info.Version.Int)
	return ensureContentIndex(ctx)
}

// ensureContentIndex 索引不存在时按 mapping 创建
func ensureContentIndex(ctx context.Context) error {
	exists, err := Client.Indices.Exists(ContentIndex).Do(ctx)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	_, err = Client.Indices.Create(ContentIndex).
		Mappings(&types.TypeMapping{
			Properties: map[string]types.Property{
				"id":                   types.NewLongNumberProperty(),
				"title":                types.NewTextProperty(),
				"description":          types.NewTextProperty(),
				"creator_id":           types.NewKeywordProperty(),
				"content_type":         types.NewKeywordProperty(),
				"price":                types.NewDoubleNumberProperty(),
				"subscription_enabled": types.NewBooleanProperty(),
				"coin_symbol":          types.NewKeywordProperty(),
				"status":               types.NewKeywordProperty(),
				"tags":                 types.NewKeywordProperty(),
				"mint_count":           types.NewLongNumberProperty(),
				"created_at":           types.NewDateProperty(),
			},
		}).
		Do(ctx)
	if err != nil {
		return err
	}
	log.Info("Elasticsearch index created", "index", ContentIndex)
	return nil
}
