package es

import (
	"Mintora/internal/model"
	"context"
	"errors"
	"strconv"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/goccy/go-json"
)

const MaxSearchDepth = 1000

type ContentRepo interface {
	IndexContent(ctx context.Context, doc *ContentES) error
	DeleteContent(ctx context.Context, id uint64) error
	Search(ctx context.Context, keyword string, from, size int) ([]uint64, int64, error)
}

type ContentRepoImpl struct {
	client *elasticsearch.TypedClient
}

func NewContentRepo(client *elasticsearch.TypedClient) ContentRepo {
	return &ContentRepoImpl{client: client}
}

func (s *ContentRepoImpl) IndexContent(ctx context.Context, doc *ContentES) error {
	_, err := s.client.Index(ContentIndex).
		Id(strconv.FormatUint(doc.ID, 10)).
		Document(doc).
		Do(ctx)
	return err
}

func (s *ContentRepoImpl) DeleteContent(ctx context.Context, id uint64) error {
	_, err := s.client.Delete(ContentIndex, strconv.FormatUint(id, 10)).Do(ctx)
	if err != nil {
		var e *types.ElasticsearchError
		if errors.As(err, &e) && e.Status == NotFoundCode {
			return nil
		}
		return err
	}
	return nil
}

// Search 全文检索已审核通过的内容，返回命中的 ID 与总数
func (s *ContentRepoImpl) Search(ctx context.Context, keyword string, from, size int) ([]uint64, int64, error) {
	if from >= MaxSearchDepth {
		return []uint64{}, 0, nil
	}

	resp, err := s.client.Search().
		Index(ContentIndex).
		Query(BuildSearchQuery(keyword)).
		Source_(&types.SourceFilter{Includes: []string{"id"}}).
		From(from).
		Size(size).
		Do(ctx)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if resp.Hits.Total != nil {
		total = resp.Hits.Total.Value
	}

	ids := make([]uint64, 0, len(resp.Hits.Hits))
	for _, hit := range resp.Hits.Hits {
		if hit.Source_ == nil {
			continue
		}
		var doc struct {
			ID uint64 `json:"id"`
		}
		if err = json.Unmarshal(hit.Source_, &doc); err != nil {
			continue
		}
		ids = append(ids, doc.ID)
	}
	return ids, total, nil
}

// BuildSearchQuery 关键词匹配标题、描述与标签，仅限 approved
func BuildSearchQuery(keyword string) *types.Query {
	filter := []types.Query{{
		Term: map[string]types.TermQuery{
			"status": {Value: model.ContentStatusApproved},
		},
	}}

	boolQuery := &types.BoolQuery{Filter: filter}
	if keyword != "" {
		boolQuery.Must = []types.Query{{
			MultiMatch: &types.MultiMatchQuery{
				Query:     keyword,
				Fields:    []string{"title^3", "description", "tags^2", "coin_symbol"},
				Fuzziness: "AUTO",
			},
		}}
	}
	return &types.Query{Bool: boolQuery}
}
