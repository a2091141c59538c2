package es

import (
	"Streamline/internal/pkg/util"
	"context"
	"errors"
	"strconv"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/core/search"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/sortorder"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/versiontype"
	"github.com/goccy/go-json"
)

const MaxSearchDepth = 400

type ActivityRepo interface {
	SearchActivities(ctx context.Context, queryText string, publicOnly bool, from, size int) ([]*ActivityES, error)
	GetActivityByTag(ctx context.Context, tag string, from, size int) ([]*ActivityES, error)
	GetLatestByCursor(ctx context.Context, lastSortValues []interface{}, size int) ([]*ActivityES, error)
	IndexActivity(ctx context.Context, activity *ActivityES, version int64) error
	DeleteActivity(ctx context.Context, id uint64) error
}

type ActivityRepoImpl struct {
	client *elasticsearch.TypedClient
}

func NewActivityRepo(client *elasticsearch.TypedClient) ActivityRepo {
	return &ActivityRepoImpl{client: client}
}

// SearchActivities 全文检索，publicOnly 时只返回公开流的活动
func (s *ActivityRepoImpl) SearchActivities(ctx context.Context, queryText string, publicOnly bool, from, size int) ([]*ActivityES, error) {
	if from >= MaxSearchDepth {
		return []*ActivityES{}, nil
	}

	boolQuery := &types.BoolQuery{
		Should: []types.Query{
			{
				MultiMatch: &types.MultiMatchQuery{
					Query:  queryText,
					Fields: []string{"content^2", "tags^3"},
					Boost:  util.PtrFloat32(2.0),
				},
			},
			{
				MultiMatch: &types.MultiMatchQuery{
					Query:     queryText,
					Fields:    []string{"content"},
					Fuzziness: util.PtrStr("AUTO"),
					Boost:     util.PtrFloat32(0.5),
				},
			},
		},
		MinimumShouldMatch: 1,
	}
	if publicOnly {
		boolQuery.Filter = []types.Query{
			{Term: map[string]types.TermQuery{"is_public": {Value: true}}},
		}
	}

	req := s.client.Search().Index(ActivityIndex).
		Query(&types.Query{Bool: boolQuery}).
		From(from).
		Size(size)

	return s.executeSearch(ctx, req)
}

func (s *ActivityRepoImpl) GetActivityByTag(ctx context.Context, tag string, from, size int) ([]*ActivityES, error) {
	req := s.client.Search().
		Index(ActivityIndex).
		Query(&types.Query{
			Bool: &types.BoolQuery{
				Must: []types.Query{
					{
						Term: map[string]types.TermQuery{
							"tags": {Value: tag},
						},
					},
				},
				Filter: []types.Query{
					{
						Term: map[string]types.TermQuery{
							"is_public": {Value: true},
						},
					},
				},
			},
		}).
		Sort(types.SortOptions{
			SortOptions: map[string]types.FieldSort{
				"posted_at": {Order: &sortorder.Desc},
			},
		}).
		From(from).
		Size(size)

	return s.executeSearch(ctx, req)
}

func (s *ActivityRepoImpl) GetLatestByCursor(ctx context.Context, lastSortValues []interface{}, size int) ([]*ActivityES, error) {
	req := s.client.Search().
		Index(ActivityIndex).
		Query(&types.Query{
			Term: map[string]types.TermQuery{
				"is_public": {Value: true},
			},
		}).
		Sort(types.SortOptions{SortOptions: map[string]types.FieldSort{
			"posted_at": {Order: &sortorder.Desc},
		}}).
		Size(size)

	// 注入游标
	if len(lastSortValues) > 0 {
		searchAfterValues := make([]types.FieldValue, len(lastSortValues))
		for i, v := range lastSortValues {
			searchAfterValues[i] = v
		}
		req.SearchAfter(searchAfterValues...)
	}

	return s.executeSearch(ctx, req)
}

// IndexActivity 外部版本号写入，旧版本冲突时静默跳过
func (s *ActivityRepoImpl) IndexActivity(ctx context.Context, activity *ActivityES, version int64) error {
	docID := strconv.FormatUint(activity.ID, 10)

	_, err := s.client.Index(ActivityIndex).
		Id(docID).
		Document(activity).
		Version(strconv.FormatInt(version, 10)).
		VersionType(versiontype.External).
		Do(ctx)

	if err != nil {
		var e *types.ElasticsearchError
		if errors.As(err, &e) {
			if e.Status == ConflictCode {
				return nil
			}
		}
		return err
	}

	return nil
}

func (s *ActivityRepoImpl) DeleteActivity(ctx context.Context, id uint64) error {
	docID := strconv.FormatUint(id, 10)

	_, err := s.client.Delete(ActivityIndex, docID).Do(ctx)

	if err != nil {
		var e *types.ElasticsearchError
		if errors.As(err, &e) {
			if e.Status == NotFoundCode {
				return nil
			}
		}
		return err
	}

	return nil
}

func (s *ActivityRepoImpl) executeSearch(ctx context.Context, req *search.Search) ([]*ActivityES, error) {
	resp, err := req.Do(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]*ActivityES, 0, len(resp.Hits.Hits))
	for _, hit := range resp.Hits.Hits {
		if hit.Source_ == nil {
			continue
		}
		var activity ActivityES
		if err = json.Unmarshal(hit.Source_, &activity); err != nil {
			continue
		}
		if activity.Tags == nil {
			activity.Tags = make([]string, 0)
		}
		if len(hit.Sort) > 0 {
			activity.Sort = make([]interface{}, len(hit.Sort))
			for i, v := range hit.Sort {
				activity.Sort[i] = v
			}
		}
		results = append(results, &activity)
	}
	return results, nil
}
