package repository

import (
	"Streamline/internal/model"
	"context"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

const mysqlDuplicateEntry = 1062

type HashTagRepo interface {
	FindOrCreate(ctx context.Context, content string) (*model.HashTag, error)
	GetByContent(ctx context.Context, content string) (*model.HashTag, error)
	GetTagsByActivityIDs(ctx context.Context, activityIDs []uint64) (map[uint64][]string, error)
	DeleteActivityTags(ctx context.Context, activityIDs []uint64) error
}

type HashTagRepoImpl struct {
	db *gorm.DB
}

func NewHashTagRepo(db *gorm.DB) HashTagRepo {
	return &HashTagRepoImpl{db}
}

// FindOrCreate 规范化内容上的唯一索引保证并发创建幂等：
// 撞到重复键说明别人先建成功，重查即可
func (s *HashTagRepoImpl) FindOrCreate(ctx context.Context, content string) (*model.HashTag, error) {
	existing, err := s.GetByContent(ctx, content)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	tag := &model.HashTag{Content: content, CreatedAt: time.Now()}
	err = s.db.WithContext(ctx).Create(tag).Error
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
			return s.GetByContent(ctx, content)
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return s.GetByContent(ctx, content)
		}
		return nil, err
	}
	return tag, nil
}

func (s *HashTagRepoImpl) GetByContent(ctx context.Context, content string) (*model.HashTag, error) {
	var tag model.HashTag
	err := s.db.WithContext(ctx).Where("content = ?", content).First(&tag).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

func (s *HashTagRepoImpl) GetTagsByActivityIDs(ctx context.Context, activityIDs []uint64) (map[uint64][]string, error) {
	type row struct {
		ActivityID uint64
		Content    string
	}
	var rows []row
	err := s.db.WithContext(ctx).Model(&model.ActivityHashTag{}).
		Select("activity_hashtags.activity_id", "hashtags.content").
		Joins("JOIN hashtags ON hashtags.id = activity_hashtags.tag_id").
		Where("activity_hashtags.activity_id IN ?", activityIDs).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make(map[uint64][]string)
	for _, r := range rows {
		result[r.ActivityID] = append(result[r.ActivityID], r.Content)
	}
	return result, nil
}

func (s *HashTagRepoImpl) DeleteActivityTags(ctx context.Context, activityIDs []uint64) error {
	return s.db.WithContext(ctx).
		Where("activity_id IN ?", activityIDs).
		Delete(&model.ActivityHashTag{}).Error
}
