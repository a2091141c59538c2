package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type FanoutFailureRepo interface {
	CreateFailure(ctx context.Context, failure *FanoutFailureModel) error
	GetPendingList(ctx context.Context, limit, offset int64) ([]*FanoutFailureModel, error)
	MarkResolved(ctx context.Context, id string) error
	GetPendingCount(ctx context.Context) (int64, error)
	CreateLeakFinding(ctx context.Context, finding *LeakFindingModel) error
	GetLeakFindingList(ctx context.Context, limit, offset int64) ([]*LeakFindingModel, error)
}

type fanoutFailureRepoImpl struct {
	failureCol *mongo.Collection
	leakCol    *mongo.Collection
}

func NewFanoutFailureRepo(db *mongo.Database) FanoutFailureRepo {
	return &fanoutFailureRepoImpl{
		failureCol: db.Collection("fanout_failures"),
		leakCol:    db.Collection("leak_findings"),
	}
}

// CreateFailure 记录一次重试耗尽的扇出
func (s *fanoutFailureRepoImpl) CreateFailure(ctx context.Context, failure *FanoutFailureModel) error {
	_, err := s.failureCol.InsertOne(ctx, failure)
	return err
}

// GetPendingList 分页获取待处理记录 (按时间倒序)
func (s *fanoutFailureRepoImpl) GetPendingList(ctx context.Context, limit, offset int64) ([]*FanoutFailureModel, error) {
	filter := bson.M{"status": FailureStatusPending}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit).
		SetSkip(offset)

	cursor, err := s.failureCol.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var list []*FanoutFailureModel
	if err = cursor.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// MarkResolved 标记记录已人工处理
func (s *fanoutFailureRepoImpl) MarkResolved(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return mongo.ErrInvalidIndexValue
	}
	filter := bson.M{"_id": objectID}
	update := bson.M{"$set": bson.M{"status": FailureStatusResolved}}
	result, err := s.failureCol.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// GetPendingCount 获取待处理记录总数
func (s *fanoutFailureRepoImpl) GetPendingCount(ctx context.Context) (int64, error) {
	return s.failureCol.CountDocuments(ctx, bson.M{"status": FailureStatusPending})
}

// CreateLeakFinding 记录一条巡检发现
func (s *fanoutFailureRepoImpl) CreateLeakFinding(ctx context.Context, finding *LeakFindingModel) error {
	_, err := s.leakCol.InsertOne(ctx, finding)
	return err
}

func (s *fanoutFailureRepoImpl) GetLeakFindingList(ctx context.Context, limit, offset int64) ([]*LeakFindingModel, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit).
		SetSkip(offset)

	cursor, err := s.leakCol.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var list []*LeakFindingModel
	if err = cursor.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}
