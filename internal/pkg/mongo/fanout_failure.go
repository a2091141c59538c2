package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// 扇出重试耗尽后的运维侧记录，内容本身仍可按 id 访问

const (
	FailureStatusPending  = "pending"
	FailureStatusResolved = "resolved"
)

type FanoutFailureModel struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	ActivityID uint64             `bson:"activity_id"`
	Operation  string             `bson:"operation"`
	Keys       []string           `bson:"keys"`
	LastError  string             `bson:"last_error"`
	Attempts   int                `bson:"attempts"`
	Status     string             `bson:"status"`
	CreatedAt  time.Time          `bson:"created_at"`
}

// LeakFindingModel 巡检发现的越权泄露记录
type LeakFindingModel struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	ActivityID   uint64             `bson:"activity_id"`
	PartitionKey string             `bson:"partition_key"`
	StreamID     uint64             `bson:"stream_id"`
	Purged       bool               `bson:"purged"`
	CreatedAt    time.Time          `bson:"created_at"`
}
