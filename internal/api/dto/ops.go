package dto

// FanoutFailureDTO 一条重试耗尽的扇出记录
type FanoutFailureDTO struct {
	ID         string   `json:"id"`
	ActivityID uint64   `json:"activity_id"`
	Operation  string   `json:"operation"`
	Keys       []string `json:"keys"`
	LastError  string   `json:"last_error"`
	Attempts   int      `json:"attempts"`
	Status     string   `json:"status"`
	CreatedAt  string   `json:"created_at"`
}

// FanoutFailurePageDTO 待处理扇出失败分页
type FanoutFailurePageDTO struct {
	Total int64               `json:"total"`
	List  []*FanoutFailureDTO `json:"list"`
}

// LeakFindingDTO 巡检发现的泄露留档
type LeakFindingDTO struct {
	ID           string `json:"id"`
	ActivityID   uint64 `json:"activity_id"`
	PartitionKey string `json:"partition_key"`
	StreamID     uint64 `json:"stream_id"`
	Purged       bool   `json:"purged"`
	CreatedAt    string `json:"created_at"`
}
