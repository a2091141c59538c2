package kafka

import (
	"testing"

	"github.com/IBM/sarama"
	"github.com/stretchr/testify/require"
)

func TestToCanalMessage(t *testing.T) {
	payload := []byte(`{
		"database": "streamline",
		"table": "tb_likes",
		"type": "INSERT",
		"data": [{"id": "1", "person_id": "2", "activity_id": "3"}]
	}`)

	msg, err := ToCanalMessage(&sarama.ConsumerMessage{Value: payload}, "tb_likes")
	require.NoError(t, err)
	require.Equal(t, "INSERT", msg.Type)
	require.Len(t, msg.Data, 1)
	require.Equal(t, uint64(2), rowUint64(msg.Data[0]["person_id"]))

	// 表名不匹配
	_, err = ToCanalMessage(&sarama.ConsumerMessage{Value: payload}, "tb_stars")
	require.Error(t, err)

	// data 为空
	_, err = ToCanalMessage(&sarama.ConsumerMessage{Value: []byte(`{"table":"tb_likes","data":[]}`)}, "tb_likes")
	require.Error(t, err)

	// 非法 JSON
	_, err = ToCanalMessage(&sarama.ConsumerMessage{Value: []byte(`{`)}, "tb_likes")
	require.Error(t, err)
}

func TestRowUint64(t *testing.T) {
	require.Equal(t, uint64(42), rowUint64("42"))
	require.Equal(t, uint64(42), rowUint64(float64(42)))
	require.Equal(t, uint64(0), rowUint64("not a number"))
	require.Equal(t, uint64(0), rowUint64(nil))
	require.Equal(t, uint64(0), rowUint64(true))
}
