package messaging

import (
	"testing"
	"time"

	"cloud.google.com/go/pubsub"
	"github.com/stretchr/testify/assert"
)

func TestFromSDK(t *testing.T) {
	t.Parallel()
	published := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)

	got := fromSDK(&pubsub.Message{
		ID:          "42",
		Data:        []byte("hello"),
		Attributes:  map[string]string{"origin": "test"},
		PublishTime: published,
	})

	assert.Equal(t, "42", got.ID)
	assert.Equal(t, "hello", got.Data)
	assert.Equal(t, "test", got.Attributes["origin"])
	assert.Equal(t, published, got.PublishTime)
}
