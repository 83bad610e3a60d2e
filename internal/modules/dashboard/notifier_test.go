package dashboard

import (
	"bytes"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToastQueue_Expiry(t *testing.T) {
	now := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	q := NewToastQueue(5*time.Second, testLogger())
	q.now = func() time.Time { return now }

	q.NotifyError(LoadErrorTitle, "asset download failed")
	now = now.Add(3 * time.Second)
	q.NotifyError("Other", "second")

	require.Len(t, q.Active(), 2)
	assert.Equal(t, LoadErrorTitle, q.Active()[0].Title)

	now = now.Add(3 * time.Second)
	assert.True(t, q.Expire())
	require.Len(t, q.Active(), 1)
	assert.Equal(t, "second", q.Active()[0].Message)

	now = now.Add(5 * time.Second)
	assert.False(t, q.Expire())
	assert.Equal(t, 0, q.Len())
}

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(zerolog.New(&buf))

	n.NotifyError(LoadErrorTitle, "boom")

	assert.Contains(t, buf.String(), `"title":"Error loading Chart"`)
	assert.Contains(t, buf.String(), `"message":"boom"`)
	assert.Contains(t, buf.String(), `"level":"error"`)
}
