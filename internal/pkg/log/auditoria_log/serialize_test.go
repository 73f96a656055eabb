package auditoria_log

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeData(t *testing.T) {
	assert.Equal(t, "", SerializeData(nil))
	assert.Equal(t, `{"a":1}`, SerializeData(map[string]int{"a": 1}))

	// canais não são serializáveis em JSON
	out := SerializeData(make(chan int))
	assert.NotEmpty(t, out)
}

func TestSerializeDataTruncatesLargePayloads(t *testing.T) {
	big := strings.Repeat("é", MaxDataLength)
	out := SerializeData(big)

	assert.True(t, strings.HasSuffix(out, "...(truncated)"))
	assert.LessOrEqual(t, len(out), MaxDataLength+len("...(truncated)"))
	assert.True(t, strings.ToValidUTF8(out, "?") == out)
}

type memRepo struct {
	mu      sync.Mutex
	entries []AuditLog
	err     error
	done    chan struct{}
}

func (m *memRepo) Save(_ context.Context, entry AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	if m.done != nil {
		close(m.done)
	}
	return m.err
}

func (m *memRepo) Purge(context.Context, time.Time) (int64, error) { return 0, nil }

func TestLogAsync(t *testing.T) {
	repo := &memRepo{done: make(chan struct{}), err: errors.New("db down")}
	svc := NewService(repo, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	svc.LogAsync(ctx, AuditLog{Domain: "order", Action: "create"})

	select {
	case <-repo.done:
	case <-time.After(time.Second):
		t.Fatal("audit entry was not saved")
	}

	repo.mu.Lock()
	defer repo.mu.Unlock()
	require.Len(t, repo.entries, 1)
	assert.Equal(t, "order", repo.entries[0].Domain)
}

func TestNilServiceDiscards(t *testing.T) {
	var svc *Service
	assert.NoError(t, svc.Log(context.Background(), AuditLog{}))
	svc.LogAsync(context.Background(), AuditLog{})
	assert.Nil(t, New(nil, Config{LogEnabled: true, Enabled: true}, nil))
}
