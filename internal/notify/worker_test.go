package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/alvstore/muscle-garage-evolve-central-31-sub010/internal/entities"
)

type fakeReader struct {
	msgs      chan kafka.Message
	mu        sync.Mutex
	committed []int64
}

func newFakeReader(msgs ...kafka.Message) *fakeReader {
	r := &fakeReader{msgs: make(chan kafka.Message, len(msgs))}
	for _, m := range msgs {
		r.msgs <- m
	}
	return r
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	select {
	case m := <-r.msgs:
		return m, nil
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	}
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) Close() error { return nil }

func (r *fakeReader) commitCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.committed)
}

type statusRecord struct {
	id     uuid.UUID
	status entities.NotificationStatus
	errMsg string
}

func encode(t *testing.T, msg Message, offset int64) kafka.Message {
	t.Helper()
	raw, err := json.Marshal(msg)
	require.NoError(t, err)
	return kafka.Message{Key: []byte(msg.ID.String()), Value: raw, Offset: offset}
}

func TestWorkerDeliversAndReportsStatus(t *testing.T) {
	var gotReqs []gatewayRequest
	var mu sync.Mutex
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer tkn", r.Header.Get("Authorization"))
		var req gatewayRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		mu.Lock()
		gotReqs = append(gotReqs, req)
		mu.Unlock()
		if req.To == "bad" {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("rejected"))
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	ok := Message{ID: uuid.New(), Channel: entities.ChannelSMS, Recipient: "+911234567890", Body: "hello"}
	bad := Message{ID: uuid.New(), Channel: entities.ChannelEmail, Recipient: "bad", Subject: "s", Body: "b"}
	reader := newFakeReader(
		encode(t, ok, 1),
		kafka.Message{Value: []byte("{not json"), Offset: 2},
		encode(t, bad, 3),
	)

	var recMu sync.Mutex
	records := make([]statusRecord, 0)
	status := func(_ context.Context, id uuid.UUID, s entities.NotificationStatus, errMsg string) error {
		recMu.Lock()
		defer recMu.Unlock()
		records = append(records, statusRecord{id: id, status: s, errMsg: errMsg})
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := NewWorker(zap.NewNop().Sugar(), reader, NewHTTPSender(srv.URL, "tkn", time.Second), status)

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.Eventually(t, func() bool { return reader.commitCount() == 3 }, 2*time.Second, 10*time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	recMu.Lock()
	defer recMu.Unlock()
	require.Len(t, records, 2)
	require.Equal(t, statusRecord{id: ok.ID, status: entities.NotificationSent}, records[0])
	require.Equal(t, bad.ID, records[1].id)
	require.Equal(t, entities.NotificationFailed, records[1].status)
	require.Contains(t, records[1].errMsg, "502")

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, gotReqs, 2)
	require.Equal(t, ok.ID.String(), gotReqs[0].Reference)
}

func TestLogPublisher(t *testing.T) {
	p := NewLogPublisher(zap.NewNop().Sugar())
	require.NoError(t, p.Publish(context.Background(), MessageFrom(entities.Notification{ID: uuid.New(), Channel: entities.ChannelSMS})))
	require.NoError(t, p.Close())
}
