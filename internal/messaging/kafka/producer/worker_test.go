package producer_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go-erp/internal/messaging/kafka"
	"go-erp/internal/messaging/kafka/mock"
	"go-erp/internal/messaging/kafka/producer"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeWriter struct {
	mu   sync.Mutex
	msgs []kafkago.Message
	fail map[string]error
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafkago.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, m := range msgs {
		if err, ok := w.fail[string(m.Key)]; ok {
			return err
		}
		w.msgs = append(w.msgs, m)
	}
	return nil
}

func (w *fakeWriter) sent() []kafkago.Message {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]kafkago.Message(nil), w.msgs...)
}

func TestProcessPending_SendsAndMarks(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockOutboxRepository(ctrl)
	writer := &fakeWriter{fail: map[string]error{"li-2": errors.New("broker unavailable")}}

	repo.EXPECT().ListPending(gomock.Any(), 50).Return([]kafka.OutboxEvent{
		{ID: "1", RequestID: "req-1", AggregateID: "li-1", EventType: "stock_level_changed", Topic: "erp.stock.level.v1", Payload: []byte("{}")},
		{ID: "2", AggregateID: "li-2", EventType: "stock_level_changed", Topic: "erp.stock.level.v1", Payload: []byte("{}")},
	}, nil)
	repo.EXPECT().MarkSent(gomock.Any(), "1").Return(nil)
	repo.EXPECT().MarkFailed(gomock.Any(), "2", "broker unavailable").Return(nil)

	err := producer.ProcessPending(context.Background(), repo, writer, zap.NewNop(), 50)

	assert.NoError(t, err)
	sent := writer.sent()
	if assert.Len(t, sent, 1) {
		assert.Equal(t, "erp.stock.level.v1", sent[0].Topic)
		assert.Equal(t, []byte("li-1"), sent[0].Key)
		assert.Len(t, sent[0].Headers, 3)
	}
}

func TestProcessPending_ListError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockOutboxRepository(ctrl)

	repo.EXPECT().ListPending(gomock.Any(), 10).Return(nil, errors.New("db down"))

	err := producer.ProcessPending(context.Background(), repo, &fakeWriter{}, zap.NewNop(), 10)

	assert.EqualError(t, err, "db down")
}

func TestProcessOutboxEvents_StopsOnCancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockOutboxRepository(ctrl)
	repo.EXPECT().ListPending(gomock.Any(), 5).Return(nil, nil).AnyTimes()
	repo.EXPECT().PurgeSent(gomock.Any(), gomock.Any()).Times(0)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		producer.ProcessOutboxEvents(ctx, repo, &fakeWriter{}, zap.NewNop(), producer.RelayOptions{
			PollInterval: 5 * time.Millisecond,
			BatchSize:    5,
		})
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestProcessOutboxEvents_PurgesSentRows(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockOutboxRepository(ctrl)
	repo.EXPECT().ListPending(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()

	purged := make(chan time.Time, 1)
	start := time.Now()
	repo.EXPECT().PurgeSent(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, before time.Time) (int64, error) {
		select {
		case purged <- before:
		default:
		}
		return 3, nil
	}).MinTimes(1)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		producer.ProcessOutboxEvents(ctx, repo, &fakeWriter{}, zap.NewNop(), producer.RelayOptions{
			PollInterval:  time.Hour,
			Retention:     24 * time.Hour,
			PurgeInterval: 5 * time.Millisecond,
		})
		close(done)
	}()

	select {
	case before := <-purged:
		assert.WithinDuration(t, start.Add(-24*time.Hour), before, time.Minute)
	case <-time.After(time.Second):
		t.Fatal("purge never ran")
	}
	cancel()
	<-done
}
