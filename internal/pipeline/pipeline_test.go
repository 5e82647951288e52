package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/sanspareilsmyn/perfmon/internal/config"
	"github.com/sanspareilsmyn/perfmon/internal/message"
	"github.com/sanspareilsmyn/perfmon/internal/monitor"
)

type fakeReader struct {
	mu        sync.Mutex
	msgs      []kafka.Message
	committed []int64
	fetchErr  error
	closed    bool
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	if len(r.msgs) > 0 {
		m := r.msgs[0]
		r.msgs = r.msgs[1:]
		r.mu.Unlock()
		return m, nil
	}
	err := r.fetchErr
	r.mu.Unlock()
	if err != nil {
		return kafka.Message{}, err
	}
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

type recordingExporter struct {
	mu    sync.Mutex
	hosts []string
	done  chan struct{}
}

func (e *recordingExporter) ExportHost(host string, _ []monitor.Reading) {
	e.mu.Lock()
	e.hosts = append(e.hosts, host)
	e.mu.Unlock()
	e.done <- struct{}{}
}

func encode(t *testing.T, s message.Snapshot) []byte {
	t.Helper()
	data, err := message.EncodeSnapshot(s)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestPipelineReportsSnapshots(t *testing.T) {
	base := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	reader := &fakeReader{msgs: []kafka.Message{
		{Offset: 1, Value: encode(t, message.Snapshot{Time: base, Host: "a"})},
		{Offset: 2, Value: []byte("garbage")},
		{Offset: 3, Value: encode(t, message.Snapshot{Time: base, Host: "b"})},
	}}
	exporter := &recordingExporter{done: make(chan struct{}, 8)}
	p := New(reader, exporter, zaptest.NewLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	for i := 0; i < 2; i++ {
		select {
		case <-exporter.done:
		case <-time.After(time.Second):
			t.Fatalf("only %d snapshots reported", i)
		}
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run returned %v", err)
	}

	if len(exporter.hosts) != 2 || exporter.hosts[0] != "a" || exporter.hosts[1] != "b" {
		t.Errorf("exported hosts = %v", exporter.hosts)
	}
	if !reader.closed {
		t.Error("reader should be closed")
	}
	if len(reader.committed) != 3 {
		t.Errorf("committed offsets = %v, want all three", reader.committed)
	}
}

func TestPipelineStopsOnFetchError(t *testing.T) {
	reader := &fakeReader{fetchErr: errors.New("broker gone")}
	p := New(reader, nil, zaptest.NewLogger(t))

	err := p.Run(context.Background())
	if !errors.Is(err, ErrConsumerRunFailed) || !errors.Is(err, ErrKafkaFetchFailed) {
		t.Fatalf("Run err = %v", err)
	}
}

func TestReporterSkipsOutOfOrderSnapshots(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	input := make(chan message.Snapshot, 3)
	exporter := &recordingExporter{done: make(chan struct{}, 8)}
	r := NewReporter(input, exporter, zap.New(core))

	t0 := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	input <- message.Snapshot{Time: t0, Host: "a"}
	input <- message.Snapshot{Time: t0.Add(-time.Second), Host: "a"}
	input <- message.Snapshot{Time: t0.Add(time.Second), Host: "a"}
	close(input)

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(exporter.hosts) != 2 {
		t.Errorf("exported %d snapshots, want 2", len(exporter.hosts))
	}
	if logs.FilterMessage("Out-of-order snapshot, skipping").Len() != 1 {
		t.Errorf("expected one out-of-order warning, got %d logs", logs.Len())
	}
}

func TestNewKafkaReaderValidates(t *testing.T) {
	_, err := NewKafkaReader(config.KafkaConfig{Brokers: []string{"b:9092"}, Topic: "t"}, zaptest.NewLogger(t))
	if !errors.Is(err, ErrInvalidKafkaConfig) {
		t.Errorf("err = %v, want ErrInvalidKafkaConfig", err)
	}
}
