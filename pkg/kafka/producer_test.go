package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestNewProducer_RequiresBrokers(t *testing.T) {
	_, err := NewProducer()
	require.Error(t, err)
}

func TestPublish_EncodesJSON(t *testing.T) {
	w := &fakeWriter{}
	p := newProducer(w, "snappy")

	err := p.Publish(context.Background(), "meti.index", []byte("1d"), map[string]float64{"final": 39.4})
	require.NoError(t, err)

	require.Len(t, w.msgs, 1)
	assert.Equal(t, "meti.index", w.msgs[0].Topic)
	assert.Equal(t, []byte("1d"), w.msgs[0].Key)
	assert.JSONEq(t, `{"final":39.4}`, string(w.msgs[0].Value))
}

func TestPublish_PassesBytesThrough(t *testing.T) {
	w := &fakeWriter{}
	p := newProducer(w, "snappy")

	require.NoError(t, p.PublishMessage(context.Background(), "t", []byte("raw")))
	assert.Equal(t, []byte("raw"), w.msgs[0].Value)
	assert.Nil(t, w.msgs[0].Key)
}

func TestPublish_WrapsWriterError(t *testing.T) {
	boom := errors.New("leader not available")
	p := newProducer(&fakeWriter{err: boom}, "snappy")

	err := p.Publish(context.Background(), "t", nil, "x")
	require.ErrorIs(t, err, boom)
}

func TestPublish_RejectsUnencodable(t *testing.T) {
	p := newProducer(&fakeWriter{}, "snappy")
	err := p.Publish(context.Background(), "t", nil, make(chan int))
	require.Error(t, err)
}

func TestClose(t *testing.T) {
	w := &fakeWriter{}
	require.NoError(t, newProducer(w, "gzip").Close())
	assert.True(t, w.closed)
}

func TestParseCompression(t *testing.T) {
	assert.Equal(t, kafka.Gzip, parseCompression("gzip"))
	assert.Equal(t, kafka.Zstd, parseCompression("zstd"))
	assert.Equal(t, kafka.Snappy, parseCompression("unknown"))
}
