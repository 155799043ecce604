package kafka

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReader struct {
	messages []kafka.Message
	err      error
}

func (r *fakeReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	if len(r.messages) == 0 {
		if r.err != nil {
			return kafka.Message{}, r.err
		}
		return kafka.Message{}, io.EOF
	}
	msg := r.messages[0]
	r.messages = r.messages[1:]
	return msg, nil
}

func (r *fakeReader) Close() error { return nil }

func TestConsume_DecodesEvents(t *testing.T) {
	reader := &fakeReader{messages: []kafka.Message{
		{Value: []byte(`{"type":"reservation_paid","reservation_id":17,"username":"alice","day":10,"price":300}`)},
		{Value: []byte(`{"type":"reservation_canceled","reservation_id":17,"username":"alice","day":10,"price":300}`)},
	}}
	consumer := &Consumer{reader: reader, logger: zerolog.Nop()}

	var events []ReservationEvent
	err := consumer.Consume(context.Background(), func(_ context.Context, event ReservationEvent) error {
		events = append(events, event)
		return nil
	})

	require.ErrorIs(t, err, io.EOF)
	require.Len(t, events, 2)
	assert.Equal(t, EventReservationPaid, events[0].Type)
	assert.Equal(t, int64(17), events[0].ReservationID)
	assert.Equal(t, "alice", events[0].Username)
	assert.Equal(t, EventReservationCanceled, events[1].Type)
}

func TestConsume_SkipsUndecodablePayload(t *testing.T) {
	reader := &fakeReader{messages: []kafka.Message{
		{Value: []byte(`not json`)},
		{Value: []byte(`{"type":"reservation_booked","reservation_id":3,"username":"bob","day":4,"price":120}`)},
	}}
	consumer := &Consumer{reader: reader, logger: zerolog.Nop()}

	var events []ReservationEvent
	err := consumer.Consume(context.Background(), func(_ context.Context, event ReservationEvent) error {
		events = append(events, event)
		return nil
	})

	require.ErrorIs(t, err, io.EOF)
	require.Len(t, events, 1)
	assert.Equal(t, int64(3), events[0].ReservationID)
}

func TestConsume_HandlerErrorStopsTheLoop(t *testing.T) {
	reader := &fakeReader{messages: []kafka.Message{
		{Value: []byte(`{"type":"reservation_booked","reservation_id":1,"username":"bob","day":4,"price":120}`)},
		{Value: []byte(`{"type":"reservation_booked","reservation_id":2,"username":"bob","day":5,"price":120}`)},
	}}
	consumer := &Consumer{reader: reader, logger: zerolog.Nop()}

	handlerErr := errors.New("send failed")
	calls := 0
	err := consumer.Consume(context.Background(), func(context.Context, ReservationEvent) error {
		calls++
		return handlerErr
	})

	assert.ErrorIs(t, err, handlerErr)
	assert.Equal(t, 1, calls)
}
