package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/Shopify/sarama"
	"github.com/Shopify/sarama/mocks"
	"github.com/echo-threads/backend/pkg/pubsub"
	"github.com/stretchr/testify/require"
)

func TestPublisher_Publish(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		if msg.Topic != "thread" {
			return errors.New("unexpected topic " + msg.Topic)
		}
		return nil
	})
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	p := newPublisher("echo", []string{"localhost:9092"}, producer)
	ctx := context.Background()

	err := p.Publish(ctx, "thread", &pubsub.Pack{Key: []byte("t1"), Msg: []byte(`{}`)})
	require.NoError(t, err)

	err = p.Publish(ctx, "thread", &pubsub.Pack{Key: []byte("t2"), Msg: []byte(`{}`)})
	require.ErrorIs(t, err, sarama.ErrOutOfBrokers)

	require.NoError(t, p.Stop(ctx))
}
