package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRecipeEventStampsIDAndTime(t *testing.T) {
	e := NewRecipeEvent(EventTypeRecipeUpdated, 7, 1, 2, 3)

	assert.NotEmpty(t, e.EventID)
	assert.False(t, e.Timestamp.IsZero())
	assert.Equal(t, []uint{2, 3}, e.ShoppingListOwners())
}

func TestShoppingListOwners(t *testing.T) {
	assert.Equal(t, []uint{5}, NewRecipeEvent(EventTypeCartAdded, 1, 5).ShoppingListOwners())
	assert.Equal(t, []uint{5}, NewRecipeEvent(EventTypeCartRemoved, 1, 5).ShoppingListOwners())
	assert.Nil(t, NewRecipeEvent(EventTypeFavoriteAdded, 1, 5).ShoppingListOwners())
	assert.Nil(t, NewRecipeEvent(EventTypeRecipeCreated, 1, 5).ShoppingListOwners())
}

func TestRegistryDispatchRunsAllHandlers(t *testing.T) {
	r := NewRegistry()
	var calls []string
	r.RegisterHandler(func(context.Context, RecipeEvent) error {
		calls = append(calls, "first")
		return errors.New("boom")
	}, EventTypeCartAdded)
	r.RegisterHandler(func(context.Context, RecipeEvent) error {
		calls = append(calls, "second")
		return nil
	}, EventTypeCartAdded, EventTypeCartRemoved)

	err := r.Dispatch(context.Background(), NewRecipeEvent(EventTypeCartAdded, 1, 1))
	assert.EqualError(t, err, "boom")
	assert.Equal(t, []string{"first", "second"}, calls)

	assert.True(t, r.HasHandler(EventTypeCartRemoved))
	assert.False(t, r.HasHandler(EventTypeRecipeCreated))
	assert.NoError(t, r.Dispatch(context.Background(), NewRecipeEvent(EventTypeRecipeCreated, 1, 1)))
}

func TestLocalBusSwallowsHandlerErrors(t *testing.T) {
	bus := NewLocalBus()
	got := 0
	bus.RegisterHandler(func(_ context.Context, e RecipeEvent) error {
		got++
		return errors.New("handler failed")
	}, EventTypeFavoriteAdded)

	require.NoError(t, bus.Publish(context.Background(), NewRecipeEvent(EventTypeFavoriteAdded, 2, 3)))
	assert.Equal(t, 1, got)
}

func TestPublisherSendsKeyedMessageWithHeaders(t *testing.T) {
	producer := mocks.NewSyncProducer(t, NewProducerConfig())
	event := NewRecipeEvent(EventTypeRecipeDeleted, 12, 4, 9)

	producer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		assert.Equal(t, TopicRecipeEvents, msg.Topic)

		key, err := msg.Key.Encode()
		require.NoError(t, err)
		assert.Equal(t, "recipe_12", string(key))

		headers := map[string]string{}
		for _, h := range msg.Headers {
			headers[string(h.Key)] = string(h.Value)
		}
		assert.Equal(t, EventTypeRecipeDeleted, headers["event_type"])
		assert.Equal(t, event.EventID, headers["event_id"])

		body, err := msg.Value.Encode()
		require.NoError(t, err)
		var decoded RecipeEvent
		require.NoError(t, json.Unmarshal(body, &decoded))
		assert.Equal(t, []uint{9}, decoded.AffectedUserIDs)
		return nil
	})

	p := NewPublisherWithProducer(producer)
	require.NoError(t, p.Publish(context.Background(), event))
	require.NoError(t, p.Close())
}

func TestPublisherReportsSendFailure(t *testing.T) {
	producer := mocks.NewSyncProducer(t, NewProducerConfig())
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	p := NewPublisherWithProducer(producer)
	err := p.Publish(context.Background(), NewRecipeEvent(EventTypeCartAdded, 1, 1))
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, p.Close())
}

func TestHandleMessageDispatchesByHeader(t *testing.T) {
	r := NewRegistry()
	var got RecipeEvent
	r.RegisterHandler(func(_ context.Context, e RecipeEvent) error {
		got = e
		return nil
	}, EventTypeCartRemoved)

	event := NewRecipeEvent(EventTypeCartRemoved, 3, 8)
	body, err := json.Marshal(event)
	require.NoError(t, err)

	h := &consumerGroupHandler{registry: r}
	h.handleMessage(context.Background(), &sarama.ConsumerMessage{
		Topic: TopicRecipeEvents,
		Value: body,
		Headers: []*sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(EventTypeCartRemoved)},
			{Key: []byte("event_id"), Value: []byte(event.EventID)},
		},
	})

	assert.Equal(t, event.EventID, got.EventID)
	assert.Equal(t, uint(8), got.UserID)
}

func TestHandleMessageIgnoresMissingTypeAndBadPayload(t *testing.T) {
	r := NewRegistry()
	called := false
	r.RegisterHandler(func(context.Context, RecipeEvent) error {
		called = true
		return nil
	}, EventTypeCartAdded)

	h := &consumerGroupHandler{registry: r}
	h.handleMessage(context.Background(), &sarama.ConsumerMessage{Value: []byte(`{}`)})
	h.handleMessage(context.Background(), &sarama.ConsumerMessage{
		Value:   []byte(`not json`),
		Headers: []*sarama.RecordHeader{{Key: []byte("event_type"), Value: []byte(EventTypeCartAdded)}},
	})

	assert.False(t, called)
}

func TestActivityCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRegistry()
	r.RegisterHandler(NewActivityCounter(reg), EventTypes...)

	require.NoError(t, r.Dispatch(context.Background(), NewRecipeEvent(EventTypeCartAdded, 1, 1)))
	require.NoError(t, r.Dispatch(context.Background(), NewRecipeEvent(EventTypeCartAdded, 2, 1)))

	assert.Equal(t, 1, testutil.CollectAndCount(reg, "foodgram_recipe_events_consumed_total"))
	expected := `
# HELP foodgram_recipe_events_consumed_total Total number of recipe events consumed
# TYPE foodgram_recipe_events_consumed_total counter
foodgram_recipe_events_consumed_total{event_type="cart.added"} 2
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "foodgram_recipe_events_consumed_total"))
}

type closingGroup struct {
	sarama.ConsumerGroup
	closed bool
}

func (g *closingGroup) Close() error {
	g.closed = true
	return nil
}

func TestCloseWithoutStartReturns(t *testing.T) {
	group := &closingGroup{}
	c := &Consumer{Registry: NewRegistry(), consumer: group, done: make(chan struct{})}

	closed := make(chan error, 1)
	go func() { closed <- c.Close() }()

	select {
	case err := <-closed:
		require.NoError(t, err)
		assert.True(t, group.closed)
	case <-time.After(time.Second):
		t.Fatal("Close blocked on a consumer that was never started")
	}
}
