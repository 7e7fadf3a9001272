package events

import (
	"sync"
	"testing"
)

// MockEventBus records published events and delivers them synchronously
type MockEventBus struct {
	subscriptions   map[string][]interface{}
	publishedEvents map[string][]interface{}
	mutex           sync.RWMutex
	publishErr      error
}

// NewMockEventBus creates a new MockEventBus instance
func NewMockEventBus() *MockEventBus {
	return &MockEventBus{
		subscriptions:   make(map[string][]interface{}),
		publishedEvents: make(map[string][]interface{}),
	}
}

func (m *MockEventBus) Subscribe(topic string, handler interface{}) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.subscriptions[topic] = append(m.subscriptions[topic], handler)
	return nil
}

// SubscribeAsync behaves like Subscribe. Delivery stays synchronous in tests.
func (m *MockEventBus) SubscribeAsync(topic string, handler interface{}) error {
	return m.Subscribe(topic, handler)
}

func (m *MockEventBus) Unsubscribe(topic string, handler interface{}) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	delete(m.subscriptions, topic)
	return nil
}

// Publish stores the event, then invokes matching handlers outside the lock
func (m *MockEventBus) Publish(topic string, event interface{}) error {
	m.mutex.Lock()
	if m.publishErr != nil {
		err := m.publishErr
		m.mutex.Unlock()
		return err
	}
	m.publishedEvents[topic] = append(m.publishedEvents[topic], event)
	handlers := append([]interface{}(nil), m.subscriptions[topic]...)
	m.mutex.Unlock()

	for _, handler := range handlers {
		invokeHandler(handler, event)
	}
	return nil
}

func (m *MockEventBus) Close() error {
	return nil
}

// FailPublish makes every later Publish return err
func (m *MockEventBus) FailPublish(err error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.publishErr = err
}

// GetPublishedEvents returns a copy of the events published on topic
func (m *MockEventBus) GetPublishedEvents(topic string) []interface{} {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return append([]interface{}{}, m.publishedEvents[topic]...)
}

func invokeHandler(handler interface{}, event interface{}) {
	switch h := handler.(type) {
	case func(TaskListGenerated):
		if e, ok := event.(TaskListGenerated); ok {
			h(e)
		}
	case func(GenerationFailed):
		if e, ok := event.(GenerationFailed); ok {
			h(e)
		}
	case func(CredentialTested):
		if e, ok := event.(CredentialTested); ok {
			h(e)
		}
	case func(interface{}):
		h(event)
	}
}

// AssertEventCount verifies the number of events published on a topic
func AssertEventCount(t *testing.T, mockBus *MockEventBus, topic string, expectedCount int) {
	t.Helper()
	events := mockBus.GetPublishedEvents(topic)
	if len(events) != expectedCount {
		t.Errorf("Expected %d events on topic %s, but got %d", expectedCount, topic, len(events))
	}
}
