package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMockClock_AfterAdvancesImmediately(t *testing.T) {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := NewMockClock(start)

	select {
	case fired := <-clock.After(2 * time.Second):
		assert.Equal(t, start.Add(2*time.Second), fired)
	case <-time.After(time.Second):
		t.Fatal("mock clock did not fire")
	}

	assert.Equal(t, start.Add(2*time.Second), clock.Now())
	assert.Equal(t, []time.Duration{2 * time.Second}, clock.Waits())
}

func TestBackoffTimer_UsesClock(t *testing.T) {
	clock := NewMockClock(time.Unix(0, 0))
	timer := NewBackoffTimer(clock)

	timer.Start(time.Second)
	<-timer.C()
	timer.Start(3 * time.Second)
	<-timer.C()
	timer.Stop()

	assert.Equal(t, []time.Duration{time.Second, 3 * time.Second}, clock.Waits())
}

func TestRealClock_Now(t *testing.T) {
	clock := NewRealClock()
	before := time.Now()
	assert.False(t, clock.Now().Before(before))
}
