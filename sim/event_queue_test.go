package sim

import (
	"container/heap"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventQueue_OrdersByTimestampThenSeq(t *testing.T) {
	// GIVEN events pushed out of order with ties at t=5
	q := make(EventQueue, 0)
	push := func(ev Event, seq int64) { heap.Push(&q, eventEntry{event: ev, seqID: seq}) }
	first := &MonitorEvent{time: 5}
	second := &MonitorEvent{time: 5}
	push(&MonitorEvent{time: 9}, 0)
	push(first, 1)
	push(&MonitorEvent{time: 1}, 2)
	push(second, 3)

	// WHEN popping everything
	var got []Event
	for q.Len() > 0 {
		got = append(got, heap.Pop(&q).(eventEntry).event)
	}

	// THEN time order holds and ties keep insertion order
	assert.Equal(t, int64(1), got[0].Timestamp())
	assert.Same(t, first, got[1])
	assert.Same(t, second, got[2])
	assert.Equal(t, int64(9), got[3].Timestamp())
}
