package sse

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/quorumdesk/quorumdesk-backend/internal/logger"
)

func mustTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	t.Cleanup(log.Sync)
	return log
}

func recvMessage(t *testing.T, ch <-chan SSEMessage, timeout time.Duration) SSEMessage {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for SSE message")
	}
	return SSEMessage{}
}

func TestSSEHubDeliversInOrderToSubscribers(t *testing.T) {
	hub := NewSSEHub(mustTestLogger(t))
	pollID := uuid.New()
	channel := PollChannel(pollID)

	client := hub.NewSSEClient(uuid.New())
	hub.AddChannel(client, channel)

	first := SSEMessage{Channel: channel, Event: SSEEventPollTallyUpdated, Data: map[string]any{"seq": 1}}
	second := SSEMessage{Channel: channel, Event: SSEEventPollClosed, Data: map[string]any{"seq": 2}}
	hub.Broadcast(first)
	hub.Broadcast(second)

	gotFirst := recvMessage(t, client.Outbound, time.Second)
	gotSecond := recvMessage(t, client.Outbound, time.Second)
	if gotFirst.Event != SSEEventPollTallyUpdated {
		t.Fatalf("first event: want=%s got=%s", SSEEventPollTallyUpdated, gotFirst.Event)
	}
	if gotSecond.Event != SSEEventPollClosed {
		t.Fatalf("second event: want=%s got=%s", SSEEventPollClosed, gotSecond.Event)
	}

	hub.CloseClient(client)
	select {
	case _, ok := <-client.Outbound:
		if ok {
			t.Fatalf("outbound should be closed after disconnect")
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatalf("timed out waiting for channel close")
	}
}

func TestSSEHubScopesBroadcastsToChannel(t *testing.T) {
	hub := NewSSEHub(mustTestLogger(t))
	pollChannel := PollChannel(uuid.New())
	meetingChannel := MeetingChannel(uuid.New())

	pollWatcher := hub.NewSSEClient(uuid.New())
	meetingWatcher := hub.NewSSEClient(uuid.New())
	hub.AddChannel(pollWatcher, pollChannel)
	hub.AddChannel(meetingWatcher, meetingChannel)

	hub.Broadcast(SSEMessage{Channel: pollChannel, Event: SSEEventPollTallyUpdated})

	got := recvMessage(t, pollWatcher.Outbound, time.Second)
	if got.Channel != pollChannel {
		t.Fatalf("channel: want=%s got=%s", pollChannel, got.Channel)
	}
	select {
	case msg := <-meetingWatcher.Outbound:
		t.Fatalf("meeting watcher should not receive poll events, got %+v", msg)
	case <-time.After(100 * time.Millisecond):
	}

	hub.CloseClient(pollWatcher)
	hub.CloseClient(meetingWatcher)
}

func TestSSEHubCloseClientIsIdempotent(t *testing.T) {
	hub := NewSSEHub(mustTestLogger(t))
	client := hub.NewSSEClient(uuid.New())
	hub.AddChannel(client, PollChannel(uuid.New()))

	hub.CloseClient(client)
	// The replacement path and the stream handler's cleanup can both
	// close the same client; the second close must be a no-op.
	hub.CloseClient(client)

	if _, ok := <-client.Outbound; ok {
		t.Fatalf("outbound should be closed")
	}
}

func TestSSEHubUnsubscribeStopsDelivery(t *testing.T) {
	hub := NewSSEHub(mustTestLogger(t))
	channel := MeetingChannel(uuid.New())

	client := hub.NewSSEClient(uuid.New())
	hub.AddChannel(client, channel)
	hub.RemoveChannel(client, channel)

	hub.Broadcast(SSEMessage{Channel: channel, Event: SSEEventMeetingOpened})

	select {
	case msg := <-client.Outbound:
		t.Fatalf("unsubscribed client should not receive events, got %+v", msg)
	case <-time.After(100 * time.Millisecond):
	}

	hub.CloseClient(client)
}
