package notification

import (
	"testing"
	"time"
)

func TestPublishReachesMailboxAndAllStreams(t *testing.T) {
	mailboxEvents, cancelMailbox := Subscribe("user@example.com")
	defer cancelMailbox()
	allEvents, cancelAll := Subscribe(NOTIFICATION_ALL)
	defer cancelAll()

	Publish(Progress{Mailbox: "user@example.com", Pages: 1, Items: 50})

	select {
	case progress := <-mailboxEvents:
		if progress.Items != 50 {
			t.Fatalf("unexpected event: %+v", progress)
		}
	case <-time.After(time.Second):
		t.Fatalf("mailbox subscriber got no event")
	}
	select {
	case progress := <-allEvents:
		if progress.Mailbox != "user@example.com" {
			t.Fatalf("unexpected event: %+v", progress)
		}
	case <-time.After(time.Second):
		t.Fatalf("all subscriber got no event")
	}
}

func TestPublishSkipsOtherMailboxes(t *testing.T) {
	otherEvents, cancel := Subscribe("other@example.com")
	defer cancel()

	Publish(Progress{Mailbox: "user@example.com", Pages: 1})

	select {
	case progress := <-otherEvents:
		t.Fatalf("unexpected event for other mailbox: %+v", progress)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestCancelClosesChannel(t *testing.T) {
	events, cancel := Subscribe("user@example.com")
	cancel()
	// Cancel is idempotent.
	cancel()

	if _, open := <-events; open {
		t.Fatalf("expected closed channel after cancel")
	}

	// Publishing after cancel must not panic or block.
	Publish(Progress{Mailbox: "user@example.com"})
}
