package notification

import (
	"sync"
)

const NOTIFICATION_ALL string = "all"

// Progress is one pagination progress event for an in-flight aggregation.
type Progress struct {
	Mailbox      string `json:"mailbox"`
	Query        string `json:"query"`
	Pages        int    `json:"pages"`
	Items        int    `json:"items"`
	ElapsedInSec int    `json:"elapsed_in_sec"`
}

var lock sync.Mutex
var subscribers map[string]map[chan Progress]struct{}

func init() {
	subscribers = make(map[string]map[chan Progress]struct{})
}

// Subscribe registers for progress events published under key (a mailbox
// address, or NOTIFICATION_ALL for everything). The returned cancel func
// must be called to release the subscription.
func Subscribe(key string) (<-chan Progress, func()) {
	ch := make(chan Progress, 16)
	lock.Lock()
	if subscribers[key] == nil {
		subscribers[key] = make(map[chan Progress]struct{})
	}
	subscribers[key][ch] = struct{}{}
	lock.Unlock()

	cancel := func() {
		lock.Lock()
		defer lock.Unlock()
		if _, present := subscribers[key][ch]; !present {
			return
		}
		delete(subscribers[key], ch)
		if len(subscribers[key]) == 0 {
			delete(subscribers, key)
		}
		close(ch)
	}
	return ch, cancel
}

// Publish fans the event out to the mailbox's subscribers and to the
// NOTIFICATION_ALL stream. Slow subscribers drop events rather than stall
// the aggregation loop.
func Publish(progress Progress) {
	lock.Lock()
	defer lock.Unlock()
	pushToSubscribers(subscribers[progress.Mailbox], progress)
	if progress.Mailbox != NOTIFICATION_ALL {
		pushToSubscribers(subscribers[NOTIFICATION_ALL], progress)
	}
}

func pushToSubscribers(subs map[chan Progress]struct{}, progress Progress) {
	for ch := range subs {
		select {
		case ch <- progress:
		default:
		}
	}
}
