package collect

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kmaddali/mailmon/notification"
	"golang.org/x/time/rate"
)

// maxPages bounds the pagination loop. A provider that echoes the same
// cursor forever would otherwise spin this loop indefinitely. Variable so
// tests can tighten the bound.
var maxPages = 10000

// page is one provider listing response, reduced to what the engine needs.
type page struct {
	ids  []string
	size int
	next string
}

type pageFetcher func(ctx context.Context, pageToken string) (page, error)

// CountMessages sums message stubs over every page matching the query.
// Pages are disjoint by the provider's cursor contract, so the sum never
// double-counts.
func CountMessages(ctx context.Context, client Client, mailbox string, query string) (int, error) {
	total := 0
	err := forEachPage(ctx, mailbox, query, func(ctx context.Context, pageToken string) (page, error) {
		resp, err := client.ListMessages(ctx, query, pageToken)
		if err != nil {
			return page{}, err
		}
		return page{size: len(resp.Messages), next: resp.NextPageToken}, nil
	}, func(p page) {
		total += p.size
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}

// CountThreads is the conversation-level variant of CountMessages, used when
// the caller wants counts deduplicated by thread.
func CountThreads(ctx context.Context, client Client, mailbox string, query string) (int, error) {
	total := 0
	err := forEachPage(ctx, mailbox, query, func(ctx context.Context, pageToken string) (page, error) {
		resp, err := client.ListThreads(ctx, query, pageToken)
		if err != nil {
			return page{}, err
		}
		return page{size: len(resp.Threads), next: resp.NextPageToken}, nil
	}, func(p page) {
		total += p.size
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}

// listMessageIDs paginates like CountMessages but retains the stub ids, in
// provider listing order.
func listMessageIDs(ctx context.Context, client Client, mailbox string, query string) ([]string, error) {
	ids := make([]string, 0)
	err := forEachPage(ctx, mailbox, query, func(ctx context.Context, pageToken string) (page, error) {
		resp, err := client.ListMessages(ctx, query, pageToken)
		if err != nil {
			return page{}, err
		}
		p := page{size: len(resp.Messages), next: resp.NextPageToken}
		for _, m := range resp.Messages {
			p.ids = append(p.ids, m.Id)
		}
		return p, nil
	}, func(p page) {
		ids = append(ids, p.ids...)
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// forEachPage drives cursor pagination to completion: fetch with retry,
// hand the page to visit, follow the next token until the provider stops
// returning one. Each invocation starts from an absent cursor; tokens are
// never carried across calls.
func forEachPage(ctx context.Context, mailbox string, query string, fetch pageFetcher, visit func(page)) error {
	throttler := rate.NewLimiter(callsPerSecond, callBurst)
	start := time.Now()
	pageToken := ""
	pages := 0
	items := 0
	for {
		if pages >= maxPages {
			return providerErr(fmt.Sprintf("pagination did not terminate within %d pages", maxPages), nil)
		}
		p, err := fetchPageWithRetry(ctx, throttler, pageToken, fetch)
		if err != nil {
			return err
		}
		pages++
		items += p.size
		visit(p)
		notification.Publish(notification.Progress{
			Mailbox:      mailbox,
			Query:        query,
			Pages:        pages,
			Items:        items,
			ElapsedInSec: int(time.Since(start).Seconds()),
		})
		if p.next == "" {
			return nil
		}
		pageToken = p.next
	}
}

func fetchPageWithRetry(ctx context.Context, throttler *rate.Limiter, pageToken string, fetch pageFetcher) (page, error) {
	var lastErr error
	for attempt := 1; attempt <= MaxRetryCount; attempt++ {
		if err := throttler.Wait(ctx); err != nil {
			return page{}, providerErr("rate limiter interrupted", err)
		}
		callCtx, cancel := context.WithTimeout(ctx, callTimeout)
		p, err := fetch(callCtx, pageToken)
		cancel()
		if err == nil {
			return p, nil
		}
		lastErr = err
		if !isRetryError(err) {
			break
		}
		slog.Info(fmt.Sprintf("Got retryable error listing page. Attempt #: %d of %d.", attempt, MaxRetryCount))
		time.Sleep(SleepTime)
	}
	return page{}, providerErr("failed to list messages", lastErr)
}
