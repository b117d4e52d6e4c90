package collect

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/api/gmail/v1"
)

// EmailDetail is the normalized subset extracted from one message. Every
// field is optional: provider payloads may omit headers or carry no
// plain-text part, and absent fields stay absent in the JSON encoding.
type EmailDetail struct {
	To      string `json:"to,omitempty"`
	Subject string `json:"subject,omitempty"`
	Date    string `json:"date,omitempty"`
	Message string `json:"message,omitempty"`
}

// SentEmailDetails lists every message matching the query, fetches each one
// and extracts its headers and plain-text body. Fetches run concurrently
// behind the shared limiter; results keep the provider's listing order. Any
// fetch failure aborts the whole request, so callers never see partial
// results.
func SentEmailDetails(ctx context.Context, client Client, mailbox string, query string) ([]EmailDetail, error) {
	ids, err := listMessageIDs(ctx, client, mailbox, query)
	if err != nil {
		return nil, err
	}

	details := make([]EmailDetail, len(ids))
	throttler := rate.NewLimiter(callsPerSecond, callBurst)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error
	for i, id := range ids {
		if err := throttler.Wait(ctx); err != nil {
			mu.Lock()
			if firstErr == nil {
				firstErr = providerErr("rate limiter interrupted", err)
			}
			mu.Unlock()
			break
		}
		mu.Lock()
		aborted := firstErr != nil
		mu.Unlock()
		if aborted {
			break
		}
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			message, err := getMessageWithRetry(ctx, client, id)
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}
			detail, err := extractDetail(message)
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}
			details[i] = detail
		}(i, id)
	}
	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}
	return details, nil
}

func getMessageWithRetry(ctx context.Context, client Client, id string) (*gmail.Message, error) {
	var lastErr error
	for attempt := 1; attempt <= MaxRetryCount; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, callTimeout)
		message, err := client.GetMessage(callCtx, id)
		cancel()
		if err == nil {
			return message, nil
		}
		lastErr = err
		if !isRetryError(err) {
			break
		}
		slog.Info(fmt.Sprintf("Got retryable error for message: %s. Attempt #: %d of %d.", id, attempt, MaxRetryCount))
		time.Sleep(SleepTime)
	}
	return nil, providerErr(fmt.Sprintf("failed to fetch message %s", id), lastErr)
}

// extractDetail pulls the first To/Subject/Date headers and the first
// text/plain body part. Header names match exactly; duplicate headers after
// the first are ignored. The body search stops at the first text/plain part
// and never falls back to HTML.
func extractDetail(message *gmail.Message) (EmailDetail, error) {
	var detail EmailDetail
	if message == nil || message.Payload == nil {
		return detail, nil
	}
	for _, header := range message.Payload.Headers {
		switch header.Name {
		case "To":
			if detail.To == "" {
				detail.To = header.Value
			}
		case "Subject":
			if detail.Subject == "" {
				detail.Subject = header.Value
			}
		case "Date":
			if detail.Date == "" {
				detail.Date = header.Value
			}
		}
	}
	for _, part := range message.Payload.Parts {
		if part.MimeType != "text/plain" {
			continue
		}
		if part.Body != nil && part.Body.Data != "" {
			decoded, err := decodeBody(part.Body.Data)
			if err != nil {
				return EmailDetail{}, providerErr(fmt.Sprintf("failed to decode body of message %s", message.Id), err)
			}
			detail.Message = decoded
		}
		break
	}
	return detail, nil
}

// decodeBody decodes Gmail's URL-safe base64 payloads, which arrive both
// padded and unpadded.
func decodeBody(data string) (string, error) {
	decoded, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(data, "="))
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}
