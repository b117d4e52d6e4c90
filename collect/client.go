package collect

import (
	"context"

	"google.golang.org/api/gmail/v1"
)

// Client is the narrow Gmail surface the aggregation engine needs. Listing
// calls take the page token explicitly so a cursor is never shared between
// independent listings.
type Client interface {
	ListMessages(ctx context.Context, query string, pageToken string) (*gmail.ListMessagesResponse, error)
	ListThreads(ctx context.Context, query string, pageToken string) (*gmail.ListThreadsResponse, error)
	GetMessage(ctx context.Context, id string) (*gmail.Message, error)
	ListHistory(ctx context.Context, startHistoryId uint64) (*gmail.ListHistoryResponse, error)
	ListInbox(ctx context.Context) (*gmail.ListMessagesResponse, error)
}

// googleClient adapts *gmail.Service to Client. All calls run as the
// delegated user, hence the fixed "me" actor.
type googleClient struct {
	svc  *gmail.Service
	user string
}

func NewGmailClient(svc *gmail.Service) Client {
	return &googleClient{svc: svc, user: "me"}
}

func (g *googleClient) ListMessages(ctx context.Context, query string, pageToken string) (*gmail.ListMessagesResponse, error) {
	call := g.svc.Users.Messages.List(g.user).Q(query).IncludeSpamTrash(false)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}
	return call.Context(ctx).Do()
}

func (g *googleClient) ListThreads(ctx context.Context, query string, pageToken string) (*gmail.ListThreadsResponse, error) {
	call := g.svc.Users.Threads.List(g.user).Q(query)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}
	return call.Context(ctx).Do()
}

func (g *googleClient) GetMessage(ctx context.Context, id string) (*gmail.Message, error) {
	return g.svc.Users.Messages.Get(g.user, id).Format("full").Context(ctx).Do()
}

func (g *googleClient) ListHistory(ctx context.Context, startHistoryId uint64) (*gmail.ListHistoryResponse, error) {
	return g.svc.Users.History.List(g.user).StartHistoryId(startHistoryId).Context(ctx).Do()
}

func (g *googleClient) ListInbox(ctx context.Context) (*gmail.ListMessagesResponse, error) {
	return g.svc.Users.Messages.List(g.user).LabelIds("INBOX").Context(ctx).Do()
}
