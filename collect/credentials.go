package collect

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// Resolver maps a mailbox address to an API client acting on its behalf.
type Resolver interface {
	Resolve(ctx context.Context, mailbox string) (Client, error)
}

// ServiceAccountResolver mints delegated credentials from a domain-wide
// delegated service account key. The key file is read once at construction;
// each Resolve builds a fresh token source scoped to the requested mailbox.
type ServiceAccountResolver struct {
	keyJSON []byte
}

func NewServiceAccountResolver(keyFile string) (*ServiceAccountResolver, error) {
	keyJSON, err := os.ReadFile(keyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read service account key %s: %w", keyFile, err)
	}
	return &ServiceAccountResolver{keyJSON: keyJSON}, nil
}

func (r *ServiceAccountResolver) Resolve(ctx context.Context, mailbox string) (Client, error) {
	config, err := google.JWTConfigFromJSON(r.keyJSON, gmail.GmailReadonlyScope)
	if err != nil {
		return nil, credentialErr("invalid service account key", err)
	}
	config.Subject = mailbox
	gmailService, err := gmail.NewService(ctx, option.WithTokenSource(config.TokenSource(ctx)))
	if err != nil {
		return nil, credentialErr(fmt.Sprintf("failed to create gmail service for %s", mailbox), err)
	}
	return NewGmailClient(gmailService), nil
}
