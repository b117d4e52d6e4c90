package collect

import (
	"context"
)

// SyncStatus reports where the mailbox's change log currently stands.
// HasChanges is true when the provider recorded history entries after the
// caller's last known history id.
type SyncStatus struct {
	HistoryId  uint64 `json:"history_id"`
	InboxCount int    `json:"inbox_count"`
	HasChanges bool   `json:"has_changes"`
}

// MailboxSyncStatus probes the mailbox change log starting at
// lastKnownHistoryId (0 means "from the beginning") and samples the first
// inbox listing page for a quick message count.
func MailboxSyncStatus(ctx context.Context, client Client, lastKnownHistoryId uint64) (SyncStatus, error) {
	startId := lastKnownHistoryId
	if startId == 0 {
		startId = 1
	}

	callCtx, cancel := context.WithTimeout(ctx, callTimeout)
	history, err := client.ListHistory(callCtx, startId)
	cancel()
	if err != nil {
		return SyncStatus{}, providerErr("failed to list mailbox history", err)
	}

	callCtx, cancel = context.WithTimeout(ctx, callTimeout)
	inbox, err := client.ListInbox(callCtx)
	cancel()
	if err != nil {
		return SyncStatus{}, providerErr("failed to list inbox", err)
	}

	return SyncStatus{
		HistoryId:  history.HistoryId,
		InboxCount: len(inbox.Messages),
		HasChanges: len(history.History) > 0,
	}, nil
}
