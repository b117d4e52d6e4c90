package db

import (
	"database/sql"
	"time"
)

type QueryLog struct {
	Id            int            `db:"id" json:"id"`
	QueryType     string         `db:"query_type" json:"query_type"`
	Mailbox       string         `db:"mailbox" json:"mailbox"`
	DateRange     string         `db:"date_range" json:"date_range"`
	SearchFilter  string         `db:"search_filter" json:"search_filter"`
	SentCount     sql.NullInt64  `db:"sent_count" json:"sent_count"`
	ReceivedCount sql.NullInt64  `db:"received_count" json:"received_count"`
	Status        string         `db:"status" json:"status"`
	FailureKind   sql.NullString `db:"failure_kind" json:"failure_kind"`
	CreatedOn     time.Time      `db:"created_on" json:"created_on"`
	CompletedOn   sql.NullTime   `db:"completed_on" json:"completed_on"`
}
