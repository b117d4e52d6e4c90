package db

import (
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

var db *sqlx.DB

// SetupDatabase opens the audit-log connection and runs migrations. The
// audit log is optional: when SetupDatabase is never called, every Log/Mark
// function is a no-op.
func SetupDatabase(dsn string) error {
	var err error
	db, err = sqlx.Open("postgres", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}

	err = db.Ping()
	if err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	slog.Info("Successfully connected to database")

	if err := migrateDB(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	return nil
}

// Close closes the database connection
func Close() error {
	if db != nil {
		return db.Close()
	}
	return nil
}

// Enabled reports whether the audit log is configured.
func Enabled() bool {
	return db != nil
}

// LogQueryStart records an accepted query and returns its audit row id.
// Returns 0 when auditing is disabled.
func LogQueryStart(queryType string, mailbox string, dateRange string, searchFilter string) (int, error) {
	if db == nil {
		return 0, nil
	}
	insert_row := `insert into query_log
									(query_type, mailbox, date_range, search_filter, status, created_on)
								values
									($1, $2, $3, $4, 'running', current_timestamp) RETURNING id`
	lastInsertId := 0
	err := db.QueryRow(insert_row, queryType, mailbox, dateRange, searchFilter).Scan(&lastInsertId)
	if err != nil {
		return 0, fmt.Errorf("failed to insert query log for %s: %w", queryType, err)
	}
	return lastInsertId, nil
}

// MarkQueryComplete stores the final counts for a finished query.
func MarkQueryComplete(queryId int, sentCount int, receivedCount int) error {
	if db == nil || queryId == 0 {
		return nil
	}
	update_row := `update query_log
		set status = 'done', sent_count = $2, received_count = $3, completed_on = current_timestamp
		where id = $1`
	_, err := db.Exec(update_row, queryId, sentCount, receivedCount)
	if err != nil {
		return fmt.Errorf("failed to mark query %d complete: %w", queryId, err)
	}
	return nil
}

// MarkQueryFailed records the failure category only. Raw error text stays
// out of the database for the same reason it stays out of HTTP responses.
func MarkQueryFailed(queryId int, failureKind string) error {
	if db == nil || queryId == 0 {
		return nil
	}
	update_row := `update query_log
		set status = 'failed', failure_kind = $2, completed_on = current_timestamp
		where id = $1`
	_, err := db.Exec(update_row, queryId, failureKind)
	if err != nil {
		return fmt.Errorf("failed to mark query %d failed: %w", queryId, err)
	}
	return nil
}

// GetQueryLogFromDb returns one page of the audit log, newest first, plus
// the total row count.
func GetQueryLogFromDb(pageNo int) ([]QueryLog, int, error) {
	if db == nil {
		return nil, 0, fmt.Errorf("query auditing is not configured")
	}
	limit := 10
	offset := limit * (pageNo - 1)
	count_rows := `select count(*) from query_log`
	read_row := `select * from query_log order by id desc limit $1 offset $2`
	queryLog := []QueryLog{}
	var count int
	err := db.Select(&queryLog, read_row, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get query log for page %d: %w", pageNo, err)
	}
	err = db.Get(&count, count_rows)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get query log count: %w", err)
	}
	return queryLog, count, nil
}

const create_query_log_table = `create table if not exists query_log (
	id serial primary key,
	query_type varchar(20) not null,
	mailbox varchar(320) not null,
	date_range varchar(30) not null,
	search_filter text not null,
	sent_count int,
	received_count int,
	status varchar(10) not null,
	failure_kind varchar(30),
	created_on timestamp not null,
	completed_on timestamp
)`

func migrateDB() error {
	_, err := db.Exec(create_query_log_table)
	if err != nil {
		return fmt.Errorf("failed to create table query_log: %w", err)
	}
	slog.Info("Ensured table", "table", "query_log")
	return nil
}
