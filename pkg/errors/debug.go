package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// ErrorDump flattens an error chain into log fields.
type ErrorDump struct {
	TopMessage string `json:"top_message"`
	Code       Code   `json:"code,omitempty"`
	Retryable  bool   `json:"retryable,omitempty"`

	Chain []string `json:"chain,omitempty"`

	// Upstream carries the status and title recorded by the adoption API client.
	UpstreamStatus int    `json:"upstream_status,omitempty"`
	UpstreamTitle  string `json:"upstream_title,omitempty"`

	DB *DBFailure `json:"db,omitempty"`
}

// DBFailure describes a driver error from Postgres (pgx or pq) or SQLite.
type DBFailure struct {
	Code       string `json:"code,omitempty"`
	Constraint string `json:"constraint,omitempty"`
	Table      string `json:"table,omitempty"`
	Column     string `json:"column,omitempty"`
	Detail     string `json:"detail,omitempty"`
	Message    string `json:"message,omitempty"`
}

// Fields returns the dump as a flat map for the structured logger.
func (d ErrorDump) Fields() map[string]any {
	fields := map[string]any{
		"error":       d.TopMessage,
		"error_code":  d.Code,
		"error_chain": d.Chain,
	}
	if d.Retryable {
		fields["retryable"] = true
	}
	if d.UpstreamStatus != 0 {
		fields["upstream_status"] = d.UpstreamStatus
	}
	if d.UpstreamTitle != "" {
		fields["upstream_title"] = d.UpstreamTitle
	}
	if d.DB != nil {
		fields["db_code"] = d.DB.Code
		fields["db_constraint"] = d.DB.Constraint
		fields["db_table"] = d.DB.Table
		fields["db_column"] = d.DB.Column
		fields["db_detail"] = d.DB.Detail
		fields["db_message"] = d.DB.Message
	}
	return fields
}

func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{TopMessage: err.Error()}
	if te := As(err); te != nil {
		d.Code = te.Code()
		d.Retryable = MetadataFor(te.Code()).Retryable
		d.UpstreamStatus, d.UpstreamTitle = upstreamDetails(te.Details())
	}
	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}
	d.DB = dbFailure(err)
	return d
}

func upstreamDetails(details any) (int, string) {
	m, ok := details.(map[string]any)
	if !ok {
		return 0, ""
	}
	status, _ := m["status"].(int)
	title, _ := m["title"].(string)
	return status, title
}

func dbFailure(err error) *DBFailure {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return &DBFailure{
			Code:       pgxErr.Code,
			Constraint: pgxErr.ConstraintName,
			Table:      pgxErr.TableName,
			Column:     pgxErr.ColumnName,
			Detail:     pgxErr.Detail,
			Message:    pgxErr.Message,
		}
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return &DBFailure{
			Code:       string(pqErr.Code),
			Constraint: pqErr.Constraint,
			Table:      pqErr.Table,
			Column:     pqErr.Column,
			Detail:     pqErr.Detail,
			Message:    pqErr.Message,
		}
	}

	// SQLite only reports text, e.g. "UNIQUE constraint failed: users.email".
	// The innermost match is the driver's own message.
	var failure *DBFailure
	for e := err; e != nil; e = errors.Unwrap(e) {
		msg := e.Error()
		kind, target, ok := strings.Cut(msg, " constraint failed: ")
		if !ok {
			continue
		}
		failure = &DBFailure{Code: strings.ToLower(kind), Message: msg}
		if table, column, ok := strings.Cut(strings.TrimSpace(target), "."); ok {
			failure.Table = table
			failure.Column = column
		}
	}
	return failure
}
