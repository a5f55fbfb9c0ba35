package errors

import (
	stdErrors "errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/wneessen/go-mail"
)

// ErrorDump flattens an error chain for structured logs. Postgres and
// SMTP specifics are lifted out when present.
type ErrorDump struct {
	TopMessage string   `json:"top_message"`
	Code       Code     `json:"code,omitempty"`
	Chain      []string `json:"chain,omitempty"`

	PGCode       string `json:"pg_code,omitempty"`
	PGConstraint string `json:"pg_constraint,omitempty"`
	PGTable      string `json:"pg_table,omitempty"`
	PGColumn     string `json:"pg_column,omitempty"`
	PGDetail     string `json:"pg_detail,omitempty"`
	PGMessage    string `json:"pg_message,omitempty"`

	SMTPReason    string `json:"smtp_reason,omitempty"`
	SMTPTemporary bool   `json:"smtp_temporary,omitempty"`
}

func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}
	d := ErrorDump{TopMessage: err.Error()}
	if typed := As(err); typed != nil {
		d.Code = typed.Code()
	}
	for e := err; e != nil; e = stdErrors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}

	var pgErr *pgconn.PgError
	var sendErr *mail.SendError
	switch {
	case stdErrors.As(err, &pgErr):
		d.PGCode, d.PGMessage, d.PGDetail = pgErr.Code, pgErr.Message, pgErr.Detail
		d.PGTable, d.PGColumn, d.PGConstraint = pgErr.TableName, pgErr.ColumnName, pgErr.ConstraintName
	case stdErrors.As(err, &sendErr):
		d.SMTPReason = sendErr.Reason.String()
		d.SMTPTemporary = sendErr.IsTemp()
	}
	return d
}

// Fields renders the dump as logger fields, omitting empty driver details.
func (d ErrorDump) Fields() map[string]any {
	fields := map[string]any{
		"error":       d.TopMessage,
		"error_code":  d.Code,
		"error_chain": d.Chain,
	}
	if d.PGCode != "" {
		fields["pg_code"] = d.PGCode
		fields["pg_message"] = d.PGMessage
		fields["pg_detail"] = d.PGDetail
		fields["pg_table"] = d.PGTable
		fields["pg_column"] = d.PGColumn
		fields["pg_constraint"] = d.PGConstraint
	}
	if d.SMTPReason != "" {
		fields["smtp_reason"] = d.SMTPReason
		fields["smtp_temporary"] = d.SMTPTemporary
	}
	return fields
}
