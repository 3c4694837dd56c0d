package notify

import (
	"context"
	"errors"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	jsoniter "github.com/json-iterator/go"
)

const (
	defaultOutboxTable = "notifications"
	dialectPostgres    = "postgres"
)

var (
	ErrBuildingOutboxInsertFailed = errors.New("building notification insert failed")
	ErrWritingOutboxFailed        = errors.New("writing notification to outbox failed")
)

// Execer is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type Execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// PostgresOutbox stores notifications in a table that delivery workers outside this service poll.
// Writing the same notification twice is not an error.
type PostgresOutbox struct {
	db        Execer
	tableName string
}

func NewPostgresOutbox(db Execer) PostgresOutbox {
	return PostgresOutbox{db: db, tableName: defaultOutboxTable}
}

func (o PostgresOutbox) Notify(ctx context.Context, notification Notification) error {
	data, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(notification.Data)
	if err != nil {
		return errors.Join(ErrBuildingOutboxInsertFailed, err)
	}

	sqlQuery, args, err := goqu.Dialect(dialectPostgres).
		Insert(o.tableName).
		Rows(goqu.Record{
			"id":         notification.ID,
			"user_id":    notification.UserID,
			"type":       string(notification.Type),
			"title":      notification.Title,
			"message":    notification.Message,
			"data":       string(data),
			"created_at": notification.CreatedAt,
		}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return errors.Join(ErrBuildingOutboxInsertFailed, err)
	}

	if _, err := o.db.Exec(ctx, sqlQuery, args...); err != nil {
		if isUniqueViolation(err) {
			return nil
		}

		return errors.Join(ErrWritingOutboxFailed, err)
	}

	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
