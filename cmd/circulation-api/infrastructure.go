package main

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/schoollibrary/circulation/circulation/lifecycle"
	"github.com/schoollibrary/circulation/circulation/notify"
	"github.com/schoollibrary/circulation/circulation/readmodel"
	"github.com/schoollibrary/circulation/circulation/shell"
	"github.com/schoollibrary/circulation/circulation/shell/config"
	"github.com/schoollibrary/circulation/eventstore/memengine"
	"github.com/schoollibrary/circulation/eventstore/postgresengine"
	"github.com/schoollibrary/circulation/migrations"
)

// infrastructure owns every connection of the process.
type infrastructure struct {
	eventStore shell.EventStore
	pool       *pgxpool.Pool
	sqlDB      *sql.DB
	sqlxDB     *sqlx.DB
	writer     *readmodel.Writer
	reader     *readmodel.Reader
}

// openInfrastructure connects the event store through the configured adapter. With Postgres,
// migrations run on a pgx pool and the read model always gets a sqlx handle.
func openInfrastructure(ctx context.Context, cfg config.Config, obs lifecycle.Observability) (*infrastructure, error) {
	infra := &infrastructure{}

	if cfg.DBAdapter == config.AdapterMemory {
		infra.eventStore = memengine.NewEventStore(memengine.WithContextualLogger(obs.ContextualLogger))
		return infra, nil
	}

	var err error
	if infra.pool, err = config.NewPGXPool(ctx, cfg.DatabaseURL); err != nil {
		return nil, err
	}

	if err = migrations.Apply(ctx, infra.pool); err != nil {
		infra.Close()
		return nil, err
	}

	if infra.sqlxDB, err = config.NewSQLX(ctx, cfg.DatabaseURL); err != nil {
		infra.Close()
		return nil, err
	}

	storeOptions := []postgresengine.Option{
		postgresengine.WithContextualLogger(obs.ContextualLogger),
		postgresengine.WithMetrics(obs.MetricsCollector),
		postgresengine.WithTracing(obs.TracingCollector),
	}

	switch cfg.DBAdapter {
	case config.AdapterSQLDB:
		if infra.sqlDB, err = config.NewSQLDB(ctx, cfg.DatabaseURL); err == nil {
			infra.eventStore, err = postgresengine.NewEventStoreFromSQLDB(infra.sqlDB, storeOptions...)
		}
	case config.AdapterSQLX:
		infra.eventStore, err = postgresengine.NewEventStoreFromSQLX(infra.sqlxDB, storeOptions...)
	default:
		infra.eventStore, err = postgresengine.NewEventStoreFromPGXPool(infra.pool, storeOptions...)
	}
	if err != nil {
		infra.Close()
		return nil, err
	}

	if infra.writer, err = readmodel.NewWriter(infra.sqlxDB); err != nil {
		infra.Close()
		return nil, err
	}

	if infra.reader, err = readmodel.NewReader(infra.sqlxDB); err != nil {
		infra.Close()
		return nil, err
	}

	return infra, nil
}

// notifiers always logs and adds the outbox when Postgres is available.
func (i *infrastructure) notifiers(logger *slog.Logger) []notify.Notifier {
	notifiers := []notify.Notifier{notify.NewLogNotifier(logger)}
	if i.pool != nil {
		notifiers = append(notifiers, notify.NewPostgresOutbox(i.pool))
	}

	return notifiers
}

func (i *infrastructure) Close() {
	if i.sqlDB != nil {
		_ = i.sqlDB.Close()
	}
	if i.sqlxDB != nil {
		_ = i.sqlxDB.Close()
	}
	if i.pool != nil {
		i.pool.Close()
	}
}
