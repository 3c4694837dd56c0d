// Command circulation-seed fills a database with books and reservations for local runs.
//
// It goes through the circulation service, so the event store and the read model stay in sync.
// Connection settings come from the same environment as circulation-api.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"

	"github.com/schoollibrary/circulation/circulation/core"
	"github.com/schoollibrary/circulation/circulation/lifecycle"
	"github.com/schoollibrary/circulation/circulation/readmodel"
	"github.com/schoollibrary/circulation/circulation/shell/config"
	"github.com/schoollibrary/circulation/eventstore/postgresengine"
	"github.com/schoollibrary/circulation/migrations"
)

const (
	numBooks        = 200
	numUsers        = 120
	numReservations = 600
	maxCopies       = 4
	confirmPercent  = 60
)

var titles = []string{
	"Momo", "The Hobbit", "Matilda", "Charlotte's Web", "Holes", "Wonder", "Coraline",
	"The Giver", "Hatchet", "Frindle", "The BFG", "Inkheart", "Pippi Longstocking",
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	if err := seed(context.Background(), logger); err != nil {
		logger.Error("seeding failed", "error", err.Error())
		os.Exit(1)
	}
}

func seed(ctx context.Context, logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if cfg.DBAdapter == config.AdapterMemory {
		return errors.New("seeding needs a Postgres DB_ADAPTER")
	}

	pool, err := config.NewPGXPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err = migrations.Apply(ctx, pool); err != nil {
		return err
	}

	sqlxDB, err := config.NewSQLX(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() { _ = sqlxDB.Close() }()

	eventStore, err := postgresengine.NewEventStoreFromPGXPool(pool)
	if err != nil {
		return err
	}

	writer, err := readmodel.NewWriter(sqlxDB)
	if err != nil {
		return err
	}

	service, err := lifecycle.NewService(eventStore, lifecycle.WithPolicy(cfg.Policy), lifecycle.WithProjector(writer))
	if err != nil {
		return err
	}
	defer service.Wait()

	for i := range numBooks {
		bookID := bookIDFor(i)
		title := fmt.Sprintf("%s (%d)", titles[rand.IntN(len(titles))], i)
		if _, err = service.StockCopies(ctx, bookID, title, 1+rand.IntN(maxCopies)); err != nil {
			return err
		}
	}

	placed, confirmed, rejected := 0, 0, 0
	for range numReservations {
		userID := fmt.Sprintf("user-%03d", rand.IntN(numUsers))

		reservation, reserveErr := service.Reserve(ctx, userID, bookIDFor(rand.IntN(numBooks)), "")
		switch {
		case errors.Is(reserveErr, core.ErrPolicyViolation), errors.Is(reserveErr, core.ErrCapacityExceeded):
			rejected++
			continue
		case reserveErr != nil:
			return reserveErr
		}
		placed++

		if rand.IntN(100) >= confirmPercent {
			continue
		}

		if _, err = service.ConfirmReservation(ctx, reservation.ReservationID); err != nil {
			return err
		}
		confirmed++
	}

	logger.Info("seeding completed",
		"books", numBooks,
		"reservations_placed", placed,
		"reservations_confirmed", confirmed,
		"reservations_rejected", rejected,
	)

	return nil
}

func bookIDFor(i int) core.BookIDString {
	return fmt.Sprintf("book-%04d", i)
}
