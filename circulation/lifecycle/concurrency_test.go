package lifecycle_test

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoollibrary/circulation/circulation/clock"
	"github.com/schoollibrary/circulation/circulation/core"
	"github.com/schoollibrary/circulation/circulation/lifecycle"
	"github.com/schoollibrary/circulation/circulation/shell"
	"github.com/schoollibrary/circulation/eventstore/memengine"
	"github.com/schoollibrary/circulation/testutil/postgreswrapper"
)

func Test_ConcurrentOperationsOnOneBook_KeepCopiesAndQueueConsistent(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		runConcurrentCirculation(t, memengine.NewEventStore())
	})

	t.Run("postgres", func(t *testing.T) {
		runConcurrentCirculation(t, postgreswrapper.New(t).EventStore())
	})
}

func runConcurrentCirculation(t *testing.T, eventStore shell.EventStore) {
	// arrange
	ctx := context.Background()
	service, err := lifecycle.NewService(
		eventStore,
		lifecycle.WithClock(clock.NewManual(now)),
		lifecycle.WithRetryOptions(shell.WithMaxAttempts(16), shell.WithBaseDelay(time.Millisecond)),
	)
	require.NoError(t, err)
	t.Cleanup(service.Wait)

	_, err = service.StockCopies(ctx, "b-1", "Momo", 3)
	require.NoError(t, err)

	// act: six users reserve and confirm at the same time
	fanOut(t, 6, func(i int) error {
		reservation, err := service.Reserve(ctx, fmt.Sprintf("u-%d", i), "b-1", "")
		if err != nil {
			return err
		}

		_, err = service.ConfirmReservation(ctx, reservation.ReservationID)

		return err
	})

	// assert
	ready := assertBookConsistent(t, ctx, service, 3)
	require.Len(t, ready, 3)

	// act: the holders pick up at the same time
	loans := make([]core.Loan, len(ready))
	fanOut(t, len(ready), func(i int) error {
		pickup, err := service.PickupReservation(ctx, ready[i].ReservationID)
		loans[i] = pickup.Loan

		return err
	})

	// act: two loans come back while the third borrower renews and two more users queue up
	var renewErr error
	fanOut(t, 5, func(i int) error {
		switch i {
		case 0, 1:
			_, err := service.ReturnBook(ctx, loans[i].LoanID)
			return err
		case 2:
			_, renewErr = service.RenewBook(ctx, loans[i].LoanID)
			return nil
		default:
			_, err := service.Reserve(ctx, fmt.Sprintf("u-late-%d", i), "b-1", "")
			return err
		}
	})

	// assert
	assert.ErrorIs(t, renewErr, core.ErrHasPendingReservations)
	ready = assertBookConsistent(t, ctx, service, 3)
	assert.Len(t, ready, 2)

	stillLent, err := service.GetUserLoans(ctx, loans[2].UserID, true)
	require.NoError(t, err)
	assert.Equal(t, 1, stillLent.Count)
}

// fanOut starts n operations at once and requires all of them to succeed.
func fanOut(t *testing.T, n int, op func(i int) error) {
	t.Helper()

	var wg sync.WaitGroup
	start := make(chan struct{})
	errs := make([]error, n)

	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			errs[i] = op(i)
		}()
	}

	close(start)
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "operation %d", i)
	}
}

// assertBookConsistent checks the copy counts and the queue of b-1 and returns its ready holds.
func assertBookConsistent(t *testing.T, ctx context.Context, service *lifecycle.Service, total int) []core.Reservation {
	t.Helper()

	availability, err := service.GetAvailability(ctx, "b-1")
	require.NoError(t, err)
	assert.Equal(t, total, availability.TotalCopies)
	assert.GreaterOrEqual(t, availability.AvailableCopies, 0)
	assert.LessOrEqual(t, availability.AvailableCopies, availability.TotalCopies)

	all, err := service.GetAllReservations(ctx, "")
	require.NoError(t, err)

	ready := make([]core.Reservation, 0)
	priorities := make([]int, 0)
	users := make(map[core.UserIDString]struct{})

	for _, reservation := range all.Reservations {
		users[reservation.UserID] = struct{}{}

		switch {
		case reservation.Status == core.ReservationStatusReadyForPickup:
			ready = append(ready, reservation)
		case reservation.Status.IsWaiting():
			priorities = append(priorities, reservation.Priority)
		}
	}

	slices.Sort(priorities)
	for i, priority := range priorities {
		assert.Equal(t, i+1, priority, "priorities are dense and start at 1")
	}
	assert.Equal(t, len(priorities), availability.QueueLength)

	openLoans := 0
	for userID := range users {
		loans, err := service.GetUserLoans(ctx, userID, true)
		require.NoError(t, err)
		openLoans += loans.Count
	}

	assert.Equal(t, total, availability.AvailableCopies+len(ready)+openLoans, "every copy is on the shelf, held or lent")

	return ready
}
