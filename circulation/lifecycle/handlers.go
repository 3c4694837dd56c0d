package lifecycle

import (
	"fmt"

	"github.com/schoollibrary/circulation/circulation/core"
	"github.com/schoollibrary/circulation/circulation/features/command/cancelreservation"
	"github.com/schoollibrary/circulation/circulation/features/command/confirmreservation"
	"github.com/schoollibrary/circulation/circulation/features/command/declareloanlost"
	"github.com/schoollibrary/circulation/circulation/features/command/expireholds"
	"github.com/schoollibrary/circulation/circulation/features/command/pickupreservation"
	"github.com/schoollibrary/circulation/circulation/features/command/placereservation"
	"github.com/schoollibrary/circulation/circulation/features/command/renewloan"
	"github.com/schoollibrary/circulation/circulation/features/command/returnloan"
	"github.com/schoollibrary/circulation/circulation/features/command/stockbookcopies"
	"github.com/schoollibrary/circulation/circulation/features/command/withdrawbookcopies"
	"github.com/schoollibrary/circulation/circulation/features/query/allreservations"
	"github.com/schoollibrary/circulation/circulation/features/query/bookavailability"
	"github.com/schoollibrary/circulation/circulation/features/query/locate"
	"github.com/schoollibrary/circulation/circulation/features/query/sweepcandidates"
	"github.com/schoollibrary/circulation/circulation/features/query/userloans"
	"github.com/schoollibrary/circulation/circulation/features/query/userreservations"
	"github.com/schoollibrary/circulation/circulation/shell"
	"github.com/schoollibrary/circulation/circulation/shell/observable"
)

// HandlerBundle contains all command and query handlers, each wrapped with observability.
type HandlerBundle struct {
	// Command handlers.
	stockBookCopies    shell.CoreCommandHandler[stockbookcopies.Command]
	withdrawBookCopies shell.CoreCommandHandler[withdrawbookcopies.Command]
	placeReservation   shell.CoreCommandHandler[placereservation.Command]
	confirmReservation shell.CoreCommandHandler[confirmreservation.Command]
	cancelReservation  shell.CoreCommandHandler[cancelreservation.Command]
	pickupReservation  shell.CoreCommandHandler[pickupreservation.Command]
	returnLoan         shell.CoreCommandHandler[returnloan.Command]
	renewLoan          shell.CoreCommandHandler[renewloan.Command]
	expireHolds        shell.CoreCommandHandler[expireholds.Command]
	declareLoanLost    shell.CoreCommandHandler[declareloanlost.Command]

	// Query handlers.
	bookAvailability shell.CoreQueryHandler[bookavailability.Query, bookavailability.BookAvailability]
	locate           shell.CoreQueryHandler[locate.Query, locate.Location]
	userReservations shell.CoreQueryHandler[userreservations.Query, userreservations.UserReservations]
	allReservations  shell.CoreQueryHandler[allreservations.Query, allreservations.AllReservations]
	userLoans        shell.CoreQueryHandler[userloans.Query, userloans.UserLoans]
	sweepCandidates  shell.CoreQueryHandler[sweepcandidates.Query, sweepcandidates.SweepCandidates]
}

// NewHandlerBundle creates all handlers on eventStore.
func NewHandlerBundle(
	eventStore shell.EventStore,
	policy core.Policy,
	observability Observability,
	retryOptions ...shell.RetryOption,
) (*HandlerBundle, error) {

	var (
		bundle HandlerBundle
		err    error
	)

	if bundle.stockBookCopies, err = wrapCommand[stockbookcopies.Command](stockbookcopies.NewCommandHandler(eventStore,
		stockbookcopies.WithPolicy(policy),
		stockbookcopies.WithRetryOptions(retryOptionsFor(stockbookcopies.Command{}, observability, retryOptions)...),
	), observability); err != nil {
		return nil, fmt.Errorf("failed to create StockBookCopies handler: %w", err)
	}

	if bundle.withdrawBookCopies, err = wrapCommand[withdrawbookcopies.Command](withdrawbookcopies.NewCommandHandler(eventStore,
		withdrawbookcopies.WithRetryOptions(retryOptionsFor(withdrawbookcopies.Command{}, observability, retryOptions)...),
	), observability); err != nil {
		return nil, fmt.Errorf("failed to create WithdrawBookCopies handler: %w", err)
	}

	if bundle.placeReservation, err = wrapCommand[placereservation.Command](placereservation.NewCommandHandler(eventStore,
		placereservation.WithPolicy(policy),
		placereservation.WithRetryOptions(retryOptionsFor(placereservation.Command{}, observability, retryOptions)...),
	), observability); err != nil {
		return nil, fmt.Errorf("failed to create PlaceReservation handler: %w", err)
	}

	if bundle.confirmReservation, err = wrapCommand[confirmreservation.Command](confirmreservation.NewCommandHandler(eventStore,
		confirmreservation.WithPolicy(policy),
		confirmreservation.WithRetryOptions(retryOptionsFor(confirmreservation.Command{}, observability, retryOptions)...),
	), observability); err != nil {
		return nil, fmt.Errorf("failed to create ConfirmReservation handler: %w", err)
	}

	if bundle.cancelReservation, err = wrapCommand[cancelreservation.Command](cancelreservation.NewCommandHandler(eventStore,
		cancelreservation.WithPolicy(policy),
		cancelreservation.WithRetryOptions(retryOptionsFor(cancelreservation.Command{}, observability, retryOptions)...),
	), observability); err != nil {
		return nil, fmt.Errorf("failed to create CancelReservation handler: %w", err)
	}

	if bundle.pickupReservation, err = wrapCommand[pickupreservation.Command](pickupreservation.NewCommandHandler(eventStore,
		pickupreservation.WithPolicy(policy),
		pickupreservation.WithRetryOptions(retryOptionsFor(pickupreservation.Command{}, observability, retryOptions)...),
	), observability); err != nil {
		return nil, fmt.Errorf("failed to create PickupReservation handler: %w", err)
	}

	if bundle.returnLoan, err = wrapCommand[returnloan.Command](returnloan.NewCommandHandler(eventStore,
		returnloan.WithPolicy(policy),
		returnloan.WithRetryOptions(retryOptionsFor(returnloan.Command{}, observability, retryOptions)...),
	), observability); err != nil {
		return nil, fmt.Errorf("failed to create ReturnLoan handler: %w", err)
	}

	if bundle.renewLoan, err = wrapCommand[renewloan.Command](renewloan.NewCommandHandler(eventStore,
		renewloan.WithPolicy(policy),
		renewloan.WithRetryOptions(retryOptionsFor(renewloan.Command{}, observability, retryOptions)...),
	), observability); err != nil {
		return nil, fmt.Errorf("failed to create RenewLoan handler: %w", err)
	}

	if bundle.expireHolds, err = wrapCommand[expireholds.Command](expireholds.NewCommandHandler(eventStore,
		expireholds.WithPolicy(policy),
		expireholds.WithRetryOptions(retryOptionsFor(expireholds.Command{}, observability, retryOptions)...),
	), observability); err != nil {
		return nil, fmt.Errorf("failed to create ExpireHolds handler: %w", err)
	}

	if bundle.declareLoanLost, err = wrapCommand[declareloanlost.Command](declareloanlost.NewCommandHandler(eventStore,
		declareloanlost.WithRetryOptions(retryOptionsFor(declareloanlost.Command{}, observability, retryOptions)...),
	), observability); err != nil {
		return nil, fmt.Errorf("failed to create DeclareLoanLost handler: %w", err)
	}

	if bundle.bookAvailability, err = wrapQuery[bookavailability.Query, bookavailability.BookAvailability](bookavailability.NewQueryHandler(eventStore), observability); err != nil {
		return nil, fmt.Errorf("failed to create BookAvailability handler: %w", err)
	}

	if bundle.locate, err = wrapQuery[locate.Query, locate.Location](locate.NewQueryHandler(eventStore), observability); err != nil {
		return nil, fmt.Errorf("failed to create Locate handler: %w", err)
	}

	if bundle.userReservations, err = wrapQuery[userreservations.Query, userreservations.UserReservations](userreservations.NewQueryHandler(eventStore), observability); err != nil {
		return nil, fmt.Errorf("failed to create UserReservations handler: %w", err)
	}

	if bundle.allReservations, err = wrapQuery[allreservations.Query, allreservations.AllReservations](allreservations.NewQueryHandler(eventStore), observability); err != nil {
		return nil, fmt.Errorf("failed to create AllReservations handler: %w", err)
	}

	if bundle.userLoans, err = wrapQuery[userloans.Query, userloans.UserLoans](userloans.NewQueryHandler(eventStore), observability); err != nil {
		return nil, fmt.Errorf("failed to create UserLoans handler: %w", err)
	}

	if bundle.sweepCandidates, err = wrapQuery[sweepcandidates.Query, sweepcandidates.SweepCandidates](sweepcandidates.NewQueryHandler(eventStore), observability); err != nil {
		return nil, fmt.Errorf("failed to create SweepCandidates handler: %w", err)
	}

	return &bundle, nil
}

// retryOptionsFor appends per-command retry metrics when a collector is configured.
func retryOptionsFor(command shell.Command, observability Observability, retryOptions []shell.RetryOption) []shell.RetryOption {
	if observability.MetricsCollector == nil {
		return retryOptions
	}

	opts := make([]shell.RetryOption, 0, len(retryOptions)+1)
	opts = append(opts, retryOptions...)

	return append(opts, shell.WithMetrics(observability.MetricsCollector, command.CommandType()))
}

func wrapCommand[C shell.Command](
	coreHandler shell.CoreCommandHandler[C],
	observability Observability,
) (shell.CoreCommandHandler[C], error) {

	opts := make([]observable.CommandOption[C], 0, 3)

	if observability.MetricsCollector != nil {
		opts = append(opts, observable.WithCommandMetrics[C](observability.MetricsCollector))
	}

	if observability.TracingCollector != nil {
		opts = append(opts, observable.WithCommandTracing[C](observability.TracingCollector))
	}

	if observability.ContextualLogger != nil {
		opts = append(opts, observable.WithCommandContextualLogging[C](observability.ContextualLogger))
	}

	wrapper, err := observable.NewCommandWrapper[C](coreHandler, opts...)
	if err != nil {
		return nil, err
	}

	return wrapper, nil
}

func wrapQuery[Q shell.Query, R shell.QueryResult](
	coreHandler shell.CoreQueryHandler[Q, R],
	observability Observability,
) (shell.CoreQueryHandler[Q, R], error) {

	opts := make([]observable.QueryOption[Q, R], 0, 3)

	if observability.MetricsCollector != nil {
		opts = append(opts, observable.WithQueryMetrics[Q, R](observability.MetricsCollector))
	}

	if observability.TracingCollector != nil {
		opts = append(opts, observable.WithQueryTracing[Q, R](observability.TracingCollector))
	}

	if observability.ContextualLogger != nil {
		opts = append(opts, observable.WithQueryContextualLogging[Q, R](observability.ContextualLogger))
	}

	wrapper, err := observable.NewQueryWrapper[Q, R](coreHandler, opts...)
	if err != nil {
		return nil, err
	}

	return wrapper, nil
}
