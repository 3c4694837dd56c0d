package eventstore

import (
	"errors"
)

// Sentinel errors returned by the engines in this module.
var (
	ErrConcurrencyConflict = errors.New("concurrency conflict: the event stream was changed by another writer")
	ErrEmptyEventsToAppend = errors.New("no events supplied for append")

	ErrEmptyEventsTableName  = errors.New("empty events table name supplied")
	ErrNilDatabaseConnection = errors.New("nil database connection supplied")

	ErrBuildingQueryFailed         = errors.New("building the sql query failed")
	ErrQueryingEventsFailed        = errors.New("querying events failed")
	ErrScanningDBRowFailed         = errors.New("scanning a db row failed")
	ErrBuildingStorableEventFailed = errors.New("building a storable event from a db row failed")
	ErrAppendingEventFailed        = errors.New("appending events failed")
	ErrGettingRowsAffectedFailed   = errors.New("getting the affected rows failed")
)

// MaxSequenceNumberUint is the highest sequence number found in a dynamic event stream.
// It is returned by Query and handed back to Append as the expected stream version.
type MaxSequenceNumberUint = uint
