package core

// InventoryLedger holds the copy counts of one title. It keeps 0 <= Available <= Total at all times.
type InventoryLedger struct {
	Total     int
	Available int
}

// Availability is the read view of the ledger.
type Availability struct {
	Total     int
	Available int
}

func (l InventoryLedger) Availability() Availability {
	return Availability{Total: l.Total, Available: l.Available}
}

// ReserveCopy takes one copy off the shelf for a hold.
func (l *InventoryLedger) ReserveCopy() error {
	if l.Available <= 0 {
		return ErrNoCopiesAvailable
	}

	l.Available--

	return nil
}

// ReleaseCopy puts one copy back, never above Total.
func (l *InventoryLedger) ReleaseCopy() {
	if l.Available < l.Total {
		l.Available++
	}
}

func (l *InventoryLedger) addCopies(n int) {
	l.Total += n
	l.Available += n
}

func (l *InventoryLedger) withdrawCopies(n int) {
	l.Total = max(0, l.Total-n)
	l.Available = min(max(0, l.Available-n), l.Total)
}

// loseLentCopy drops a copy that was out on loan, it was never counted as available.
func (l *InventoryLedger) loseLentCopy() {
	l.Total = max(0, l.Total-1)
	l.Available = min(l.Available, l.Total)
}
