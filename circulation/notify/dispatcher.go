package notify

import (
	"context"
	"errors"
	"sync"

	"github.com/schoollibrary/circulation/circulation/shell"
)

const (
	defaultBufferSize = 256
	defaultWorkers    = 2

	logMsgNotificationSent    = "notification sent"
	logMsgNotificationDropped = "notification dropped, buffer full"
	logMsgNotifyFailed        = "notification delivery failed"

	logAttrNotificationID = "notification_id"
	logAttrUserID         = "user_id"
	logAttrType           = "type"
	logAttrError          = "error"

	notificationsDispatchedMetric = "notifications_dispatched_total"
	notificationsDroppedMetric    = "notifications_dropped_total"
	notificationsFailedMetric     = "notifications_failed_total"
)

var ErrDispatcherClosed = errors.New("notification dispatcher is closed")

// Dispatcher fans notifications out to all notifiers from a buffered queue served by
// a fixed number of workers. Publish never blocks.
type Dispatcher struct {
	notifiers        []Notifier
	queue            chan Notification
	workers          int
	logger           shell.ContextualLogger
	metricsCollector shell.MetricsCollector

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

type DispatcherOption func(*Dispatcher)

func WithBufferSize(size int) DispatcherOption {
	return func(d *Dispatcher) {
		if size > 0 {
			d.queue = make(chan Notification, size)
		}
	}
}

func WithWorkers(workers int) DispatcherOption {
	return func(d *Dispatcher) {
		if workers > 0 {
			d.workers = workers
		}
	}
}

func WithLogger(logger shell.ContextualLogger) DispatcherOption {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

func WithMetrics(collector shell.MetricsCollector) DispatcherOption {
	return func(d *Dispatcher) {
		d.metricsCollector = collector
	}
}

// NewDispatcher creates a Dispatcher. Call Start before publishing and Close on shutdown.
func NewDispatcher(notifiers []Notifier, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		notifiers: notifiers,
		queue:     make(chan Notification, defaultBufferSize),
		workers:   defaultWorkers,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Start launches the workers. Deliveries use ctx, so cancelling it aborts in-flight sends.
func (d *Dispatcher) Start(ctx context.Context) {
	for range d.workers {
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			for notification := range d.queue {
				d.deliver(ctx, notification)
			}
		}()
	}
}

// Publish enqueues notifications. When the buffer is full the notification is dropped and logged.
func (d *Dispatcher) Publish(ctx context.Context, notifications ...Notification) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, notification := range notifications {
		if d.closed {
			d.logWarn(ctx, logMsgNotificationDropped, notification, ErrDispatcherClosed)
			continue
		}

		select {
		case d.queue <- notification:
		default:
			d.logWarn(ctx, logMsgNotificationDropped, notification, nil)
			d.incrementCounter(notificationsDroppedMetric, notification)
		}
	}
}

// Close stops accepting notifications and waits until the buffered ones are delivered.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	d.wg.Wait()
}

func (d *Dispatcher) deliver(ctx context.Context, notification Notification) {
	for _, notifier := range d.notifiers {
		if err := notifier.Notify(ctx, notification); err != nil {
			d.logWarn(ctx, logMsgNotifyFailed, notification, err)
			d.incrementCounter(notificationsFailedMetric, notification)
			continue
		}

		d.incrementCounter(notificationsDispatchedMetric, notification)
	}
}

func (d *Dispatcher) logWarn(ctx context.Context, msg string, notification Notification, err error) {
	if d.logger == nil {
		return
	}

	args := []any{
		logAttrNotificationID, notification.ID,
		logAttrUserID, notification.UserID,
		logAttrType, string(notification.Type),
	}
	if err != nil {
		args = append(args, logAttrError, err.Error())
	}

	d.logger.WarnContext(ctx, msg, args...)
}

func (d *Dispatcher) incrementCounter(metric string, notification Notification) {
	if d.metricsCollector == nil {
		return
	}

	d.metricsCollector.IncrementCounter(metric, map[string]string{logAttrType: string(notification.Type)})
}
