// Package notify carries user notifications out of the circulation lifecycle.
//
// Notifications are side effects of committed transitions. Delivery is asynchronous and
// best effort: a full buffer or a failing channel is logged, never reported back to the
// operation that caused the notification.
package notify
