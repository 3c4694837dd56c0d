// Package expireholds implements the per-book step of the expiry sweep: lapsed pickup holds
// expire, their copies go to the next waiting users and past-due loans are flagged as overdue.
package expireholds
