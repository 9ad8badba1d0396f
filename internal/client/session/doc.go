// Package session drives the visitor's journey through the gym client.
//
// A Controller starts Anonymous and becomes Identified after the first
// successful login; there is no way back. Member-scoped actions are refused
// with a warning while Anonymous and never reach the backend. Every outcome
// is posted to a Notifier as a Notice and failures are also returned as
// errors so callers can branch on the error code.
package session
