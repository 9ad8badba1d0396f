// Package devbackend is a local reference implementation of the gym backend
// HTTP contract.
//
// It exists so the web client can run end to end without the production
// backend: members are upserted by email, workouts and bookings are scoped
// by member_id, and every failure answers with a `{"detail": "..."}` body.
package devbackend
