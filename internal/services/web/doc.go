// Package web serves the gym dashboard.
//
// The page is rendered on the server from the session controller's View.
// Actions are plain form posts that run one controller operation and
// redirect back to the dashboard, where queued notices are shown once.
package web
