// Package notifications delivers finished stories over email.
//
// The only backend is an HTTP mailer speaking the Resend wire format. When no
// API key is configured a noop mailer is used so the rest of the pipeline can
// run without outbound email.
package notifications
