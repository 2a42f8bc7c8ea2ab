// Package authz derives the caller's role from its email against the
// configured datasite owner and gates every mutating operation behind
// it. There is no resource server here: the mailbox transport already
// confines a session to one caller, so the gate only needs to answer
// "is this caller the owner".
package authz

import "context"

type contextKey string

const callerEmailKey contextKey = "caller_email"

// WithCallerEmail stores the authenticated caller's email in ctx for
// the lifetime of a single request. It is never stored on a long-lived
// struct: each inbound RPC message carries its own caller identity.
func WithCallerEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, callerEmailKey, email)
}

// CallerEmail retrieves the email stored by WithCallerEmail, or "" if
// none is present.
func CallerEmail(ctx context.Context) string {
	email, _ := ctx.Value(callerEmailKey).(string)
	return email
}
