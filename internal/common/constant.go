// Package common contains shared constants used across task list components.
package common

// SessionCookieName is the name of the HTTP-only cookie carrying the signed
// session credential.
const SessionCookieName = "auth"

// Title length bounds enforced on both client and server.
const (
	TitleMinLen = 1
	TitleMaxLen = 32
)
