// Package audit provides audit logging for security-relevant portal
// operations.
//
// Events are written in RFC5424 syslog format and, when
// AUDIT_DATABASE_URL is set, persisted to the audit_messages table.
//
// # Event Types
//
//   - Login events (success/failure)
//   - Subscription changes
//   - Harvest runs
//   - Schedule transitions
//   - Link check runs
//
// # Usage
//
//	audit.Log(audit.LoginEvent{Email: email, ClientIP: ip, Success: true})
package audit
