// Package probe checks whether a network target answers, over TCP or ICMP.
// An unanswered probe is a valid reading (Available false), not an error.
package probe

import (
	"strings"
)

// FailReason categorizes why a target did not answer. It only feeds debug logs.
type FailReason int

const (
	FailUnknown FailReason = iota
	FailTimeout
	FailRefused
	FailUnreachable
	FailResolve
)

// String returns a human-readable description of the failure reason.
func (r FailReason) String() string {
	switch r {
	case FailTimeout:
		return "connection timed out"
	case FailRefused:
		return "connection refused"
	case FailUnreachable:
		return "host unreachable"
	case FailResolve:
		return "name resolution failed"
	default:
		return "unknown error"
	}
}

// categorize maps a dial error onto a FailReason by its message.
func categorize(err error) FailReason {
	if err == nil {
		return FailUnknown
	}

	errStr := strings.ToLower(err.Error())

	switch {
	case strings.Contains(errStr, "timeout"), strings.Contains(errStr, "deadline exceeded"):
		return FailTimeout
	case strings.Contains(errStr, "connection refused"):
		return FailRefused
	case strings.Contains(errStr, "no route to host"),
		strings.Contains(errStr, "network is unreachable"),
		strings.Contains(errStr, "host is down"):
		return FailUnreachable
	case strings.Contains(errStr, "no such host"),
		strings.Contains(errStr, "server misbehaving"):
		return FailResolve
	}
	return FailUnknown
}
