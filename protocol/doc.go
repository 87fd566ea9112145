// Package protocol implements the plain-text request/response vocabulary of
// the time server. There is no framing: one read carries one message and
// one write carries its reply.
package protocol
