// File: protocol/command.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Command vocabulary of the time server wire protocol.

package protocol

import (
	"strings"
	"time"
	"unicode/utf8"
)

// MaxMessageSize is the size of the single read that carries one message.
// Longer inputs are truncated, never rejected.
const MaxMessageSize = 1024

const (
	// TimePrefix marks a time request; matched case-insensitively.
	TimePrefix = "TIME:"
	// EchoPrefix precedes the echoed text of any other message.
	EchoPrefix = "Server received: "
)

// Response layouts in local time.
const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04:05"
	FullLayout  = "2006-01-02 15:04:05"
)

// Kind distinguishes time requests from plain messages.
type Kind int

const (
	KindEcho Kind = iota
	KindTime
)

// TimeFormat selects the rendering of a time response.
type TimeFormat int

const (
	FormatFull TimeFormat = iota
	FormatDate
	FormatTime
)

func (f TimeFormat) String() string {
	switch f {
	case FormatDate:
		return "DATE"
	case FormatTime:
		return "TIME"
	default:
		return "FULL"
	}
}

// Layout returns the time layout for f.
func (f TimeFormat) Layout() string {
	switch f {
	case FormatDate:
		return DateLayout
	case FormatTime:
		return ClockLayout
	default:
		return FullLayout
	}
}

// Command is one parsed request.
type Command struct {
	Kind Kind
	// Format is meaningful for KindTime only.
	Format TimeFormat
	// Selector is the upper-cased text after the prefix, as sent.
	Selector string
	// Text is the message as received.
	Text string
}

// Decode turns raw bytes from one read into text. Every byte that does not
// start a valid UTF-8 sequence becomes its own U+FFFD.
func Decode(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	var sb strings.Builder
	sb.Grow(len(b) + 8)
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		if r == utf8.RuneError && size == 1 {
			sb.WriteRune(utf8.RuneError)
		} else {
			sb.Write(b[:size])
		}
		b = b[size:]
	}
	return sb.String()
}

// Parse classifies msg.
func Parse(msg string) Command {
	if len(msg) < len(TimePrefix) || !strings.EqualFold(msg[:len(TimePrefix)], TimePrefix) {
		return Command{Kind: KindEcho, Text: msg}
	}
	sel := strings.ToUpper(msg[len(TimePrefix):])
	cmd := Command{Kind: KindTime, Selector: sel, Text: msg}
	switch sel {
	case "DATE":
		cmd.Format = FormatDate
	case "TIME":
		cmd.Format = FormatTime
	default:
		cmd.Format = FormatFull
	}
	return cmd
}

// Respond renders the reply to c at instant now, in now's location.
func (c Command) Respond(now time.Time) string {
	if c.Kind == KindTime {
		return now.Format(c.Format.Layout())
	}
	return EchoPrefix + c.Text
}
