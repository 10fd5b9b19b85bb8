package library

import (
	"time"

	"bookshelf/internal/book"
)

// Msg is the result of a Cmd, fed back into Model.Update on the event loop.
type Msg interface{}

// Cmd is work that runs off the event loop and reports back with a Msg.
type Cmd func() Msg

// BatchMsg asks the event loop to run several commands concurrently.
type BatchMsg []Cmd

// Batch combines commands, dropping nil ones.
func Batch(cmds ...Cmd) Cmd {
	var valid []Cmd
	for _, c := range cmds {
		if c != nil {
			valid = append(valid, c)
		}
	}
	switch len(valid) {
	case 0:
		return nil
	case 1:
		return valid[0]
	}
	return func() Msg { return BatchMsg(valid) }
}

// After returns a Cmd that delivers msg once d has elapsed.
func After(d time.Duration, msg Msg) Cmd {
	return func() Msg {
		t := time.NewTimer(d)
		defer t.Stop()
		<-t.C
		return msg
	}
}

type booksLoadedMsg struct {
	items []book.Book
	total int
	err   error
}

type statsLoadedMsg struct {
	stats book.Stats
	err   error
}

type searchSettledMsg struct {
	gen int
}

type savedMsg struct {
	edit bool
	err  error
}

type deletedMsg struct {
	id  int64
	err error
}

type toggledMsg struct {
	err error
}
