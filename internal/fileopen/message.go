// Package fileopen picks a .gr2 file through the platform's file dialog
// and delivers its bytes as a Message.
package fileopen

import (
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
)

const (
	// Extension is the only file type offered by the dialogs.
	Extension  = ".gr2"
	FilterName = "Granny2 File"
)

// Message carries the bytes of one opened file. Err is set when the file
// was chosen but could not be read.
type Message struct {
	ID   string
	Name string
	Data []byte
	Err  error
}

// Sink receives opened files.
type Sink interface {
	Send(msg Message)
}

// Service opens the platform file picker. Each call delivers at most one
// Message to sink; a cancelled dialog delivers nothing.
type Service interface {
	Open(sink Sink)
}

// NewMessage stamps a message with a fresh ID. A non-nil err marks a file
// that was chosen but could not be read.
func NewMessage(name string, data []byte, err error) Message {
	if err != nil {
		data = nil
	}
	return Message{ID: uuid.NewString(), Name: name, Data: data, Err: err}
}

// ReadMessage drains r into a Message named name.
func ReadMessage(r io.Reader, name string) (Message, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Message{}, fmt.Errorf("read %s: %w", name, err)
	}
	return NewMessage(name, data, nil), nil
}

// Inbox is an unbounded queue of messages. Send never blocks and may be
// called from any goroutine; TryRecv is for the single UI consumer.
type Inbox struct {
	mu      sync.Mutex
	pending []Message
}

func NewInbox() *Inbox {
	return &Inbox{}
}

func (i *Inbox) Send(msg Message) {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.pending = append(i.pending, msg)
}

// TryRecv pops the oldest message without blocking.
func (i *Inbox) TryRecv() (Message, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if len(i.pending) == 0 {
		return Message{}, false
	}
	msg := i.pending[0]
	i.pending[0] = Message{}
	i.pending = i.pending[1:]
	return msg, true
}

func (i *Inbox) Len() int {
	i.mu.Lock()
	defer i.mu.Unlock()

	return len(i.pending)
}
