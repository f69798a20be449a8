//go:build !js

package fileopen

import (
	"errors"
	"io"
	"sync"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"granny-viewer/internal/logger"
)

// dataReader is an in-memory fyne.URIReadCloser.
type dataReader struct {
	data   []byte
	pos    int
	uri    fyne.URI
	err    error
	closed bool
}

func (dr *dataReader) Read(p []byte) (int, error) {
	if dr.err != nil {
		return 0, dr.err
	}
	if dr.pos >= len(dr.data) {
		return 0, io.EOF
	}
	n := copy(p, dr.data[dr.pos:])
	dr.pos += n
	return n, nil
}

func (dr *dataReader) Close() error {
	dr.closed = true
	return nil
}

func (dr *dataReader) URI() fyne.URI {
	return dr.uri
}

func newTestOpener(reader fyne.URIReadCloser, dialogErr error) (*NativeOpener, *[]error) {
	var fatals []error
	o := &NativeOpener{
		logger: logger.NoOpLogger{},
		showDialog: func(callback func(fyne.URIReadCloser, error)) {
			callback(reader, dialogErr)
		},
		fatal: func(err error) { fatals = append(fatals, err) },
	}
	return o, &fatals
}

func TestInboxFIFO(t *testing.T) {
	inbox := NewInbox()

	_, ok := inbox.TryRecv()
	assert.False(t, ok)

	inbox.Send(Message{Name: "a.gr2"})
	inbox.Send(Message{Name: "b.gr2"})
	assert.Equal(t, 2, inbox.Len())

	msg, ok := inbox.TryRecv()
	require.True(t, ok)
	assert.Equal(t, "a.gr2", msg.Name)

	msg, ok = inbox.TryRecv()
	require.True(t, ok)
	assert.Equal(t, "b.gr2", msg.Name)

	_, ok = inbox.TryRecv()
	assert.False(t, ok)
}

func TestInboxConcurrentSend(t *testing.T) {
	inbox := NewInbox()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			inbox.Send(Message{Name: "x.gr2"})
		}()
	}
	wg.Wait()

	received := 0
	for {
		if _, ok := inbox.TryRecv(); !ok {
			break
		}
		received++
	}
	assert.Equal(t, 50, received)
}

func TestReadMessage(t *testing.T) {
	msg, err := ReadMessage(&dataReader{data: []byte{1, 2, 3}}, "model.gr2")
	require.NoError(t, err)
	assert.Equal(t, "model.gr2", msg.Name)
	assert.Equal(t, []byte{1, 2, 3}, msg.Data)
	assert.NotEmpty(t, msg.ID)
	assert.NoError(t, msg.Err)

	_, err = ReadMessage(&dataReader{err: errors.New("disk gone")}, "model.gr2")
	assert.ErrorContains(t, err, "disk gone")
}

func TestNewMessage(t *testing.T) {
	ok := NewMessage("hero.gr2", []byte{7}, nil)
	assert.NotEmpty(t, ok.ID)
	assert.Equal(t, []byte{7}, ok.Data)
	assert.NoError(t, ok.Err)

	failed := NewMessage("remote.gr2", []byte{1, 2}, errors.New("NotReadableError"))
	assert.NotEmpty(t, failed.ID, "read failures keep a correlation id")
	assert.NotEqual(t, ok.ID, failed.ID)
	assert.Equal(t, "remote.gr2", failed.Name)
	assert.Nil(t, failed.Data)
	assert.EqualError(t, failed.Err, "NotReadableError")
}

func TestNativeOpenerSendsFile(t *testing.T) {
	reader := &dataReader{data: []byte("granny"), uri: storage.NewFileURI("/assets/hero.gr2")}
	opener, fatals := newTestOpener(reader, nil)
	inbox := NewInbox()

	opener.Open(inbox)

	msg, ok := inbox.TryRecv()
	require.True(t, ok)
	assert.Equal(t, "hero.gr2", msg.Name)
	assert.Equal(t, []byte("granny"), msg.Data)
	assert.True(t, reader.closed)
	assert.Empty(t, *fatals)

	_, ok = inbox.TryRecv()
	assert.False(t, ok, "exactly one message per open")
}

func TestNativeOpenerCancel(t *testing.T) {
	opener, fatals := newTestOpener(nil, nil)
	inbox := NewInbox()

	opener.Open(inbox)

	assert.Equal(t, 0, inbox.Len())
	assert.Empty(t, *fatals)
}

func TestNativeOpenerFailuresAreFatal(t *testing.T) {
	opener, fatals := newTestOpener(nil, errors.New("portal unavailable"))
	inbox := NewInbox()
	opener.Open(inbox)
	require.Len(t, *fatals, 1)
	assert.ErrorContains(t, (*fatals)[0], "portal unavailable")

	reader := &dataReader{err: errors.New("permission denied"), uri: storage.NewFileURI("/locked.gr2")}
	opener, fatals = newTestOpener(reader, nil)
	opener.Open(inbox)
	require.Len(t, *fatals, 1)
	assert.ErrorContains(t, (*fatals)[0], "locked.gr2")
	assert.Equal(t, 0, inbox.Len())
}
