package app

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"granny-viewer/internal/config"
	"granny-viewer/internal/fileopen"
	"granny-viewer/internal/granny"
	"granny-viewer/internal/granny/grannytest"
	"granny-viewer/internal/logger"
)

// scriptedOpener replays one queued result per Open call; a nil entry is
// a cancelled dialog.
type scriptedOpener struct {
	results []*fileopen.Message
	opens   int
}

func (o *scriptedOpener) Open(sink fileopen.Sink) {
	o.opens++
	if len(o.results) == 0 {
		return
	}
	next := o.results[0]
	o.results = o.results[1:]
	if next != nil {
		sink.Send(*next)
	}
}

func newTestApplication(t *testing.T, opener *scriptedOpener, supportsQuit bool) *Application {
	t.Helper()
	factory := func(fyne.Window, logger.Logger) fileopen.Service { return opener }
	return newApplication(test.NewTempApp(t), config.Default(), logger.NoOpLogger{}, factory, granny.LoadFromBytes, supportsQuit)
}

func menuItem(t *testing.T, a *Application, label string) *fyne.MenuItem {
	t.Helper()
	menu := a.window.MainMenu()
	require.NotNil(t, menu)
	require.Len(t, menu.Items, 1)
	for _, item := range menu.Items[0].Items {
		if item.Label == label {
			return item
		}
	}
	return nil
}

func openFile(t *testing.T, a *Application) {
	t.Helper()
	item := menuItem(t, a, "Open")
	require.NotNil(t, item)
	item.Action()
	a.shell.Update()
}

func TestFileMenu(t *testing.T) {
	menu := fileMenu(func() {}, nil)
	assert.Equal(t, "File", menu.Label)
	require.Len(t, menu.Items, 1)
	assert.Equal(t, "Open", menu.Items[0].Label)

	menu = fileMenu(func() {}, func() {})
	require.Len(t, menu.Items, 3)
	assert.True(t, menu.Items[1].IsSeparator)
	assert.Equal(t, "Quit", menu.Items[2].Label)
	assert.True(t, menu.Items[2].IsQuit)
}

func TestApplicationQuitOnlyWhenSupported(t *testing.T) {
	native := newTestApplication(t, &scriptedOpener{}, true)
	assert.NotNil(t, menuItem(t, native, "Quit"))

	web := newTestApplication(t, &scriptedOpener{}, false)
	assert.Nil(t, menuItem(t, web, "Quit"))
}

func TestApplicationHeadingTracksLatestSuccessfulFile(t *testing.T) {
	good := func(name, value string) *fileopen.Message {
		return &fileopen.Message{Name: name, Data: grannytest.Build(grannytest.Struct{{Name: "Root", Value: grannytest.String(value)}})}
	}
	opener := &scriptedOpener{results: []*fileopen.Message{
		good("first.gr2", "one"),
		{Name: "broken.gr2", Data: []byte("garbage")},
		nil,
		good("second.gr2", "two"),
	}}
	a := newTestApplication(t, opener, true)
	sidebar := a.guiManager.Sidebar()

	openFile(t, a)
	assert.Equal(t, "first.gr2", sidebar.Heading())

	openFile(t, a)
	assert.Equal(t, "first.gr2", sidebar.Heading(), "failed parse keeps the previous file")
	assert.True(t, a.guiManager.Notice().Visible())

	openFile(t, a)
	assert.Equal(t, "first.gr2", sidebar.Heading(), "cancel leaves the file unchanged")

	openFile(t, a)
	assert.Equal(t, "second.gr2", sidebar.Heading())
	assert.False(t, a.guiManager.Notice().Visible(), "successful load clears the notice")
	assert.Equal(t, 4, opener.opens)
}

func TestApplicationMalformedFileShowsNoFileOpen(t *testing.T) {
	opener := &scriptedOpener{results: []*fileopen.Message{{Name: "broken.gr2", Data: []byte{1, 2, 3}}}}
	a := newTestApplication(t, opener, true)

	openFile(t, a)

	sidebar := a.guiManager.Sidebar()
	assert.True(t, sidebar.Empty())
	assert.Equal(t, "", sidebar.Heading())
	assert.True(t, a.guiManager.Notice().Visible())
	assert.Contains(t, a.guiManager.Notice().Message(), "broken.gr2")
}

func TestApplicationRendersRootSection(t *testing.T) {
	data := grannytest.Build(grannytest.Struct{{Name: "Root", Value: grannytest.String("hello")}})
	a := newTestApplication(t, &scriptedOpener{results: []*fileopen.Message{{Name: "hello.gr2", Data: data}}}, true)

	openFile(t, a)

	tree := a.guiManager.Sidebar().Tree()
	roots := tree.Roots()
	require.Len(t, roots, 1)
	root, _ := tree.Node(roots[0])
	assert.Equal(t, "Root", root.Text)
	assert.True(t, tree.IsBranch(roots[0]))

	tree.Widget().OpenBranch(roots[0])
	assert.True(t, tree.Widget().IsBranchOpen(roots[0]))
	body := tree.Children(roots[0])
	require.Len(t, body, 1)
	label, _ := tree.Node(body[0])
	assert.Equal(t, "hello", label.Text)
	assert.False(t, tree.IsBranch(body[0]))
	assert.False(t, a.guiManager.Sidebar().Empty())
}

func TestFrameLoopTicksUntilStopped(t *testing.T) {
	var ticks atomic.Int32
	loop := NewFrameLoop(time.Millisecond, func() { ticks.Add(1) }, logger.NoOpLogger{})

	loop.Start(context.Background())
	loop.Start(context.Background())
	require.Eventually(t, func() bool { return ticks.Load() >= 3 }, time.Second, time.Millisecond)

	loop.Stop()
	stopped := ticks.Load()
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, stopped, ticks.Load())

	loop.Stop()
}

func TestFrameLoopStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var ticks atomic.Int32
	loop := NewFrameLoop(time.Millisecond, func() { ticks.Add(1) }, logger.NoOpLogger{})

	loop.Start(ctx)
	require.Eventually(t, func() bool { return ticks.Load() >= 1 }, time.Second, time.Millisecond)
	cancel()
	loop.Stop()
}

func TestLifecycleStopsFramesOnce(t *testing.T) {
	var ticks atomic.Int32
	loop := NewFrameLoop(time.Millisecond, func() { ticks.Add(1) }, logger.NoOpLogger{})
	lifecycle := NewLifecycle(loop, logger.NoOpLogger{})

	loop.Start(context.Background())
	require.Eventually(t, func() bool { return ticks.Load() >= 1 }, time.Second, time.Millisecond)

	lifecycle.Shutdown()
	stopped := ticks.Load()
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, stopped, ticks.Load())

	lifecycle.Shutdown()
	NewLifecycle(nil, logger.NoOpLogger{}).Shutdown()
}
