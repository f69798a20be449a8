package app

import (
	"fmt"
	"time"

	"granny-viewer/internal/fileopen"
	"granny-viewer/internal/granny"
	"granny-viewer/internal/logger"
)

// Parser decodes raw file bytes.
type Parser func(raw []byte) (*granny.File, error)

// View is the part of the UI the shell drives.
type View interface {
	ShowFile(name string, size int, file *granny.File)
	ShowNotice(message string)
}

// Shell owns the resident file. Update is called once per frame on the UI
// goroutine and consumes at most one message from the inbox.
type Shell struct {
	inbox  *fileopen.Inbox
	parse  Parser
	view   View
	logger logger.Logger

	file     *granny.File
	fileName string
}

func NewShell(inbox *fileopen.Inbox, parse Parser, view View, log logger.Logger) *Shell {
	return &Shell{
		inbox:  inbox,
		parse:  parse,
		view:   view,
		logger: log,
	}
}

// Update drains one pending message. It reports whether a message was
// consumed.
func (s *Shell) Update() bool {
	msg, ok := s.inbox.TryRecv()
	if !ok {
		return false
	}

	fields := map[string]interface{}{"id": msg.ID, "name": msg.Name}

	if msg.Err != nil {
		s.logger.Error("Shell", msg.Err, fields)
		s.view.ShowNotice(fmt.Sprintf("%s could not be read: %v", msg.Name, msg.Err))
		return true
	}

	s.logger.Info("Shell", "received granny file data", fields)

	start := time.Now()
	file, err := s.parse(msg.Data)
	if err != nil {
		s.logger.Error("Shell", err, fields)
		s.view.ShowNotice(fmt.Sprintf("%s could not be opened: %v", msg.Name, err))
		return true
	}

	s.file = file
	s.fileName = msg.Name
	s.view.ShowFile(msg.Name, len(msg.Data), file)

	fields["root_elements"] = len(file.RootElements)
	fields["parse_time"] = time.Since(start).String()
	s.logger.Info("Shell", "file loaded", fields)

	return true
}

// File returns the resident file, or nil.
func (s *Shell) File() *granny.File {
	return s.file
}

func (s *Shell) FileName() string {
	return s.fileName
}
