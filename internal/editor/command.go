package editor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ashutoshmjain/avim/internal/apperr"
	"github.com/ashutoshmjain/avim/internal/clip"
	"github.com/ashutoshmjain/avim/internal/project"
	"github.com/sirupsen/logrus"
)

// HelpText lists the command-line commands.
const HelpText = "Commands: :w, :export, :q, :autofix, :lasterror, :help"

func (s *Session) handleCommand(in Intent) {
	switch in.Kind {
	case Char:
		s.command = append(s.command, in.Rune)
	case Backspace:
		if n := len(s.command); n > 0 {
			s.command = s.command[:n-1]
		}
	case Exit:
		s.mode = ModeNormal
		s.command = s.command[:0]
	case Submit:
		line := string(s.command)
		s.command = s.command[:0]
		s.mode = ModeNormal
		if err := s.Execute(line); err != nil {
			s.log.WithError(err).WithField("line", line).Debug("command failed")
		}
	}
}

// Execute runs one command line. The returned error is already reflected in
// the status line; callers only need it for logging or tests.
func (s *Session) Execute(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	arg := ""
	if len(fields) > 1 {
		arg = fields[1]
	}

	switch fields[0] {
	case "w":
		return s.save(arg)
	case "export":
		return s.export(arg)
	case "q", "q!":
		s.Close()
		s.quit = true
	case "help":
		s.status = HelpText
	case "lasterror":
		return s.copyLastError()
	case "autofix":
		s.runAutofix()
	default:
		s.status = "Unknown command: " + line
		return apperr.UnknownCommand(line)
	}
	return nil
}

// save writes the project. A path argument becomes the associated path.
func (s *Session) save(path string) error {
	if path != "" {
		s.projectPath = path
	}
	if s.projectPath == "" {
		s.status = "No project file specified. Use :w <filename" + project.Extension + ">"
		return nil
	}

	err := project.Save(s.projectPath, project.Project{AudioPath: s.audioPath, Clips: s.doc.Clips()})
	if err != nil {
		if apperr.KindOf(err) == apperr.KindSerializationFailed {
			s.status = fmt.Sprintf("Failed to serialize project data: %v", err)
		} else {
			s.status = fmt.Sprintf("Failed to save project: %v", err)
		}
		s.lastError = err.Error()
		return err
	}
	s.status = "Project saved to " + s.projectPath
	s.log.WithField("path", s.projectPath).Info("project saved")
	return nil
}

// export renders the document's ranges, in order, to path.
func (s *Session) export(path string) error {
	if path == "" {
		s.status = "Export error: No filename provided."
		return nil
	}
	if s.audio == nil {
		err := apperr.Wrap(apperr.KindIoFailed, errors.New("no audio renderer"))
		s.status = fmt.Sprintf("Export failed: %v", err)
		s.lastError = err.Error()
		return err
	}
	if err := s.audio.Render(s.audioPath, clip.Ranges(s.doc.Clips()), path); err != nil {
		s.status = fmt.Sprintf("Export failed: %v", err)
		s.lastError = err.Error()
		s.log.WithError(err).WithField("path", path).Warn("export failed")
		return apperr.Wrap(apperr.KindIoFailed, err)
	}
	s.status = fmt.Sprintf("Successfully exported to %s.", path)
	s.log.WithFields(logrus.Fields{"path": path, "clips": s.doc.Len()}).Info("exported")
	return nil
}

func (s *Session) copyLastError() error {
	if s.lastError == "" {
		s.status = "No last error to copy."
		return nil
	}
	if s.clipboard == nil {
		s.status = "Failed to initialize clipboard."
		return apperr.E(apperr.KindClipboardUnavailable)
	}
	if err := s.clipboard.SetText(s.lastError); err != nil {
		s.status = "Failed to copy error to clipboard."
		return apperr.Wrap(apperr.KindClipboardUnavailable, err)
	}
	s.status = "Last error copied to clipboard."
	return nil
}
