package session

import "strings"

// Command is an export sub-loop action.
type Command int

// Export sub-loop commands. Any unrecognized answer is CommandDone.
const (
	CommandDone Command = iota
	CommandCopy
	CommandSave
	CommandExport
)

// ParseCommand maps a trimmed, case-insensitive answer to a Command.
func ParseCommand(s string) Command {
	switch normalize(s) {
	case "c":
		return CommandCopy
	case "s":
		return CommandSave
	case "p":
		return CommandExport
	default:
		return CommandDone
	}
}

func (c Command) String() string {
	switch c {
	case CommandCopy:
		return "copy"
	case CommandSave:
		return "save"
	case CommandExport:
		return "export"
	default:
		return "done"
	}
}

// Target is a document or image export destination.
type Target int

// Export targets chosen after CommandExport.
const (
	TargetInvalid Target = iota
	TargetImage
	TargetWord
	TargetMarkdown
	TargetJSON
)

// ParseTarget maps a trimmed, case-insensitive answer to a Target.
func ParseTarget(s string) Target {
	switch normalize(s) {
	case "i":
		return TargetImage
	case "w":
		return TargetWord
	case "m":
		return TargetMarkdown
	case "j":
		return TargetJSON
	default:
		return TargetInvalid
	}
}

func (t Target) String() string {
	switch t {
	case TargetImage:
		return "image"
	case TargetWord:
		return "Word"
	case TargetMarkdown:
		return "Markdown"
	case TargetJSON:
		return "JSON"
	default:
		return "invalid"
	}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
