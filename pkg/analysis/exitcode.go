package analysis

import (
	"fmt"

	"github.com/marek-kar/gke-doctor/pkg/model"
)

type exitCodeMeaning struct {
	Severity model.Severity
	Message  string
}

var exitCodeTable = map[int32]exitCodeMeaning{
	0:   {model.SeverityInfo, "clean exit"},
	1:   {model.SeverityWarning, "application error"},
	126: {model.SeverityWarning, "command invoked cannot execute (permission or not executable)"},
	127: {model.SeverityWarning, "command not found"},
	130: {model.SeverityInfo, "terminated by SIGINT"},
	137: {model.SeverityCritical, "killed by SIGKILL (OOM kill or forced termination)"},
	139: {model.SeverityCritical, "segmentation fault (SIGSEGV)"},
	143: {model.SeverityInfo, "terminated by SIGTERM (graceful shutdown request)"},
}

// ClassifyExitCode maps an exit code to a finding skeleton. The caller
// attaches the record reference. Codes in (128,256) outside the table mean
// death by signal code-128; anything else, including the unknown sentinel,
// classifies as unknown. Never panics.
func ClassifyExitCode(code int32) model.Finding {
	if m, ok := exitCodeTable[code]; ok {
		return model.Finding{
			SchemaVersion: model.SchemaVersion,
			Code:          fmt.Sprintf("exit-code-%d", code),
			Severity:      m.Severity,
			Message:       fmt.Sprintf("exit code %d: %s", code, m.Message),
		}
	}

	if code > 128 && code < 256 {
		signal := code - 128
		return model.Finding{
			SchemaVersion: model.SchemaVersion,
			Code:          fmt.Sprintf("exit-code-%d", code),
			Severity:      model.SeverityWarning,
			Message:       fmt.Sprintf("exit code %d: terminated by signal %d", code, signal),
		}
	}

	if code == model.UnknownExitCode {
		return model.Finding{
			SchemaVersion: model.SchemaVersion,
			Code:          "exit-code-unknown",
			Severity:      model.SeverityWarning,
			Message:       "last exit code not reported by the API server",
		}
	}

	return model.Finding{
		SchemaVersion: model.SchemaVersion,
		Code:          fmt.Sprintf("exit-code-%d", code),
		Severity:      model.SeverityWarning,
		Message:       fmt.Sprintf("exit code %d: unknown meaning", code),
	}
}
