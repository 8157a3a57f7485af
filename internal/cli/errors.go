package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sdejongh/sheetdiff/pkg/models"
	"github.com/sdejongh/sheetdiff/pkg/output"
)

// UsageError reports a command line mistake; it is printed with the usage text
type UsageError struct {
	Message string
	Usage   string
}

func (e *UsageError) Error() string {
	return e.Message
}

// ExitCode maps an error returned by the root command to a process exit status
func ExitCode(err error) int {
	return runStatus(err).ExitCode()
}

func runStatus(err error) models.RunStatus {
	if err == nil {
		return models.StatusSuccess
	}
	var usageErr *UsageError
	if errors.As(err, &usageErr) {
		return models.StatusInvalid
	}
	return models.StatusFailed
}

// ReportError prints err for the user, with usage text or a remediation hint when available
func ReportError(w io.Writer, err error) {
	var usageErr *UsageError
	if errors.As(err, &usageErr) {
		fmt.Fprintln(w, usageErr.Message)
		if usageErr.Usage != "" {
			fmt.Fprintf(w, "\n%s", usageErr.Usage)
		}
		return
	}

	annotator := output.NewAnnotator(output.ColorAuto, w)
	if f, ok := w.(*os.File); ok {
		w = colorableWriter(f, annotator)
	}
	formatter := output.NewHumanFormatter(annotator, false)
	_ = formatter.Start(w, nil)
	_ = formatter.Error(err)
}
