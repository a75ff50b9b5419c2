package headless

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/message"
)

const reportWidth = 48

// Print writes the report as indented JSON or as a text transcript using
// the localised status copy.
func Print(w io.Writer, r Report, jsonOutput bool, p *message.Printer) error {
	if jsonOutput {
		output, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(output))
		return err
	}

	fmt.Fprintln(w, strings.Repeat("=", reportWidth))
	fmt.Fprintln(w, p.Sprintf("banner.title"))
	fmt.Fprintln(w, strings.Repeat("=", reportWidth))
	for _, s := range r.Steps {
		fmt.Fprintf(w, "[%5.1f%%] %-9s %s\n", s.Progress, s.Phase, p.Sprintf(s.Status))
	}
	fmt.Fprintln(w, strings.Repeat("-", reportWidth))
	if r.Interrupted {
		fmt.Fprintln(w, p.Sprintf("status.interrupted"))
	} else {
		fmt.Fprintf(w, "%s %s!!!\n", p.Sprintf("result.heading"), r.Label)
	}
	_, err := fmt.Fprintf(w, "session %s • %d ticks • %s\n", r.Session, r.Ticks, r.DurationStr)
	return err
}
