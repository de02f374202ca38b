package cli

import (
	"fmt"
	"io"
)

// streamReporter prints sync progress as plain lines on the command's output
// stream.
type streamReporter struct {
	out io.Writer
}

func newStreamReporter(out io.Writer) *streamReporter {
	return &streamReporter{out: out}
}

func (r *streamReporter) Plan(n int) {
	switch n {
	case 0:
		fmt.Fprintln(r.out, "Nothing new to download.")
	case 1:
		fmt.Fprintln(r.out, "1 new file available in the remote.")
	default:
		fmt.Fprintf(r.out, "%d new files available in the remote.\n", n)
	}
}

func (r *streamReporter) Start(name string) {}

func (r *streamReporter) Done(name string, size int) {
	fmt.Fprintf(r.out, "  %s (%d bytes)\n", name, size)
}

func (r *streamReporter) Failed(name, url string, err error) {
	fmt.Fprintf(r.out, "UNABLE TO DOWNLOAD %s: %v\n", name, err)
}

func (r *streamReporter) Warnings(localOnly []string) {
	fmt.Fprintln(r.out, "WARNING: local files no longer present in the remote view:")
	for _, name := range localOnly {
		fmt.Fprintf(r.out, "  %s\n", name)
	}
}

func (r *streamReporter) Summary(done, planned int) {
	if planned == 0 {
		return
	}
	fmt.Fprintf(r.out, "%d/%d downloaded.\n", done, planned)
}
