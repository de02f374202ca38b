package pickup

// Reporter receives progress events during a sync run. Implementations must
// tolerate being called with zero counts; a run with nothing to do still
// reports its plan and summary.
type Reporter interface {
	// Plan announces how many files the run intends to download.
	Plan(n int)

	// Start fires before a file download begins.
	Start(name string)

	// Done fires after a file has been downloaded and committed.
	Done(name string, size int)

	// Failed fires when a file could not be fetched or written. The run
	// continues with the next file.
	Failed(name, url string, err error)

	// Warnings reports files present locally but no longer in the filtered
	// remote view.
	Warnings(localOnly []string)

	// Summary closes the run with the downloaded/planned tally.
	Summary(done, planned int)
}

// NopReporter discards all events.
type NopReporter struct{}

func (NopReporter) Plan(int)                    {}
func (NopReporter) Start(string)                {}
func (NopReporter) Done(string, int)            {}
func (NopReporter) Failed(string, string, error) {}
func (NopReporter) Warnings([]string)           {}
func (NopReporter) Summary(int, int)            {}

var _ Reporter = NopReporter{}
