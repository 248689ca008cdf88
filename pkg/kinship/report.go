package kinship

// Reporter receives periodic progress updates during a traversal.
//
// Reporting is advisory: implementations must not mutate engine state, and
// whatever a reporter does cannot alter the computed kinships. The engine
// calls Progress every [Options.ReportEvery] processed batches and once more
// when the traversal completes.
type Reporter interface {
	// Progress reports the number of processed vertices, the total number
	// of pedigree vertices, the current cut size (resident rows), and the
	// number of batches waiting in the scheduler.
	Progress(processed, total, cut, queued int)
}

// ReporterFunc adapts a function to the [Reporter] interface.
type ReporterFunc func(processed, total, cut, queued int)

// Progress calls f.
func (f ReporterFunc) Progress(processed, total, cut, queued int) {
	f(processed, total, cut, queued)
}

// NoopReporter is a [Reporter] that discards all updates. It is the default.
type NoopReporter struct{}

// Progress does nothing.
func (NoopReporter) Progress(int, int, int, int) {}
