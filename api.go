package yum

// ProgressSink reports how many packages of a document have been consumed
// so far. total is 0 if the document never declared a "packages" count.
// token is whatever was passed to WithProgress, handed back unchanged — the
// same opaque-pointer convention the original's Python bindings used to let
// an embedder correlate callbacks with a particular update call.
type ProgressSink func(current, total uint32, token any)

// Option configures a single Update* call.
type Option func(*updateOptions)

// WithLogSink routes internal diagnostics to sink. Without one, diagnostics
// are discarded and only a final error (if any) is observable.
func WithLogSink(sink LogSink) Option {
	return func(o *updateOptions) { o.log = sink }
}

// WithProgress routes per-package progress to sink, passing token back on
// every call unmodified.
func WithProgress(sink ProgressSink, token any) Option {
	return func(o *updateOptions) {
		o.progress = sink
		o.token = token
	}
}

// WithRecorder additionally records Prometheus metrics for this call.
func WithRecorder(r *Recorder) Option {
	return func(o *updateOptions) { o.recorder = r }
}

func buildOptions(opts []Option) updateOptions {
	var o updateOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// UpdatePrimary ingests a primary.xml document into its SQLite cache,
// creating the cache if it does not exist, rebuilding it if checksum or
// schema version is stale, or doing nothing if it is already current. It
// returns the path of the cache database.
func UpdatePrimary(mdFilename, checksum string, opts ...Option) (string, error) {
	return runUpdate(mdFilename, checksum, "primary.xml", primarySchema,
		func(emit func(*Package) error) saxHandler { return newPrimaryParser(emit) },
		buildOptions(opts))
}

// UpdateFilelist ingests a filelists.xml document into its SQLite cache.
// See UpdatePrimary for the lifecycle this follows.
func UpdateFilelist(mdFilename, checksum string, opts ...Option) (string, error) {
	return runUpdate(mdFilename, checksum, "filelists.xml", filelistsSchema,
		func(emit func(*Package) error) saxHandler { return newFilelistsParser(emit) },
		buildOptions(opts))
}

// UpdateOther ingests an other.xml document into its SQLite cache. See
// UpdatePrimary for the lifecycle this follows.
func UpdateOther(mdFilename, checksum string, opts ...Option) (string, error) {
	return runUpdate(mdFilename, checksum, "other.xml", otherSchema,
		func(emit func(*Package) error) saxHandler { return newOtherParser(emit) },
		buildOptions(opts))
}
