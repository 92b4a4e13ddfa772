package exifedit

import (
	"context"

	log "github.com/dsoprea/go-logging"
)

// verbose mirrors the process-wide verbosity toggle from the Configuration
// section: off by default, enabling per-marker, per-entry and per-pass
// diagnostics on the scan, parse, offset-fixing and write paths once turned
// on. DumpIfd emits no diagnostics of its own.
var verbose = false

// SetVerbose flips the process-wide diagnostic toggle. It is not safe to
// call concurrently with parsing or writing, matching the single-threaded
// resource model of the rest of the package.
func SetVerbose(on bool) {
	verbose = on
	if on {
		log.AddLoggerOutputFunc(log.DefaultLoggerOutputFunc)
	}
}

var (
	scannerLog     = log.NewLogger("exifedit.jpegscanner")
	parserLog      = log.NewLogger("exifedit.ifdparser")
	offsetFixerLog = log.NewLogger("exifedit.offsetfixer")
	writerLog      = log.NewLogger("exifedit.writer")
)

func debugf(l *log.Logger, format string, args ...interface{}) {
	if !verbose {
		return
	}
	l.Debugf(context.Background(), format, args...)
}
