// Package export writes concert material to disk for offline use.
//
// # Manager
//
// For each concert the Manager writes, into <out>/<id> <concert name>/:
//
//  1. report.txt, a freshly generated concert report
//  2. the lineup playlist, with copies of the performers' sample tracks
//     tagged with the concert as album (optional)
//  3. passes/ticket-<id>.png, one admission pass per sold ticket
//
// # Basic Usage
//
//	manager := export.NewManager(app, func(event export.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//
//	err := manager.Export(ctx, []model.ConcertID{1, 2}, "exports")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Concurrency
//
// Concerts are exported in parallel, up to settings.MaxConcurrentExports at a
// time; the files of one concert are written in order. Reads from the
// concert modules are serialized by the Manager, so nothing else may use the
// App while an export runs.
//
// # Progress Tracking
//
// Progress is reported via a callback function that receives ProgressEvent:
//
//	type ProgressEvent struct {
//	    Message string
//	    Level   ProgressLevel // Info, Verbose, Warning, Error, Success
//	}
//
// A concert that fails is reported at LevelError and the others continue;
// Export returns the joined errors once every concert is done.
package export
