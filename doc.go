// Package mdbatch provides a memory-pressure-adaptive batch scheduler for
// document-to-markup conversion. A batch of independent, resource-heavy
// conversion jobs is executed under a concurrency budget that is re-tuned
// against live memory telemetry after every completion, with per-job failure
// isolation, deterministic progress reporting and bounded peak memory.
//
// End-users typically interact via the high-level Service façade exposed by
// the root package:
//
//	srv, _ := mdbatch.New(
//		mdbatch.WithConfig(cfg),
//		mdbatch.WithReporter(reporter),
//	)
//	summary, err := srv.Run(ctx, []string{"report.pdf", "book.pdf"})
//
// The conversion engine itself is an external collaborator behind the
// engine.Service interface; engine/exec ships an adapter that shells out to
// a converter command.
package mdbatch
