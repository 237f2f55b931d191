// Package async provides a minimal future abstraction for running dependent
// operations concurrently while keeping explicit error collection.
//
// It exists for call sites that must fan out a handful of operations and
// await them all, e.g. a session regeneration that re-signs the cookie and
// persists new data at the same time:
//
//	emit := async.Exec(ctx, cookie, updateCookie)
//	save := async.Exec(ctx, sess, persist)
//	if err := async.ExecAll(emit, save); err != nil {
//		// either operation failed; both have completed
//	}
package async
