// Package outcome provides an immutable success/failure algebra with
// attached diagnostics, plus a transactional compensation layer built on top
// of it.
//
// Overview
//
//  1. Produce an initial Outcome:
//     - Use Success/Failure to construct one directly, or Try/TryCtx to
//     convert error-based code at the boundary.
//  2. Apply combinators:
//     - Map, Bind, Tap, Ensure, Recover, Choose, Validate and friends each
//     receive the prior Outcome, short-circuit on failure, and return a new
//     Outcome. Context-aware forms (MapCtx, BindCtx, ...) convert
//     cancellation into a dedicated error kind.
//  3. Work over collections:
//     - The per-item combinators (MapItems, FilterItems, BindItems, ...)
//     share one engine governed by ProcessOptions: partial failures are
//     tolerated, counted, and documented in the message list.
//  4. Bind a resource to the chain:
//     - Open a Scope around the chain with NewScope; the resource starts
//     lazily on the first live step and End commits it on success or rolls
//     it back on failure.
//  5. Compensate multi-step workflows:
//     - A Saga is a Resource recording per-step reversal actions and rolling
//     them back best-effort in LIFO order. Workflow ties it all together:
//     dependency-ordered steps, automatic compensation registration, and an
//     audit report persisted through a ReportStore.
package outcome
