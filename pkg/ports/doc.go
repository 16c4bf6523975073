/*
Package ports defines the driven ports (interfaces) of the reactless engine.

These interfaces decouple the reconciliation core from the environment it runs in,
allowing the same engine to drive an in-memory tree, a terminal, or a browser DOM,
and to be scheduled by a real frame loop or by a deterministic test driver.

# Key Interfaces

  - Host: Creates host nodes and applies attribute, listener and tree mutations.
  - Scheduler: Grants time-budgeted callbacks; the sole driver of the work loop.
  - SnapshotStore: Persists detached copies of committed host trees.
*/
package ports
