/*
Package observability provides lifecycle hooks for monitoring the render engine.

Metrics exports pass, slice and mutation counters to Prometheus, LogHooks
writes the same events to a structured logger, and Recorder keeps the
mutations of each container's latest commits for callers that want to show
what a render changed. All of them return domain.LifecycleHooks, which can be
combined with LifecycleHooks.Merge.
*/
package observability
