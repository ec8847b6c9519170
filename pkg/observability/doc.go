/*
Package observability provides prometheus instrumentation for the
control-point protocol: counters for branch events (forks, parks, wakes,
resamples, kills) on an injectable registry.

A nil *Metrics is a valid no-op, so instrumentation stays optional.
*/
package observability
