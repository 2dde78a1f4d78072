/*
Package observability binds brainloop lifecycle hooks to structured logs and
Prometheus collectors.

Metrics exposes run counts by outcome, executed steps, emitted bytes, run
duration and compile errors by mismatch kind. CombineHooks lets hosts attach
several hook sets to one engine.
*/
package observability
