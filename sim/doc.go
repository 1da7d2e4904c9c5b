// Package sim provides the discrete-event simulation of a single server under
// normal traffic and a volumetric denial-of-service attack.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - event.go: Event types that drive the simulation (Arrival, Request, Completion, Scale, Monitor, AttackStart)
//   - simulator.go: The event loop, the run context and the external control surface
//   - server.go: Admission, slot accounting, drops and load
//
// # Architecture
//
// A Simulator owns every piece of mutable state for one run: the clock, the
// event queue, the Server, the TrafficGenerators, the Monitor, the Metrics and
// an optional decision trace. Nothing is package-global, so independent
// simulators can run on separate goroutines.
//
// Supporting pieces live in sub-packages:
//   - sim/workload/: inter-arrival time samplers (Poisson, Gamma)
//   - sim/trace/: admission and scaling decision records
//
// # Key Types
//
//   - SlidingWindowLimiter: per-identity sliding-window admission control
//   - Autoscaler: threshold-triggered capacity growth (one-shot or repeatable)
//   - Monitor: periodic sampler producing the load and dropped-count series
//   - Config: every tunable, loadable from YAML and validated before a run
//
// Time is measured in ticks of one microsecond. Seconds appear only at the
// configuration and reporting boundaries.
package sim
