package sim

import "github.com/sirupsen/logrus"

// Event defines the interface for all simulation events.
// Each event must have a Timestamp (in ticks) and an Execute method
// that advances simulation state when invoked.
type Event interface {
	Timestamp() int64
	Execute(*Simulator)
}

// ArrivalEvent wakes a traffic generator: it emits one request at the
// current instant and schedules the generator's next wake-up.
type ArrivalEvent struct {
	time      int64
	generator *TrafficGenerator
}

// Timestamp returns the scheduled time of the ArrivalEvent.
func (e *ArrivalEvent) Timestamp() int64 {
	return e.time
}

// Execute emits the request and re-arms the generator.
func (e *ArrivalEvent) Execute(sim *Simulator) {
	req := e.generator.Emit(sim.nextRequestID(), e.time)
	sim.Schedule(&RequestEvent{time: e.time, Request: req})
	sim.Schedule(&ArrivalEvent{
		time:      e.generator.NextArrival(e.time),
		generator: e.generator,
	})
}

// RequestEvent presents a request to the server for admission.
type RequestEvent struct {
	time    int64
	Request *Request
}

// Timestamp returns the scheduled time of the RequestEvent.
func (e *RequestEvent) Timestamp() int64 {
	return e.time
}

// Execute runs admission and, on success, schedules the completion.
func (e *RequestEvent) Execute(sim *Simulator) {
	sim.handleRequest(e.Request, e.time)
}

// CompletionEvent releases the slot held by an admitted request.
type CompletionEvent struct {
	time    int64
	Request *Request
}

// Timestamp returns the scheduled time of the CompletionEvent.
func (e *CompletionEvent) Timestamp() int64 {
	return e.time
}

// Execute records the load and feeds it to the autoscaler.
func (e *CompletionEvent) Execute(sim *Simulator) {
	logrus.Debugf("<< Completion: %s at %d ticks", e.Request.ID, e.time)
	sim.completeRequest(e.Request, e.time)
}

// ScaleEvent applies a scale-up once the provisioning delay has elapsed.
type ScaleEvent struct {
	time int64
	load float64 // load that triggered the request
}

// Timestamp returns the scheduled time of the ScaleEvent.
func (e *ScaleEvent) Timestamp() int64 {
	return e.time
}

// Execute grows the server.
func (e *ScaleEvent) Execute(sim *Simulator) {
	sim.applyScale(e.time, e.load)
}

// MonitorEvent samples load and drop count, then re-arms itself one
// monitor interval later.
type MonitorEvent struct {
	time int64
}

// Timestamp returns the scheduled time of the MonitorEvent.
func (e *MonitorEvent) Timestamp() int64 {
	return e.time
}

// Execute takes one sample.
func (e *MonitorEvent) Execute(sim *Simulator) {
	sim.sample(e.time)
	sim.Schedule(&MonitorEvent{time: e.time + sim.monitorInterval})
}

// AttackStartEvent launches the configured attack instances.
type AttackStartEvent struct {
	time      int64
	instances int
}

// Timestamp returns the scheduled time of the AttackStartEvent.
func (e *AttackStartEvent) Timestamp() int64 {
	return e.time
}

// Execute starts the attack generators.
func (e *AttackStartEvent) Execute(sim *Simulator) {
	sim.TriggerAttack(e.instances)
}
