// Package inspect serves an HTTP inspector for frame construction.
//
// Routes:
//
//	GET  /healthz              liveness
//	GET  /catalog              registered components and their parameters
//	POST /render               render a YAML fixture (?format=json|text|binary|html)
//	GET  /snapshots            list stored snapshots (?prefix=)
//	GET  /snapshots/{key}      load a snapshot as JSON
//	PUT  /snapshots/{key}      render a YAML fixture and store it
//	GET  /ws                   WebSocket: Render messages in, Frames/Error out
//	GET  /metrics              Prometheus metrics, when enabled
//
// The WebSocket exchanges protocol.Message values in binary messages. A
// text message is treated as a Render message carrying YAML.
package inspect
