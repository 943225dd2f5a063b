// Package transport carries order payloads from the kiosk to the alarm unit.
//
// A Dialer opens a Publisher or a Subscriber against one broker. NATS and
// MQTT dialers talk to real brokers, Broker is the in-memory one used by
// tests and the simulator. The redialing wrappers keep a device usable
// across broker restarts: the publisher reconnects on the next publish and
// the subscriber at most once per second while it is polled.
//
// Delivery is at-most-once on every backend.
package transport
