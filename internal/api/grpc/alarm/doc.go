// Package alarm implements the gRPC status API of the alarm unit.
//
// The service has two unary methods, GetStatus and Dismiss, described by a
// hand-written grpc.ServiceDesc over the well-known Empty and Struct
// messages, so no generated code is needed on either side. The standard
// health service is registered next to it.
package alarm
