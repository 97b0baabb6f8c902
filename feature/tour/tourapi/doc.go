// Package tourapi is a client for the Korea Tourism Organization TourAPI
// (KorService1 and EngService1). Requests are paced with a token bucket and
// guarded by a circuit breaker; list and detail responses are decoded from the
// JSON envelope, and gateway errors from the XML OpenAPI_ServiceResponse.
package tourapi
