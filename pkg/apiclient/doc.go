// Package apiclient is the single chokepoint for outbound calls to the
// platform backend: deduplication of concurrent identical calls,
// short-TTL caching of read responses, and per-call timeouts with
// typed errors.
//
// Every call is fingerprinted by tenant partition, verb, path, and
// canonicalized body. While a physical call for a fingerprint is in
// flight, identical calls join it as waiters and share its one result
// or one failure. GET responses are cached for a fixed TTL; write
// verbs (POST, PUT, PATCH, DELETE, UPLOAD) are deduplicated but never
// cached and never invalidate entries, so callers refresh explicitly
// after mutations.
//
// # Usage
//
//	client := apiclient.New("https://api.venues.example.com",
//		apiclient.WithTokenSource(session.Token),
//		apiclient.WithTenantKey(orgID),
//	)
//	defer client.Close()
//
//	var bookings []Booking
//	err := client.Get(ctx, "/api/bookings", &bookings)
//
//	var cfg SiteConfig
//	err = client.Get(ctx, "/api/site/config", &cfg,
//		apiclient.WithCallTimeout(apiclient.DefaultConfigTimeout))
//
// Errors are typed: *TransportError, *TimeoutError, *HTTPStatusError,
// *DecodeError. Inspect them with errors.As. A 204 response is a
// successful empty result, never an error.
//
// # Diagnostics
//
// Pending reports the live number of physical in-flight calls
// (cache hits excluded) and is cheap enough to poll every second:
//
//	go func() {
//		for range time.Tick(time.Second) {
//			gauge.Set(float64(client.Pending()))
//		}
//	}()
package apiclient
