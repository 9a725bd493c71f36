// Package api implements the wishlist HTTP API independent of any transport.
//
// A Router owns an ordered table of (method, path pattern) routes and turns a
// Request into a Response. Transports (the standalone server in httpapi and the
// Lambda adapter in lambdaapi) only translate their native events to and from
// these types.
//
//	h := api.NewHandlers(store.NewMemory(), logger)
//	r := api.NewRouter(&api.RouterConfig{Handlers: h, Logger: logger})
//	resp := r.Serve(ctx, api.Request{Method: "GET", Path: "/prod/wishlists"})
//
// Errors returned by handlers are rendered with the errs package, so every
// failure body has the shape {"error": "..."}.
package api
