// Package server assembles a pingchain node: logger, metrics, tracer
// provider, downstream client, gin router and middleware, and runs it behind
// an http.Server with graceful shutdown.
//
//	srv, err := server.New(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer srv.Close()
//	return srv.Run(ctx)
package server
