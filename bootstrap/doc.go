// Package bootstrap runs a service through its lifecycle: config defaults
// and validation, logger setup, ordered component start, configure
// callbacks, a ready check, a startup summary, then graceful shutdown on
// SIGINT or SIGTERM.
//
//	app, err := bootstrap.NewApp(cfg)
//	if err != nil {
//	    return err
//	}
//	_ = app.RegisterComponent(model)
//	_ = app.RegisterComponent(server.NewComponent(srv))
//	return app.Run(ctx)
package bootstrap
