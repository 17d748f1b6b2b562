// Package testutil runs a server.Server behind httptest for end-to-end
// tests over a real loopback connection.
//
//	srv := testutil.NewServer(testutil.WithMaxBodySize("64KB"))
//	srv.GinEngine().GET("/v1/models", handler)
//	srv.StartT(t)
//	resp, err := srv.Client().Get(srv.URL("/v1/models"))
package testutil
