// Package controller contains HTTP middlewares and helper handlers shared by
// the API server: CORS, request logging with request ids, panic recovery and
// the pprof mux.
package controller
