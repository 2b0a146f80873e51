package controller

import (
	"net/http"
	"net/http/pprof"
	"strings"
)

// DefaultPprofPrefix is where net/http/pprof expects to be mounted; named
// profiles such as heap or goroutine are only resolved under it.
const DefaultPprofPrefix = "/debug/pprof"

// PprofMux returns an http.ServeMux with the net/http/pprof handlers registered
// under prefix. Mount it on the main mux at prefix + "/" without stripping.
func PprofMux(prefix string) *http.ServeMux {
	prefix = strings.TrimSuffix(prefix, "/")
	if prefix == "" {
		prefix = DefaultPprofPrefix
	}

	mux := http.NewServeMux()
	mux.HandleFunc(prefix+"/", pprof.Index)
	mux.HandleFunc(prefix+"/cmdline", pprof.Cmdline)
	mux.HandleFunc(prefix+"/profile", pprof.Profile)
	mux.HandleFunc(prefix+"/symbol", pprof.Symbol)
	mux.HandleFunc(prefix+"/trace", pprof.Trace)

	return mux
}
