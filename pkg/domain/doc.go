// Package domain contains the custom-domain aggregate and the rules that move it
// through its lifecycle. Types here are free of infrastructure concerns: the
// engines under internal/ load a Domain, apply an event, and persist the result.
package domain
