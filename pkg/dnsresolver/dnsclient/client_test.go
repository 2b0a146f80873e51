package dnsclient_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/require"

	"domainctl/pkg/dnsresolver/dnsclient"
)

func startServer(t *testing.T, handler dns.HandlerFunc) string {
	t.Helper()

	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)

	started := make(chan struct{})
	srv := &dns.Server{PacketConn: pc, Handler: handler, NotifyStartedFunc: func() { close(started) }}
	go func() {
		_ = srv.ActivateAndServe()
	}()
	<-started
	t.Cleanup(func() { _ = srv.Shutdown() })

	return pc.LocalAddr().String()
}

func zone(w dns.ResponseWriter, r *dns.Msg) {
	m := new(dns.Msg)
	m.SetReply(r)

	name := r.Question[0].Name
	switch name {
	case "links.acme.com.":
		m.Answer = append(m.Answer, &dns.CNAME{
			Hdr:    dns.RR_Header{Name: name, Rrtype: dns.TypeCNAME, Class: dns.ClassINET, Ttl: 60},
			Target: "f3a1.cname.shortlinks.net.",
		})
	case "apex.acme.com.":
		// exists, but only with an A record
	case "broken.acme.com.":
		m.SetRcode(r, dns.RcodeServerFailure)
	default:
		m.SetRcode(r, dns.RcodeNameError)
	}

	_ = w.WriteMsg(m)
}

func servfail(w dns.ResponseWriter, r *dns.Msg) {
	m := new(dns.Msg)
	m.SetRcode(r, dns.RcodeServerFailure)
	_ = w.WriteMsg(m)
}

func TestClient_LookupCNAME(t *testing.T) {
	addr := startServer(t, zone)
	c, err := dnsclient.New(dnsclient.Options{Nameservers: []string{addr}, Timeout: time.Second})
	require.NoError(t, err)

	ctx := context.Background()

	target, found, err := c.LookupCNAME(ctx, "links.acme.com")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "f3a1.cname.shortlinks.net.", target)

	_, found, err = c.LookupCNAME(ctx, "apex.acme.com")
	require.NoError(t, err)
	require.False(t, found)

	_, found, err = c.LookupCNAME(ctx, "nope.acme.com")
	require.NoError(t, err)
	require.False(t, found)

	_, _, err = c.LookupCNAME(ctx, "broken.acme.com")
	require.Error(t, err)
}

func TestClient_FallsThroughToNextServer(t *testing.T) {
	bad := startServer(t, servfail)
	good := startServer(t, zone)

	c, err := dnsclient.New(dnsclient.Options{Nameservers: []string{bad, good}, Timeout: time.Second})
	require.NoError(t, err)

	target, found, err := c.LookupCNAME(context.Background(), "links.acme.com.")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "f3a1.cname.shortlinks.net.", target)
}

func TestClient_Timeout(t *testing.T) {
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = pc.Close() })

	// nothing ever answers on pc
	c, err := dnsclient.New(dnsclient.Options{Nameservers: []string{pc.LocalAddr().String()}, Timeout: 100 * time.Millisecond})
	require.NoError(t, err)

	start := time.Now()
	_, _, err = c.LookupCNAME(context.Background(), "links.acme.com")
	require.Error(t, err)
	require.Less(t, time.Since(start), 2*time.Second)
}

func TestNew_DefaultPort(t *testing.T) {
	_, err := dnsclient.New(dnsclient.Options{Nameservers: []string{"127.0.0.1"}})
	require.NoError(t, err)
}
