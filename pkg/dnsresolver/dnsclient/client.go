// Package dnsclient implements dnsresolver.Resolver with direct queries to a
// configured set of nameservers.
package dnsclient

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/miekg/dns"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"domainctl/pkg/dnsresolver"
	"domainctl/pkg/logger"
	"domainctl/pkg/metrics"
)

var _ dnsresolver.Resolver = (*Client)(nil)

const (
	defaultTimeout    = 5 * time.Second
	defaultResolvConf = "/etc/resolv.conf"
)

// Options configures the nameservers queried and the per-query timeout.
type Options struct {
	// Nameservers are host or host:port addresses. When empty the servers of
	// /etc/resolv.conf are used.
	Nameservers []string
	// Timeout bounds a single query, including a TCP retry after truncation.
	Timeout time.Duration
}

// Client queries nameservers in order until one gives an authoritative answer.
type Client struct {
	servers []string
	timeout time.Duration
	udp     *dns.Client
	tcp     *dns.Client

	latency metric.Float64Histogram
	lookups metric.Int64Counter
}

// New builds a Client from options.
func New(options Options) (*Client, error) {
	servers := options.Nameservers
	if len(servers) == 0 {
		conf, err := dns.ClientConfigFromFile(defaultResolvConf)
		if err != nil {
			return nil, fmt.Errorf("could not read resolv.conf: %w", err)
		}
		for _, s := range conf.Servers {
			servers = append(servers, net.JoinHostPort(s, conf.Port))
		}
	}
	if len(servers) == 0 {
		return nil, errors.New("no nameservers configured")
	}

	normalized := make([]string, 0, len(servers))
	for _, s := range servers {
		if _, _, err := net.SplitHostPort(s); err != nil {
			s = net.JoinHostPort(s, "53")
		}
		normalized = append(normalized, s)
	}

	timeout := options.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	meter := metrics.Meter("dnsclient")

	return &Client{
		servers: normalized,
		timeout: timeout,
		udp:     &dns.Client{Net: "udp", Timeout: timeout},
		tcp:     &dns.Client{Net: "tcp", Timeout: timeout},
		latency: metrics.Histogram(meter, "dns_lookup_seconds", "CNAME lookup latency"),
		lookups: metrics.Counter(meter, "dns_lookups_total", "CNAME lookups by outcome"),
	}, nil
}

// LookupCNAME returns the first CNAME in the answer section for hostname. It
// does not follow chains: the verification target must be the direct CNAME.
func (c *Client) LookupCNAME(ctx context.Context, hostname string) (string, bool, error) {
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(hostname), dns.TypeCNAME)
	msg.RecursionDesired = true

	start := time.Now()
	target, found, err := c.lookup(ctx, msg)

	outcome := "found"
	switch {
	case err != nil:
		outcome = "error"
	case !found:
		outcome = "missing"
	}
	attrs := metric.WithAttributes(attribute.String(metrics.AttrOutcome, outcome))
	c.latency.Record(ctx, time.Since(start).Seconds(), attrs)
	c.lookups.Add(ctx, 1, attrs)

	return target, found, err
}

func (c *Client) lookup(ctx context.Context, msg *dns.Msg) (string, bool, error) {
	var lastErr error
	for _, server := range c.servers {
		resp, err := c.exchange(ctx, msg, server)
		if err != nil {
			logger.Debug(ctx, "nameserver query failed", zap.String("server", server), zap.Error(err))
			lastErr = err

			continue
		}

		switch resp.Rcode {
		case dns.RcodeSuccess:
		case dns.RcodeNameError:
			return "", false, nil
		default:
			lastErr = fmt.Errorf("nameserver %s answered %s", server, dns.RcodeToString[resp.Rcode])

			continue
		}

		for _, rr := range resp.Answer {
			if cname, ok := rr.(*dns.CNAME); ok {
				return cname.Target, true, nil
			}
		}

		return "", false, nil
	}

	return "", false, fmt.Errorf("could not resolve %s: %w", msg.Question[0].Name, lastErr)
}

func (c *Client) exchange(ctx context.Context, msg *dns.Msg, server string) (*dns.Msg, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, _, err := c.udp.ExchangeContext(ctx, msg, server)
	if err != nil {
		return nil, fmt.Errorf("could not query %s: %w", server, err)
	}
	if resp.Truncated {
		resp, _, err = c.tcp.ExchangeContext(ctx, msg, server)
		if err != nil {
			return nil, fmt.Errorf("could not query %s over tcp: %w", server, err)
		}
	}

	return resp, nil
}
