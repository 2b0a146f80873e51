package reservation

import (
	"errors"
	"fmt"
	"net"
	"regexp"
	"strings"

	"golang.org/x/net/idna"

	"domainctl/pkg/domain"
)

const maxHostnameLength = 253

var (
	labelPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?$`) //nolint: gochecknoglobals
	numericLabel = regexp.MustCompile(`^[0-9]+$`)                             //nolint: gochecknoglobals
)

// NormalizeHostname returns the canonical form of a tenant hostname:
//   - surrounding whitespace and a trailing root dot are removed
//   - unicode labels are converted to punycode and everything is lower-cased
//   - wildcards, IP literals and single-label names are rejected
//   - names equal to or below platformBase are rejected
//
// platformBase may be empty.
func NormalizeHostname(raw, platformBase string) (string, error) {
	host := strings.TrimSuffix(strings.TrimSpace(raw), ".")
	if host == "" {
		return "", errors.New("hostname is empty")
	}
	if strings.Contains(host, "*") {
		return "", errors.New("wildcard hostnames are not supported")
	}
	if strings.ContainsAny(host, "/:@ ") {
		return "", errors.New("hostname must not contain a scheme, port, path or credentials")
	}
	if net.ParseIP(strings.Trim(host, "[]")) != nil {
		return "", errors.New("IP addresses are not supported")
	}

	ascii, err := idna.Lookup.ToASCII(host)
	if err != nil {
		return "", fmt.Errorf("invalid hostname: %w", err)
	}
	ascii = strings.ToLower(ascii)

	if len(ascii) > maxHostnameLength {
		return "", fmt.Errorf("hostname is longer than %d characters", maxHostnameLength)
	}

	labels := strings.Split(ascii, ".")
	if len(labels) < 2 {
		return "", errors.New("hostname must have at least two labels")
	}
	for _, label := range labels {
		if !labelPattern.MatchString(label) {
			return "", fmt.Errorf("invalid hostname label %q", label)
		}
	}
	if numericLabel.MatchString(labels[len(labels)-1]) {
		return "", errors.New("top-level label must not be numeric")
	}

	if base := domain.NormalizeFQDN(platformBase); base != "" {
		if ascii == base || strings.HasSuffix(ascii, "."+base) {
			return "", errors.New("hostnames under the platform domain cannot be reserved")
		}
	}

	return ascii, nil
}
