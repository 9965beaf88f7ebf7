package telemetry

import (
	"fmt"
	"net/url"
	"strings"
)

// OTLP signal paths.
const (
	TracesPath = "/v1/traces"
	LogsPath   = "/v1/logs"
)

// OTLPEndpoint is a collector URL split into the pieces the HTTP exporters take.
type OTLPEndpoint struct {
	HostPort string
	URLPath  string
	Insecure bool
	Resolved string
}

// ParseOTLPEndpoint normalizes a collector base URL such as
// "http://collector:4318" for the given signal path. A URL that already
// ends in the signal path is kept as is.
func ParseOTLPEndpoint(raw string, signalPath string) (OTLPEndpoint, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return OTLPEndpoint{}, fmt.Errorf("invalid OTLP endpoint %q: %w", raw, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return OTLPEndpoint{}, fmt.Errorf("invalid OTLP endpoint %q: expected http(s)://host:port", raw)
	}

	path := strings.TrimRight(u.Path, "/")
	if !strings.HasSuffix(path, signalPath) {
		path += signalPath
	}

	return OTLPEndpoint{
		HostPort: u.Host,
		URLPath:  path,
		Insecure: u.Scheme == "http",
		Resolved: u.Scheme + "://" + u.Host + path,
	}, nil
}
