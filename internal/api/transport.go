package api

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"
)

// NewHTTPClient builds an HTTP client honoring an optional proxy URL and an
// optional custom CA bundle (for deployments behind corporate TLS
// interception). Empty strings fall back to environment/system defaults.
func NewHTTPClient(timeout time.Duration, proxyURL, caBundlePath string) (*http.Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	if proxyURL != "" {
		proxy, err := url.Parse(proxyURL)
		if err != nil {
			return nil, fmt.Errorf("parse proxy url: %w", err)
		}
		transport.Proxy = http.ProxyURL(proxy)
	}

	if caBundlePath != "" {
		pem, err := os.ReadFile(caBundlePath)
		if err != nil {
			return nil, fmt.Errorf("read ca bundle: %w", err)
		}

		pool, err := x509.SystemCertPool()
		if err != nil {
			pool = x509.NewCertPool()
		}
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("no certificates found in %s", caBundlePath)
		}

		transport.TLSClientConfig = &tls.Config{RootCAs: pool}
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}, nil
}
