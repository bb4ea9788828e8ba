package gateway

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Proxy forwards validated requests to the core service and relays the
// response verbatim, status and body included.
type Proxy struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

func NewProxy(baseURL string, logger *zerolog.Logger) *Proxy {
	return &Proxy{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
		log:     logger.With().Str("component", "proxy").Logger(),
	}
}

// Forward replays the inbound request against the core service. body may be
// nil for requests without one; the caller passes the already-read bytes so
// validation and forwarding share a single read.
func (p *Proxy) Forward(w http.ResponseWriter, r *http.Request, body []byte) {
	url := p.baseURL + r.URL.Path
	if r.URL.RawQuery != "" {
		url += "?" + r.URL.RawQuery
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(r.Context(), r.Method, url, reader)
	if err != nil {
		p.log.Error().Err(err).Str("url", url).Msg("failed to build upstream request")
		http.Error(w, "bad gateway", http.StatusBadGateway)
		return
	}
	req.Header = r.Header.Clone()

	resp, err := p.client.Do(req)
	if err != nil {
		p.log.Error().Err(err).Str("url", url).Msg("upstream request failed")
		http.Error(w, "bad gateway", http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()

	for key, values := range resp.Header {
		for _, value := range values {
			w.Header().Add(key, value)
		}
	}
	w.WriteHeader(resp.StatusCode)
	if _, err := io.Copy(w, resp.Body); err != nil {
		p.log.Warn().Err(err).Msg("failed to relay upstream response body")
	}
}
