package usecases

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"nft-launchpad.backend/internal/domain/entities"
	"nft-launchpad.backend/internal/infrastructure/metrics"
	"nft-launchpad.backend/pkg/logger"
)

const (
	DefaultMetadataTimeout = 5 * time.Second
	maxMetadataBytes       = 1 << 20
)

// MetadataResolver fetches ERC-721 metadata JSON. It never fails: every
// problem is reported as "no metadata".
type MetadataResolver struct {
	httpClient *http.Client
	gateway    string
	timeout    time.Duration
	metrics    *metrics.Metrics
}

func NewMetadataResolver(gateway string, timeout time.Duration, m *metrics.Metrics) *MetadataResolver {
	if timeout <= 0 {
		timeout = DefaultMetadataTimeout
	}
	return &MetadataResolver{
		httpClient: &http.Client{},
		gateway:    strings.TrimRight(gateway, "/"),
		timeout:    timeout,
		metrics:    m,
	}
}

// Gateway returns the IPFS gateway base used for rewrites.
func (r *MetadataResolver) Gateway() string {
	return r.gateway
}

// Resolve returns nil for an empty or unsupported URI, a timeout, a non-2xx
// answer or a body that is not metadata JSON.
func (r *MetadataResolver) Resolve(ctx context.Context, tokenURI string) *entities.TokenMetadata {
	tokenURI = strings.TrimSpace(tokenURI)
	if tokenURI == "" || !isFetchableURI(tokenURI) {
		r.metrics.IncMetadataFetch("skipped")
		return nil
	}
	url := RewriteIPFS(tokenURI, r.gateway)

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		r.metrics.IncMetadataFetch("error")
		return nil
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		result := "error"
		if ctx.Err() != nil {
			result = "timeout"
		}
		r.metrics.IncMetadataFetch(result)
		logger.Debug(ctx, "metadata fetch failed", zap.String("uri", url), zap.Error(err))
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		r.metrics.IncMetadataFetch("http_error")
		logger.Debug(ctx, "metadata fetch returned non-2xx", zap.String("uri", url), zap.Int("status", resp.StatusCode))
		return nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxMetadataBytes))
	if err != nil {
		r.metrics.IncMetadataFetch("error")
		return nil
	}
	meta, ok := decodeMetadata(body)
	if !ok {
		r.metrics.IncMetadataFetch("invalid_json")
		return nil
	}

	if meta.Image == "" {
		meta.Image = meta.ImageURL
	}
	meta.Image = RewriteIPFS(meta.Image, r.gateway)
	r.metrics.IncMetadataFetch("ok")
	return meta
}

type rawMetadata struct {
	Name        json.RawMessage `json:"name"`
	Description json.RawMessage `json:"description"`
	Image       json.RawMessage `json:"image"`
	ImageURL    json.RawMessage `json:"image_url"`
	Attributes  json.RawMessage `json:"attributes"`
}

// decodeMetadata accepts any JSON object. Fields of an unexpected type are
// dropped one by one instead of rejecting the document.
func decodeMetadata(body []byte) (*entities.TokenMetadata, bool) {
	var raw rawMetadata
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, false
	}
	return &entities.TokenMetadata{
		Name:        looseString(raw.Name),
		Description: looseString(raw.Description),
		Image:       looseString(raw.Image),
		ImageURL:    looseString(raw.ImageURL),
		Attributes:  looseAttributes(raw.Attributes),
	}, true
}

// looseString reads a JSON string, or the literal of a JSON number.
func looseString(raw json.RawMessage) string {
	var v interface{}
	if decodeNumber(raw, &v) != nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	}
	return ""
}

// looseAttributes reads the usual trait array, skipping malformed entries,
// or an object of trait name to value.
func looseAttributes(raw json.RawMessage) []entities.NFTAttribute {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err == nil {
		out := make([]entities.NFTAttribute, 0, len(items))
		for _, item := range items {
			var fields map[string]json.RawMessage
			if json.Unmarshal(item, &fields) != nil {
				continue
			}
			attr := entities.NFTAttribute{
				TraitType:   looseString(fields["trait_type"]),
				DisplayType: looseString(fields["display_type"]),
			}
			if v, ok := fields["value"]; ok {
				_ = decodeNumber(v, &attr.Value)
			}
			out = append(out, attr)
		}
		return out
	}

	var byTrait map[string]json.RawMessage
	if err := json.Unmarshal(raw, &byTrait); err != nil {
		return nil
	}
	traits := make([]string, 0, len(byTrait))
	for k := range byTrait {
		traits = append(traits, k)
	}
	sort.Strings(traits)
	out := make([]entities.NFTAttribute, 0, len(traits))
	for _, k := range traits {
		attr := entities.NFTAttribute{TraitType: k}
		_ = decodeNumber(byTrait[k], &attr.Value)
		out = append(out, attr)
	}
	return out
}

// decodeNumber keeps numeric trait values in their literal form.
func decodeNumber(raw json.RawMessage, v interface{}) error {
	if len(raw) == 0 {
		return io.EOF
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	return dec.Decode(v)
}
