package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/tidwall/gjson"

	"github.com/bft-labs/docship/internal/domain"
	"github.com/bft-labs/docship/internal/ports"
)

const thingsEndpoint = "/v1/things/"

// ThingService implements ports.ThingService against a remote catalogue.
//
// The response may be the thing itself, {"id": ..., "name": ...}, or wrapped
// as {"data": {"id": ..., "attributes": {"name": ...}}}.
type ThingService struct {
	client   ports.HTTPClient
	endpoint Endpoint
}

// NewThingService creates a new HTTP thing service.
func NewThingService(client ports.HTTPClient, endpoint Endpoint) *ThingService {
	return &ThingService{client: client, endpoint: endpoint}
}

// Read fetches a thing by id. A 404 response means the thing does not exist.
func (s *ThingService) Read(ctx context.Context, id string) (domain.Thing, bool, error) {
	if id == "" {
		return domain.Thing{}, false, domain.ErrInvalidThingID
	}

	u := s.endpoint.ServiceURL + thingsEndpoint + url.PathEscape(id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return domain.Thing{}, false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if s.endpoint.AuthKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.endpoint.AuthKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return domain.Thing{}, false, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.Thing{}, false, fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return domain.Thing{}, false, nil
	case resp.StatusCode/100 != 2:
		return domain.Thing{}, false, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(body))
	}

	thing, err := decodeThing(body)
	if err != nil {
		return domain.Thing{}, false, err
	}
	if thing.ID == "" {
		thing.ID = id
	}
	return thing, true, nil
}

func decodeThing(body []byte) (domain.Thing, error) {
	if !gjson.ValidBytes(body) {
		return domain.Thing{}, fmt.Errorf("decode thing: invalid json")
	}
	doc := gjson.ParseBytes(body)
	if !doc.IsObject() {
		return domain.Thing{}, fmt.Errorf("decode thing: not an object")
	}
	if data := doc.Get("data"); data.IsObject() {
		doc = data
	}

	name := doc.Get("name")
	if !name.Exists() {
		name = doc.Get("attributes.name")
	}
	return domain.Thing{ID: doc.Get("id").String(), Name: name.String()}, nil
}
