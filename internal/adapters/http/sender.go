package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"runtime"

	"golang.org/x/time/rate"

	"github.com/bft-labs/docship/internal/domain"
	"github.com/bft-labs/docship/internal/ports"
	"github.com/bft-labs/docship/pkg/log"
)

const documentsEndpoint = "/v1/ingest/documents"

// Endpoint holds the remote service location and credentials.
type Endpoint struct {
	ServiceURL string
	AuthKey    string
	Hostname   string
}

// manifest describes the uploaded document.
type manifest struct {
	RunID  string `json:"run_id"`
	File   string `json:"file"`
	Format string `json:"format"`
	Size   int    `json:"size"`
}

// Sender implements ports.Sender using HTTP.
type Sender struct {
	client   ports.HTTPClient
	endpoint Endpoint
	limiter  *rate.Limiter
	logger   ports.Logger
}

// NewSender creates a new HTTP document sender. At most uploadsPerSecond
// requests are started per second; zero or less means no limit.
func NewSender(client ports.HTTPClient, endpoint Endpoint, uploadsPerSecond float64, logger ports.Logger) *Sender {
	limit := rate.Inf
	if uploadsPerSecond > 0 {
		limit = rate.Limit(uploadsPerSecond)
	}
	return &Sender{
		client:   client,
		endpoint: endpoint,
		limiter:  rate.NewLimiter(limit, 1),
		logger:   log.OrDiscard(logger),
	}
}

// Send uploads signed content to the remote service.
func (s *Sender) Send(ctx context.Context, signed domain.SignedContent, metadata ports.SendMetadata) error {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	manifestJSON, err := json.Marshal(manifest{
		RunID:  metadata.RunID,
		File:   metadata.FileName,
		Format: metadata.Format,
		Size:   len(signed),
	})
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}

	manifestPart, err := writer.CreateFormField("manifest")
	if err != nil {
		return fmt.Errorf("create manifest field: %w", err)
	}
	if _, err := manifestPart.Write(manifestJSON); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	docPart, err := writer.CreateFormFile("document", metadata.FileName+".signed")
	if err != nil {
		return fmt.Errorf("create document field: %w", err)
	}
	if _, err := docPart.Write(signed); err != nil {
		return fmt.Errorf("write document: %w", err)
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("finalize multipart: %w", err)
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("wait for rate limit: %w", err)
	}

	url := s.endpoint.ServiceURL + documentsEndpoint
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", writer.FormDataContentType())
	if s.endpoint.AuthKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.endpoint.AuthKey)
	}
	req.Header.Set("X-Agent-Hostname", s.endpoint.Hostname)
	req.Header.Set("X-Agent-OSArch", runtime.GOOS+"/"+runtime.GOARCH)
	req.Header.Set("X-Docship-Run-Id", metadata.RunID)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, string(respBody))
	}

	s.logger.Debug("document uploaded",
		ports.String("file", metadata.FileName),
		ports.Int("bytes", len(signed)),
	)
	return nil
}
