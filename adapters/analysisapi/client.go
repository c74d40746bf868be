package analysisapi

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"solarweb/domain/core"
	"solarweb/internal"
	"solarweb/internal/errors"
	"solarweb/ports"
)

const (
	serviceName = "analysis"

	// uploadField is the multipart field the service reads the consumption file from
	uploadField = "consumption_file"

	maxResponseBytes = 64 << 20
	maxErrorExcerpt  = 256
)

// Client is an HTTP client for the external energy/solar analysis service
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *internal.Logger
}

var _ ports.AnalysisAPI = (*Client)(nil)

// NewClient creates a client for the service at baseURL
func NewClient(baseURL string, timeout time.Duration, logger *internal.Logger) *Client {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger.With("analysisapi"),
	}
}

// response is a fully read upstream response
type response struct {
	status int
	header http.Header
	body   []byte
}

func (c *Client) get(ctx context.Context, path string) (*response, error) {
	return c.do(ctx, http.MethodGet, path, nil, "")
}

// do sends a request and reads the whole response. Non-2xx answers are
// turned into coded errors: 404 becomes NOT_FOUND, everything else
// EXTERNAL_SERVICE_ERROR carrying the upstream status.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string) (*response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build request")
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("%s %s failed: %v", method, path, err)
		return nil, errors.ExternalServiceError(serviceName, 0, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, errors.ExternalServiceError(serviceName, resp.StatusCode, fmt.Errorf("failed to read response: %w", err))
	}
	c.logger.Debug("%s %s -> %d (%d bytes, %s)", method, path, resp.StatusCode, len(data), time.Since(start))

	if resp.StatusCode == http.StatusNotFound {
		nf := errors.NotFound(path)
		nf.Status = resp.StatusCode
		return nil, nf
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("%s %s returned status %d", method, path, resp.StatusCode)
		return nil, errors.ExternalServiceError(serviceName, resp.StatusCode,
			fmt.Errorf("status %d: %s", resp.StatusCode, excerpt(data)))
	}

	return &response{status: resp.StatusCode, header: resp.Header, body: data}, nil
}

// postMultipart streams file and fields as multipart/form-data
func (c *Client) postMultipart(ctx context.Context, path string, file ports.Upload, fields [][2]string) (*response, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		pw.CloseWithError(writeMultipart(mw, file, fields))
	}()

	resp, err := c.do(ctx, http.MethodPost, path, pr, mw.FormDataContentType())
	// unblock the writer if the request ended before consuming the body
	pr.Close()
	return resp, err
}

func writeMultipart(mw *multipart.Writer, file ports.Upload, fields [][2]string) error {
	for _, f := range fields {
		if err := mw.WriteField(f[0], f[1]); err != nil {
			return err
		}
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, uploadField, escapeQuotes(file.Filename)))
	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h.Set("Content-Type", contentType)

	part, err := mw.CreatePart(h)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, file.Body); err != nil {
		return err
	}
	return mw.Close()
}

func analysisPath(prefix string, id core.AnalysisID) string {
	return prefix + "/" + url.PathEscape(id.String())
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

func excerpt(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxErrorExcerpt {
		s = s[:maxErrorExcerpt] + "..."
	}
	return s
}
