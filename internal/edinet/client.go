package edinet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/epeers/edinetfin/internal/models"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// EDINET is the FSA's electronic disclosure registry. Listings are per day, not
// per company, and every call needs a Subscription-Key.
// https://disclosure2dl.edinet-fsa.go.jp/guide/static/disclosure/WZEK0110.html
const defaultBaseURL = "https://api.edinet-fsa.go.jp/api/v2"

const (
	defaultTimeout          = 30 * time.Second
	defaultRatePerSec       = 5
	defaultMaxDownloadBytes = 256 << 20
)

var (
	// ErrRegistryUnavailable covers transport failures and non-200 HTTP status on listings. Retryable.
	ErrRegistryUnavailable = errors.New("registry unavailable")
	// ErrRegistryLogical is a non-"200" status embedded in a listing body.
	ErrRegistryLogical = errors.New("registry returned an error status")
	// ErrDownloadFailed covers transport failures fetching a filing. Retryable.
	ErrDownloadFailed = errors.New("document download failed")
	// ErrNoStructuredDocument means the filing archive holds no XBRL instance.
	ErrNoStructuredDocument = errors.New("no structured document in filing")
)

// Options tune a Client
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	RatePerSec float64
	Burst      int
	// MaxDownloadBytes caps a single document payload.
	MaxDownloadBytes int64
}

// Client is an HTTP client for the EDINET v2 API
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	maxBytes   int64
}

// NewClient creates a new EDINET client
func NewClient(apiKey string) *Client {
	return NewClientWithOptions(apiKey, Options{})
}

// NewClientWithBaseURL creates a new EDINET client with a custom base URL (for testing)
func NewClientWithBaseURL(apiKey, baseURL string) *Client {
	return NewClientWithOptions(apiKey, Options{BaseURL: baseURL})
}

// NewClientWithOptions creates a client; zero option fields take defaults.
func NewClientWithOptions(apiKey string, opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.RatePerSec <= 0 {
		opts.RatePerSec = defaultRatePerSec
	}
	if opts.Burst <= 0 {
		opts.Burst = 1
	}
	if opts.MaxDownloadBytes <= 0 {
		opts.MaxDownloadBytes = defaultMaxDownloadBytes
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		limiter:  rate.NewLimiter(rate.Limit(opts.RatePerSec), opts.Burst),
		maxBytes: opts.MaxDownloadBytes,
	}
}

// GetDocumentList fetches the filings the registry lists for one date.
// Entries without a securities code are dropped and the rest have their code
// normalized to 4 characters. An entry that does not decode is skipped with a
// warning rather than failing the whole day.
func (c *Client) GetDocumentList(ctx context.Context, date time.Time, listType ListType) ([]models.FilingReference, error) {
	params := url.Values{}
	params.Set("date", date.Format("2006-01-02"))
	params.Set("type", strconv.Itoa(int(listType)))

	resp, err := c.doRequest(ctx, "/documents.json", params)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRegistryUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: API returned status %d", ErrRegistryUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", ErrRegistryUnavailable, err)
	}

	var listResp DocumentListResponse
	if err := json.Unmarshal(body, &listResp); err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal response: %v", ErrRegistryUnavailable, err)
	}

	if listResp.Metadata.Status != "200" {
		return nil, fmt.Errorf("%w: status %q: %s", ErrRegistryLogical, listResp.Metadata.Status, listResp.Metadata.Message)
	}

	var filings []models.FilingReference
	for i, raw := range listResp.Results {
		var doc DocumentResult
		if err := json.Unmarshal(raw, &doc); err != nil {
			log.Warnf("Skipping undecodable listing entry %d for %s: %v", i, date.Format("2006-01-02"), err)
			continue
		}
		ref, ok := doc.toFilingReference()
		if !ok {
			continue
		}
		filings = append(filings, ref)
	}

	return filings, nil
}

// DownloadDocument fetches the raw payload of a filing in the requested rendition.
func (c *Client) DownloadDocument(ctx context.Context, docID string, docType DocumentType) ([]byte, error) {
	if docID == "" {
		return nil, fmt.Errorf("%w: empty document ID", ErrDownloadFailed)
	}
	params := url.Values{}
	params.Set("type", strconv.Itoa(int(docType)))

	resp, err := c.doRequest(ctx, "/documents/"+url.PathEscape(docID), params)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDownloadFailed, docID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s: API returned status %d", ErrDownloadFailed, docID, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: failed to read response: %v", ErrDownloadFailed, docID, err)
	}
	if int64(len(body)) > c.maxBytes {
		return nil, fmt.Errorf("%w: %s: payload exceeds %d bytes", ErrDownloadFailed, docID, c.maxBytes)
	}

	// A refused download still answers 200, with a JSON body in place of the file.
	if strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		var errResp errorResponse
		msg := string(body)
		if json.Unmarshal(body, &errResp) == nil {
			if errResp.Metadata.Message != "" {
				msg = errResp.Metadata.Status + " " + errResp.Metadata.Message
			} else if errResp.Message != "" {
				msg = errResp.Message
			}
		}
		return nil, fmt.Errorf("%w: %s: %s", ErrDownloadFailed, docID, msg)
	}

	return body, nil
}

// FetchXBRL downloads a filing's XBRL archive and returns its instance documents,
// most preferred first.
func (c *Client) FetchXBRL(ctx context.Context, docID string) ([]XBRLDocument, error) {
	payload, err := c.DownloadDocument(ctx, docID, DocumentXBRL)
	if err != nil {
		return nil, err
	}
	docs, err := ExtractXBRL(payload)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", docID, err)
	}
	log.Debugf("FetchXBRL %s: %d instance document(s), using %s", docID, len(docs), docs[0].Name)
	return docs, nil
}

func (c *Client) doRequest(ctx context.Context, path string, params url.Values) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	params.Set("Subscription-Key", c.apiKey)
	reqURL := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	return resp, nil
}
