package invoicesrc

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/invoicekeeper/internal/common"
	"github.com/dmitrijs2005/invoicekeeper/internal/models"
	"github.com/google/uuid"
)

// DefaultInvoicesPath is the resource fetched relative to the base URL.
const DefaultInvoicesPath = "invoices.json"

// HTTPSource fetches the invoice envelope with a GET request.
type HTTPSource struct {
	client *http.Client
	url    string
	signer *Signer
}

// NewHTTPSource targets baseURL + DefaultInvoicesPath. A nil client means
// http.DefaultClient; a nil signer sends no Authorization header.
func NewHTTPSource(baseURL string, client *http.Client, signer *Signer) *HTTPSource {
	if client == nil {
		client = http.DefaultClient
	}
	u := strings.TrimRight(baseURL, "/") + "/" + DefaultInvoicesPath
	return &HTTPSource{client: client, url: u, signer: signer}
}

// FetchAll issues one GET with a fresh request id and, when a signer is set,
// a bearer token. Any non-2xx status is a Server failure.
func (s *HTTPSource) FetchAll(ctx context.Context) ([]models.Invoice, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, common.NewFetchError(common.FetchUnknown, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(common.RequestIDHeaderName, uuid.NewString())

	auth, err := s.signer.Authorization()
	if err != nil {
		return nil, common.NewFetchError(common.FetchUnknown, fmt.Errorf("sign request: %w", err))
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, common.AsFetchError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, common.NewFetchError(common.ClassifyHTTPStatus(resp.StatusCode),
			fmt.Errorf("unexpected status %d from %s", resp.StatusCode, s.url))
	}

	list, err := DecodeInvoices(resp.Body)
	if err != nil {
		return nil, common.NewFetchError(common.ClassifyTransport(err), err)
	}
	return list, nil
}
