package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hance08/tally/internal/model"
)

// HTTPSource reads accounts from a CRUD service exposing GET {base}/accounts
// that answers {"value": [{"Id", "Code", "Name", "Type", "IsActive"}]}.
type HTTPSource struct {
	baseURL string
	client  *http.Client
}

func NewHTTPSource(baseURL string, timeout time.Duration) *HTTPSource {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

type accountsResponse struct {
	Value []remoteAccount `json:"value"`
}

type remoteAccount struct {
	ID       string `json:"Id"`
	Code     string `json:"Code"`
	Name     string `json:"Name"`
	Type     string `json:"Type"`
	IsActive *bool  `json:"IsActive"`
}

func (h *HTTPSource) ListAccounts(ctx context.Context) ([]*model.Account, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+"/accounts", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build accounts request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("accounts endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload accountsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode accounts: %w", err)
	}

	accounts := make([]*model.Account, 0, len(payload.Value))
	for _, ra := range payload.Value {
		active := true
		if ra.IsActive != nil {
			active = *ra.IsActive
		}
		accounts = append(accounts, &model.Account{
			ID:       ra.ID,
			Code:     ra.Code,
			Name:     ra.Name,
			Type:     ra.Type,
			IsActive: active,
		})
	}
	return accounts, nil
}
