package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/zkchannel-org/zkchannel/types"
)

const (
	SlotPath         = "api/v1/slot"
	InstructionsPath = "api/v1/instructions"
	AccountsPath     = "api/v1/accounts"

	defaultScheme   = "http://"
	contentType     = "Content-Type"
	applicationJson = "application/json"
)

type (
	// HTTPTransport talks to a node's JSON API over HTTP. It is safe for
	// concurrent use, http.Client handles connection sharing.
	HTTPTransport struct {
		BaseUrl    string
		HttpClient http.Client

		slotURL         *url.URL
		instructionsURL *url.URL
		accountsURL     *url.URL
	}

	slotResponse struct {
		Slot types.Slot `json:"slot"`
	}

	submitRequest struct {
		ProgramID string              `json:"programId"`
		Accounts  []submitAccountMeta `json:"accounts"`
		Data      hexutil.Bytes       `json:"data"`
	}

	submitAccountMeta struct {
		Address  string `json:"address"`
		Signer   bool   `json:"signer"`
		Writable bool   `json:"writable"`
	}

	submitResponse struct {
		Signature string `json:"signature"`
	}

	accountResponse struct {
		Data hexutil.Bytes `json:"data"`
	}
)

func NewHTTPTransport(baseUrl string) (*HTTPTransport, error) {
	if !strings.HasPrefix(baseUrl, "http://") && !strings.HasPrefix(baseUrl, "https://") {
		baseUrl = defaultScheme + baseUrl
	}
	u, err := url.Parse(baseUrl)
	if err != nil {
		return nil, fmt.Errorf("error parsing node base URL (%s): %w", baseUrl, err)
	}
	return &HTTPTransport{
		BaseUrl:         u.String(),
		HttpClient:      http.Client{Timeout: time.Minute},
		slotURL:         u.JoinPath(SlotPath),
		instructionsURL: u.JoinPath(InstructionsPath),
		accountsURL:     u.JoinPath(AccountsPath),
	}, nil
}

func (t *HTTPTransport) CurrentSlot(ctx context.Context) (types.Slot, error) {
	var res slotResponse
	if err := t.get(ctx, t.slotURL.String(), &res); err != nil {
		return 0, fmt.Errorf("request CurrentSlot failed: %w", err)
	}
	return res.Slot, nil
}

func (t *HTTPTransport) SubmitInstruction(ctx context.Context, ix types.Instruction) (types.Signature, error) {
	body := submitRequest{
		ProgramID: ix.ProgramID.String(),
		Accounts:  make([]submitAccountMeta, 0, len(ix.Accounts)),
		Data:      ix.Data,
	}
	for _, meta := range ix.Accounts {
		body.Accounts = append(body.Accounts, submitAccountMeta{
			Address:  meta.Address.String(),
			Signer:   meta.Signer,
			Writable: meta.Writable,
		})
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to serialize instruction: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.instructionsURL.String(), bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build SubmitInstruction request: %w", err)
	}
	req.Header.Set(contentType, applicationJson)
	response, err := t.HttpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request SubmitInstruction failed: %w", err)
	}
	defer func() { _ = response.Body.Close() }()
	if response.StatusCode != http.StatusAccepted && response.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected response status code: %d", response.StatusCode)
	}
	var res submitResponse
	if err := decodeBody(response, &res); err != nil {
		return "", fmt.Errorf("failed to decode SubmitInstruction response: %w", err)
	}
	return types.Signature(res.Signature), nil
}

func (t *HTTPTransport) ReadAccount(ctx context.Context, addr types.Address) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.accountsURL.JoinPath(addr.String()).String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build ReadAccount request: %w", err)
	}
	req.Header.Set(contentType, applicationJson)
	response, err := t.HttpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request ReadAccount failed: %w", err)
	}
	defer func() { _ = response.Body.Close() }()
	if response.StatusCode == http.StatusNotFound {
		return nil, ErrAccountNotFound
	}
	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected response status code: %d", response.StatusCode)
	}
	var res accountResponse
	if err := decodeBody(response, &res); err != nil {
		return nil, fmt.Errorf("failed to decode ReadAccount response: %w", err)
	}
	return res.Data, nil
}

func (t *HTTPTransport) get(ctx context.Context, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set(contentType, applicationJson)
	response, err := t.HttpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = response.Body.Close() }()
	if response.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected response status code: %d", response.StatusCode)
	}
	return decodeBody(response, v)
}

func decodeBody(response *http.Response, v any) error {
	data, err := io.ReadAll(response.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	return json.Unmarshal(data, v)
}
