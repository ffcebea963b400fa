//go:build pact
// +build pact

package consumer_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	pacttest "github.com/Apurer/mediswift-api/test/pact"

	pactconsumer "github.com/pact-foundation/pact-go/v2/consumer"
	pactlog "github.com/pact-foundation/pact-go/v2/log"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/stretchr/testify/require"
)

type itemPayload struct {
	ID                   string `json:"id"`
	Name                 string `json:"name"`
	Price                string `json:"price"`
	RequiresPrescription bool   `json:"requiresPrescription"`
	Category             string `json:"category"`
}

type problemDetail struct {
	Type       string         `json:"type"`
	Title      string         `json:"title"`
	Status     int            `json:"status"`
	Detail     string         `json:"detail"`
	Extensions map[string]any `json:"extensions"`
}

type apiError struct {
	problem problemDetail
	status  int
}

func (e apiError) Error() string {
	return fmt.Sprintf("%s: %s (status %d)", e.problem.Title, e.problem.Detail, e.status)
}

func TestPharmacyPortalContract(t *testing.T) {
	pactlog.SetLogLevel("INFO")

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.ConsumerName,
		Provider: pacttest.ProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	jsonContentType := matchers.Regex("application/json; charset=utf-8", "application\\/json(?:;\\s?charset=utf-8)?")
	problemContentType := matchers.S("application/problem+json")

	pact.AddInteraction().
		Given(pacttest.StateCatalogSeeded).
		UponReceiving("a request for a catalog item").
		WithRequest("GET", "/v1/catalog/items/"+pacttest.ExistingItemID).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"id":                   matchers.Like(pacttest.ExistingItemID),
				"name":                 matchers.Like("Crocin Advance"),
				"price":                matchers.Term("1.5", `^\d+(\.\d+)?$`),
				"requiresPrescription": matchers.Like(false),
				"category":             matchers.Term("OTC", "OTC|PRESCRIPTION_ONLY|SUPPLEMENTS|BABY_CARE|DIABETES_CARE"),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateCatalogSeeded).
		UponReceiving("a request for a missing catalog item").
		WithRequest("GET", "/v1/catalog/items/"+pacttest.MissingItemID).
		WillRespondWith(http.StatusNotFound, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", problemContentType)
			b.JSONBody(matchers.Map{
				"type":   matchers.S("/problems/not-found"),
				"title":  matchers.S("Resource Not Found"),
				"status": matchers.Like(http.StatusNotFound),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StatePendingOrderExists).
		UponReceiving("a request to pack an unverified order").
		WithRequest("POST", "/v1/orders/"+pacttest.PendingOrderID+"/transitions", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.Header("X-Session-Token", matchers.S(pacttest.PharmacistToken))
			b.JSONBody(matchers.Map{"status": matchers.S("PACKED")})
		}).
		WillRespondWith(http.StatusConflict, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", problemContentType)
			b.JSONBody(matchers.Map{
				"type":   matchers.S("/problems/illegal-transition"),
				"status": matchers.Like(http.StatusConflict),
				"extensions": matchers.Map{
					"from": matchers.S("PENDING_VERIFICATION"),
					"to":   matchers.S("PACKED"),
				},
			})
		})

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		client := newPortalClient(config)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		item, err := client.GetItem(ctx, pacttest.ExistingItemID)
		if err != nil {
			return fmt.Errorf("get item: %w", err)
		}
		if item.ID != pacttest.ExistingItemID {
			return fmt.Errorf("expected item %s, got %+v", pacttest.ExistingItemID, item)
		}

		if _, err := client.GetItem(ctx, pacttest.MissingItemID); err == nil {
			return fmt.Errorf("expected 404 for item %s", pacttest.MissingItemID)
		} else if apiErr, ok := err.(apiError); !ok || apiErr.status != http.StatusNotFound {
			return fmt.Errorf("expected 404, got %v", err)
		}

		err = client.Transition(ctx, pacttest.PharmacistToken, pacttest.PendingOrderID, "PACKED")
		apiErr, ok := err.(apiError)
		if !ok || apiErr.status != http.StatusConflict {
			return fmt.Errorf("expected 409 for illegal transition, got %v", err)
		}
		if apiErr.problem.Extensions["from"] != "PENDING_VERIFICATION" {
			return fmt.Errorf("expected from=PENDING_VERIFICATION, got %v", apiErr.problem.Extensions)
		}
		return nil
	})
	require.NoError(t, err)
}

type portalClient struct {
	baseURL    string
	httpClient *http.Client
}

func newPortalClient(config pactconsumer.MockServerConfig) *portalClient {
	host := config.Host
	if host == "" {
		host = "localhost"
	}
	transport := &http.Transport{TLSClientConfig: config.TLSConfig}
	return &portalClient{
		baseURL:    fmt.Sprintf("http://%s:%d", host, config.Port),
		httpClient: &http.Client{Transport: transport, Timeout: 10 * time.Second},
	}
}

func (c *portalClient) GetItem(ctx context.Context, id string) (*itemPayload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/catalog/items/"+id, nil)
	if err != nil {
		return nil, err
	}
	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode >= http.StatusBadRequest {
		return nil, decodeAPIError(res)
	}
	var payload itemPayload
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (c *portalClient) Transition(ctx context.Context, token, orderID, status string) error {
	body, err := json.Marshal(map[string]string{"status": status})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/orders/"+orderID+"/transitions", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Session-Token", token)
	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode >= http.StatusBadRequest {
		return decodeAPIError(res)
	}
	return nil
}

func decodeAPIError(res *http.Response) error {
	var problem problemDetail
	_ = json.NewDecoder(res.Body).Decode(&problem)
	return apiError{problem: problem, status: res.StatusCode}
}
