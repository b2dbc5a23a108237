package paymentgateway

//go:generate go run go.uber.org/mock/mockgen -source=./paymentgateway.go -destination=./mocks/paymentgateway_mock.go -package=mocks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"voyago/config"
	"voyago/infras/otel"
	"voyago/shared/constant"
)

const (
	defaultTimeoutSeconds = 10

	pathCharge = "/v1/charges"
	pathRefund = "/v1/refunds"
)

type ChargeRequest struct {
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	Method    string  `json:"method"`
	Reference string  `json:"reference"`
}

type ChargeResult struct {
	TransactionID string `json:"transaction_id"`
	ReceiptURL    string `json:"receipt_url"`
}

type RefundRequest struct {
	TransactionID string  `json:"transaction_id"`
	Amount        float64 `json:"amount"`
	Reason        string  `json:"reason"`
}

type RefundResult struct {
	RefundID string `json:"refund_id"`
	Status   string `json:"status"`
}

// Gateway is the payment provider adapter. Calls are network-bound and run
// with a bounded timeout; a failed call must not leave partial state behind,
// so callers only persist after a successful result.
type Gateway interface {
	Charge(ctx context.Context, req ChargeRequest) (ChargeResult, error)
	Refund(ctx context.Context, req RefundRequest) (RefundResult, error)
}

type gatewayImpl struct {
	config *config.Config
	client *http.Client
	otel   otel.Otel
}

func New(cfg *config.Config, ot otel.Otel) Gateway {
	timeout := cfg.Payment.TimeoutSeconds
	if timeout <= 0 {
		timeout = defaultTimeoutSeconds
	}

	return &gatewayImpl{
		config: cfg,
		client: &http.Client{Timeout: time.Duration(timeout) * time.Second},
		otel:   ot,
	}
}

func (g *gatewayImpl) Charge(ctx context.Context, req ChargeRequest) (res ChargeResult, err error) {
	ctx, scope := g.otel.NewScope(ctx, constant.OtelExternalScopeName, constant.OtelExternalScopeName+".paymentgateway.Charge")
	defer scope.End()
	defer scope.TraceIfError(err)

	if g.config.Payment.Sandbox {
		return ChargeResult{
			TransactionID: sandboxReference("txn"),
			ReceiptURL:    fmt.Sprintf("%s/receipts/%s", g.config.Payment.BaseURL, sandboxReference("rcpt")),
		}, nil
	}

	err = g.post(ctx, pathCharge, req, &res)
	if err != nil {
		log.Error().Err(err).Str("provider", g.config.Payment.Provider).Msg("payment charge failed")

		return ChargeResult{}, err
	}

	return res, nil
}

func (g *gatewayImpl) Refund(ctx context.Context, req RefundRequest) (res RefundResult, err error) {
	ctx, scope := g.otel.NewScope(ctx, constant.OtelExternalScopeName, constant.OtelExternalScopeName+".paymentgateway.Refund")
	defer scope.End()
	defer scope.TraceIfError(err)

	if g.config.Payment.Sandbox {
		return RefundResult{
			RefundID: sandboxReference("rfnd"),
			Status:   "succeeded",
		}, nil
	}

	err = g.post(ctx, pathRefund, req, &res)
	if err != nil {
		log.Error().Err(err).Str("provider", g.config.Payment.Provider).Msg("payment refund failed")

		return RefundResult{}, err
	}

	return res, nil
}

func (g *gatewayImpl) post(ctx context.Context, path string, payload, result any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal provider request: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, g.config.Payment.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build provider request: %w", err)
	}

	request.Header.Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)
	request.Header.Set(constant.RequestHeaderAPIKey, g.config.Payment.APIKey)

	response, err := g.client.Do(request)
	if err != nil {
		return fmt.Errorf("provider call failed: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("provider returned status %d", response.StatusCode)
	}

	if err := json.NewDecoder(response.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode provider response: %w", err)
	}

	return nil
}

func sandboxReference(prefix string) string {
	return fmt.Sprintf("%s_%d%04d", prefix, time.Now().UnixNano(), rand.Intn(10000))
}
