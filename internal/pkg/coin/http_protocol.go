package coin

import (
	"context"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// HTTPProtocol 通过代币协议网关的 HTTP API 调用
type HTTPProtocol struct {
	client *resty.Client
}

type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func NewHTTPProtocol(endpoint, apiKey string) *HTTPProtocol {
	client := resty.New().
		SetBaseURL(strings.TrimRight(endpoint, "/")).
		SetHeader("X-API-Key", apiKey).
		SetHeader("Content-Type", "application/json").
		SetTimeout(60 * time.Second).
		SetJSONMarshaler(json.Marshal).
		SetJSONUnmarshaler(json.Unmarshal)

	return &HTTPProtocol{client: client}
}

func (s *HTTPProtocol) CreateCoin(ctx context.Context, req *CreateCoinRequest) (*CreatedCoin, error) {
	var res CreatedCoin
	if err := s.post(ctx, "/coins", req, &res); err != nil {
		return nil, errors.Wrap(err, "create coin")
	}
	if res.Address == "" {
		return nil, errors.New("create coin: protocol returned empty address")
	}
	return &res, nil
}

func (s *HTTPProtocol) Buy(ctx context.Context, req *TradeRequest) (*TxResult, error) {
	if !req.AmountWei.IsPositive() {
		return nil, ErrInvalidAmount
	}
	var res TxResult
	if err := s.post(ctx, "/coins/"+req.CoinAddress+"/buy", req, &res); err != nil {
		return nil, errors.Wrap(err, "buy coin")
	}
	return &res, nil
}

func (s *HTTPProtocol) Sell(ctx context.Context, req *TradeRequest) (*TxResult, error) {
	if !req.AmountWei.IsPositive() {
		return nil, ErrInvalidAmount
	}
	var res TxResult
	if err := s.post(ctx, "/coins/"+req.CoinAddress+"/sell", req, &res); err != nil {
		return nil, errors.Wrap(err, "sell coin")
	}
	return &res, nil
}

func (s *HTTPProtocol) post(ctx context.Context, path string, body, result any) error {
	var apiErr apiError
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(result).
		SetError(&apiErr).
		Post(path)
	if err != nil {
		return err
	}
	if resp.IsError() {
		msg := apiErr.Message
		if msg == "" {
			msg = apiErr.Error
		}
		if msg == "" {
			msg = resp.String()
		}
		return errors.Errorf("protocol returned %d: %s", resp.StatusCode(), msg)
	}
	return nil
}
