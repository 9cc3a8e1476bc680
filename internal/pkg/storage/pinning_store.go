package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// PinningStore 通过 IPFS Pinning 服务 HTTP API 存储对象
type PinningStore struct {
	client     *resty.Client
	gatewayURL string
}

type pinResponse struct {
	IpfsHash  string `json:"IpfsHash"`
	PinSize   int64  `json:"PinSize"`
	Timestamp string `json:"Timestamp"`
}

type pinJSONRequest struct {
	PinataContent  any               `json:"pinataContent"`
	PinataMetadata map[string]string `json:"pinataMetadata,omitempty"`
}

func NewPinningStore(baseURL, jwt, gatewayURL string) *PinningStore {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetAuthToken(jwt).
		SetTimeout(60 * time.Second).
		SetJSONMarshaler(json.Marshal).
		SetJSONUnmarshaler(json.Unmarshal)

	return &PinningStore{
		client:     client,
		gatewayURL: strings.TrimRight(gatewayURL, "/"),
	}
}

func (s *PinningStore) PutFile(ctx context.Context, name, contentType string, data []byte) (string, error) {
	var res pinResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetMultipartField("file", name, contentType, bytes.NewReader(data)).
		SetMultipartFormData(map[string]string{
			"pinataMetadata": fmt.Sprintf(`{"name":%q}`, name),
		}).
		SetResult(&res).
		Post("/pinning/pinFileToIPFS")
	return s.locator(resp, err, &res)
}

func (s *PinningStore) PutJSON(ctx context.Context, name string, v any) (string, error) {
	var res pinResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(pinJSONRequest{
			PinataContent:  v,
			PinataMetadata: map[string]string{"name": name},
		}).
		SetResult(&res).
		Post("/pinning/pinJSONToIPFS")
	return s.locator(resp, err, &res)
}

func (s *PinningStore) URL(locator string) string {
	_, cid := SplitLocator(locator)
	return s.gatewayURL + "/ipfs/" + cid
}

func (s *PinningStore) locator(resp *resty.Response, err error, res *pinResponse) (string, error) {
	if err != nil {
		return "", errors.Wrap(err, "pinning request")
	}
	if resp.IsError() {
		return "", errors.Errorf("pinning service returned %d: %s", resp.StatusCode(), resp.String())
	}
	if res.IpfsHash == "" {
		return "", errors.New("pinning service returned empty cid")
	}
	return IPFSLocator(res.IpfsHash), nil
}
