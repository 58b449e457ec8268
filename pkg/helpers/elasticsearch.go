package helpers

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// NewESClient builds the client behind bootcamp search, with optional basic auth.
func NewESClient(addrs []string, username, password string) (*elasticsearch.Client, error) {
	return elasticsearch.NewClient(elasticsearch.Config{
		Addresses: addrs,
		Username:  username,
		Password:  password,
		Transport: &http.Transport{
			MaxIdleConnsPerHost:   10,
			ResponseHeaderTimeout: 5 * time.Second,
			TLSClientConfig:       &tls.Config{MinVersion: tls.VersionTLS12},
			DialContext:           (&net.Dialer{Timeout: 5 * time.Second}).DialContext,
		},
	})
}

// PingES checks that the cluster answers and reports whether index exists.
// A missing index is not an error: the first upsert creates it.
func PingES(ctx context.Context, es *elasticsearch.Client, index string) (bool, error) {
	c, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	res, err := esapi.IndicesExistsRequest{Index: []string{index}}.Do(c, es)
	if err != nil {
		return false, err
	}
	defer func() { _ = res.Body.Close() }()
	switch res.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	}
	return false, fmt.Errorf("es ping %s: %s", index, res.Status())
}
