package folio

import (
	"bufio"
	"bytes"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httputil"
	"os"
	"path/filepath"
	"time"
)

// diskCache is a RoundTripper that keeps successful responses on disk.
// Keys embed the current QuoteTTL bucket, so entries expire by rotation
// rather than by cleanup.
type diskCache struct {
	base http.RoundTripper
}

func (c *diskCache) cachePath(req *http.Request) string {
	bucket := time.Now().Unix() / int64(QuoteTTL.Seconds())
	key := fmt.Sprintf("%d %s %s", bucket, req.Method, req.URL.String())
	return filepath.Join(os.TempDir(), fmt.Sprintf("%x", sha1.Sum([]byte(key))))
}

func (c *diskCache) RoundTrip(req *http.Request) (*http.Response, error) {
	path := c.cachePath(req)

	if raw, err := os.ReadFile(path); err == nil {
		if resp, err := http.ReadResponse(bufio.NewReader(bytes.NewReader(raw)), req); err == nil {
			return resp, nil
		}
	}

	resp, err := c.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	log.Printf("%v %v/%v %v", resp.Request.Method, resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	if resp.StatusCode >= 300 {
		return resp, nil
	}

	raw, err := httputil.DumpResponse(resp, true)
	if err != nil {
		log.Printf("cache write err (ignored): %v", err)
		return resp, nil
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		log.Printf("cache write err (ignored): %v", err)
	}
	return resp, nil
}

// cachingClient returns a client whose responses expire with QuoteTTL.
func cachingClient() *http.Client {
	return &http.Client{Transport: &diskCache{http.DefaultTransport}}
}

// jwget GETs addr and unmarshals the JSON body into data.
func jwget(client *http.Client, addr string, data any) error {
	resp, err := client.Get(addr)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cannot http GET %v/%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, data)
}
