package subcmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

var httpClient = &http.Client{Timeout: 10 * time.Second}

// apiError is the error body returned by the server for failed operations.
type apiError struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// doRequest performs a JSON request against the server and decodes a 2xx
// response into out (when out is non-nil). Failure bodies are turned into
// errors carrying the server's message.
func doRequest(method, path string, body, out any) error {
	var buf io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		buf = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, serverURL+path, buf)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", serverURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var fail apiError
		if err := json.NewDecoder(resp.Body).Decode(&fail); err == nil && fail.Error != "" {
			return fmt.Errorf("%s", fail.Error)
		}
		return fmt.Errorf("server returned %s", resp.Status)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// placement mirrors the server's placement response.
type placement struct {
	MachineID string `json:"machine_id"`
	Kind      string `json:"kind"`
	Level     int    `json:"level"`
	Slots     []int  `json:"slots"`
}
