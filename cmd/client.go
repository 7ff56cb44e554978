package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

// clientAddress is shared by the control commands that talk to a
// running daemon.
var clientAddress string

var httpClient = &http.Client{Timeout: 5 * time.Second}

func registerClientFlags(cmds ...*cobra.Command) {
	for _, c := range cmds {
		c.Flags().StringVarP(&clientAddress, "address", "a", "127.0.0.1:8227", "Daemon address")
	}
}

func apiGet(path string, out any) error {
	resp, err := httpClient.Get("http://" + clientAddress + path)
	if err != nil {
		return fmt.Errorf("daemon not reachable at %s: %w", clientAddress, err)
	}
	defer resp.Body.Close()
	return decodeResponse(resp, out)
}

func apiPost(path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	resp, err := httpClient.Post("http://"+clientAddress+path, "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("daemon not reachable at %s: %w", clientAddress, err)
	}
	defer resp.Body.Close()
	return decodeResponse(resp, out)
}

func decodeResponse(resp *http.Response, out any) error {
	if resp.StatusCode >= 400 {
		var apiErr struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Message != "" {
			return fmt.Errorf("%s (%s)", apiErr.Message, apiErr.Code)
		}
		return fmt.Errorf("daemon returned %s", resp.Status)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
