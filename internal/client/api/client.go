// FILE: internal/client/api/client.go
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"chessrules/internal/client/display"
	"chessrules/internal/core"
)

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Verbose    bool
	Out        io.Writer
}

type HealthResponse struct {
	Status  string `json:"status"`
	Time    int64  `json:"time"`
	Storage string `json:"storage"`
}

// APIError is a non-2xx reply carrying the server's error body
type APIError struct {
	Status int
	Body   core.ErrorResponse
}

func (e *APIError) Error() string {
	if e.Body.Code == "" {
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
	msg := fmt.Sprintf("%s (%s)", e.Body.Error, e.Body.Code)
	if e.Body.Details != "" {
		msg += ": " + e.Body.Details
	}
	return msg
}

// ErrorCode returns the API error code of err, "" for other errors
func ErrorCode(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Body.Code
	}
	return ""
}

func New(baseURL string, out io.Writer) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			// Above the server's long-poll timeout
			Timeout: 30 * time.Second,
		},
		Out: out,
	}
}

func (c *Client) SetVerbose(v bool) {
	c.Verbose = v
}

// SetBaseURL updates the API base URL for the client
func (c *Client) SetBaseURL(u string) {
	c.BaseURL = strings.TrimRight(u, "/")
}

func (c *Client) doRequest(method, path string, body any, result any) error {
	var bodyReader io.Reader
	var bodyJSON []byte
	if body != nil {
		var err error
		if bodyJSON, err = json.Marshal(body); err != nil {
			return err
		}
		bodyReader = bytes.NewReader(bodyJSON)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, bodyReader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	fmt.Fprintf(c.Out, "%s[API] %s %s%s\n", display.Blue, method, path, display.Reset)
	if c.Verbose && len(bodyJSON) > 0 {
		fmt.Fprintf(c.Out, "%sRequest Body:%s\n", display.Cyan, display.Reset)
		display.PrettyPrintRaw(c.Out, bodyJSON)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	statusColor := display.Green
	if resp.StatusCode >= 400 {
		statusColor = display.Red
	}
	fmt.Fprintf(c.Out, "%s[%d %s]%s\n", statusColor, resp.StatusCode, http.StatusText(resp.StatusCode), display.Reset)

	if c.Verbose && len(respBody) > 0 {
		fmt.Fprintf(c.Out, "%sResponse Body:%s\n", display.Cyan, display.Reset)
		display.PrettyPrintRaw(c.Out, respBody)
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode}
		json.Unmarshal(respBody, &apiErr.Body)
		return apiErr
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("response parse error: %w", err)
		}
	}
	return nil
}

func (c *Client) Health() (*HealthResponse, error) {
	var resp HealthResponse
	err := c.doRequest(http.MethodGet, "/health", nil, &resp)
	return &resp, err
}

func (c *Client) CreateGame(req *core.CreateGameRequest) (*core.GameResponse, error) {
	var resp core.GameResponse
	err := c.doRequest(http.MethodPost, "/api/v1/games", req, &resp)
	return &resp, err
}

func (c *Client) GetGame(gameID string) (*core.GameResponse, error) {
	var resp core.GameResponse
	err := c.doRequest(http.MethodGet, "/api/v1/games/"+gameID, nil, &resp)
	return &resp, err
}

// GetGameWithPoll blocks server-side until the move count differs from moveCount
func (c *Client) GetGameWithPoll(gameID string, moveCount int) (*core.GameResponse, error) {
	var resp core.GameResponse
	path := fmt.Sprintf("/api/v1/games/%s?wait=true&moveCount=%d", gameID, moveCount)
	err := c.doRequest(http.MethodGet, path, nil, &resp)
	return &resp, err
}

func (c *Client) DeleteGame(gameID string) error {
	return c.doRequest(http.MethodDelete, "/api/v1/games/"+gameID, nil, nil)
}

func (c *Client) MakeMove(gameID, move string) (*core.GameResponse, error) {
	var resp core.GameResponse
	err := c.doRequest(http.MethodPost, "/api/v1/games/"+gameID+"/moves", &core.MoveRequest{Move: move}, &resp)
	return &resp, err
}

func (c *Client) UndoMoves(gameID string, count int) (*core.GameResponse, error) {
	var resp core.GameResponse
	err := c.doRequest(http.MethodPost, "/api/v1/games/"+gameID+"/undo", &core.UndoRequest{Count: count}, &resp)
	return &resp, err
}

func (c *Client) GetBoard(gameID string) (*core.BoardResponse, error) {
	var resp core.BoardResponse
	err := c.doRequest(http.MethodGet, "/api/v1/games/"+gameID+"/board", nil, &resp)
	return &resp, err
}

func (c *Client) LegalMoves(gameID, square string) (*core.LegalMovesResponse, error) {
	var resp core.LegalMovesResponse
	path := "/api/v1/games/" + gameID + "/legal?square=" + url.QueryEscape(square)
	err := c.doRequest(http.MethodGet, path, nil, &resp)
	return &resp, err
}

func (c *Client) RestoreGame(gameID string) (*core.GameResponse, error) {
	var resp core.GameResponse
	err := c.doRequest(http.MethodPost, "/api/v1/games/"+gameID+"/restore", nil, &resp)
	return &resp, err
}

// RawRequest sends an arbitrary request; a body that is not JSON is sent as a JSON string
func (c *Client) RawRequest(method, path, body string) error {
	var bodyData any
	if body != "" {
		if err := json.Unmarshal([]byte(body), &bodyData); err != nil {
			bodyData = body
		}
	}
	return c.doRequest(method, path, bodyData, nil)
}
