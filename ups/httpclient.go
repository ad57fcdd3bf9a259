package ups

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/codeninja55/go-radx/dicom"
	"github.com/codeninja55/go-radx/dicom/element"
	"github.com/codeninja55/go-radx/dicom/tag"
	"github.com/codeninja55/go-radx/dicom/value"
	"github.com/codeninja55/go-radx/dicom/vr"
)

var (
	procedureStepStateTag = tag.New(0x0074, 0x1000)
	transactionUIDTag     = tag.New(0x0008, 0x1195)
	cancelReasonTag       = tag.New(0x0074, 0x1238)
)

func addStringElement(ds *dicom.DataSet, t tag.Tag, v string) error {
	var elemVR vr.VR
	switch t {
	case procedureStepStateTag:
		elemVR = vr.CodeString
	case transactionUIDTag:
		elemVR = vr.UniqueIdentifier
	default:
		elemVR = vr.LongText
	}
	val, err := value.NewStringValue(elemVR, []string{v})
	if err != nil {
		return err
	}
	elem, err := element.NewElement(t, elemVR, val)
	if err != nil {
		return err
	}
	return ds.Add(elem)
}

// ClientConfig configures an HTTP UPS-RS client, mirroring the
// config-struct-plus-NewXxx-constructor shape dimse/scu.Client uses for its
// association-layer configuration.
type ClientConfig struct {
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
}

func (c *ClientConfig) applyDefaults() {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{}
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	c.BaseURL = strings.TrimSuffix(c.BaseURL, "/")
}

// Client is a UPS-RS HTTP client, the counterpart to Server.
type Client struct {
	cfg ClientConfig
}

// NewClient creates a UPS-RS client against the given base URL (e.g.
// "https://pacs.example.org/workitems"'s parent, "https://pacs.example.org").
func NewClient(cfg ClientConfig) *Client {
	cfg.applyDefaults()
	return &Client{cfg: cfg}
}

// Search issues GET /workitems with the query's filters as query parameters
// and returns the decoded workitem datasets.
func (c *Client) Search(ctx context.Context, q Query) ([]*dicom.DataSet, error) {
	u := c.cfg.BaseURL + "/workitems"
	params := make([]string, 0, 4)
	if q.State != "" {
		params = append(params, "state="+string(q.State))
	}
	if q.Priority != "" {
		params = append(params, "priority="+string(q.Priority))
	}
	if q.Limit > 0 {
		params = append(params, "limit="+strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		params = append(params, "offset="+strconv.Itoa(q.Offset))
	}
	if len(params) > 0 {
		u += "?" + strings.Join(params, "&")
	}

	resp, err := c.do(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	if err := expectStatus(resp, http.StatusOK); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read search response: %w", err)
	}

	var rawObjects []json.RawMessage
	if err := json.Unmarshal(body, &rawObjects); err != nil {
		return nil, fmt.Errorf("parse search response: %w", err)
	}

	results := make([]*dicom.DataSet, 0, len(rawObjects))
	for _, raw := range rawObjects {
		ds, err := DecodeDataSet(raw)
		if err != nil {
			return nil, err
		}
		results = append(results, ds)
	}
	return results, nil
}

// Get issues GET /workitems/{uid} and returns its attributes.
func (c *Client) Get(ctx context.Context, workitemUID string) (*dicom.DataSet, error) {
	resp, err := c.do(ctx, http.MethodGet, c.cfg.BaseURL+"/workitems/"+workitemUID, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	if err := expectStatus(resp, http.StatusOK); err != nil {
		return nil, err
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read get response: %w", err)
	}
	return DecodeDataSet(body)
}

// Create issues POST /workitems (or /workitems/{uid} when workitemUID is
// non-empty) and returns the Location of the created workitem.
func (c *Client) Create(ctx context.Context, workitemUID string, attrs *dicom.DataSet) (string, error) {
	encoded, err := EncodeDataSet(attrs)
	if err != nil {
		return "", err
	}

	url := c.cfg.BaseURL + "/workitems"
	if workitemUID != "" {
		url += "/" + workitemUID
	}

	resp, err := c.do(ctx, http.MethodPost, url, bytes.NewReader(encoded))
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()
	if err := expectStatus(resp, http.StatusCreated); err != nil {
		return "", err
	}
	return resp.Header.Get("Location"), nil
}

// Update issues PUT /workitems/{uid} with the given attribute patch.
func (c *Client) Update(ctx context.Context, workitemUID string, patch *dicom.DataSet) error {
	encoded, err := EncodeDataSet(patch)
	if err != nil {
		return err
	}
	resp, err := c.do(ctx, http.MethodPut, c.cfg.BaseURL+"/workitems/"+workitemUID, bytes.NewReader(encoded))
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	return expectStatus(resp, http.StatusOK)
}

// ChangeState issues PUT /workitems/{uid}/state, transitioning the workitem
// to target under the given transaction UID.
func (c *Client) ChangeState(ctx context.Context, workitemUID string, target State, transactionUID string) error {
	ds := dicom.NewDataSet()
	if err := addStringElement(ds, procedureStepStateTag, string(target)); err != nil {
		return err
	}
	if err := addStringElement(ds, transactionUIDTag, transactionUID); err != nil {
		return err
	}
	encoded, err := EncodeDataSet(ds)
	if err != nil {
		return err
	}
	resp, err := c.do(ctx, http.MethodPut, c.cfg.BaseURL+"/workitems/"+workitemUID+"/state", bytes.NewReader(encoded))
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	return expectStatus(resp, http.StatusOK)
}

// RequestCancel issues PUT /workitems/{uid}/cancelrequest.
func (c *Client) RequestCancel(ctx context.Context, workitemUID, reason string) error {
	ds := dicom.NewDataSet()
	if reason != "" {
		if err := addStringElement(ds, cancelReasonTag, reason); err != nil {
			return err
		}
	}
	encoded, err := EncodeDataSet(ds)
	if err != nil {
		return err
	}
	resp, err := c.do(ctx, http.MethodPut, c.cfg.BaseURL+"/workitems/"+workitemUID+"/cancelrequest", bytes.NewReader(encoded))
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	return expectStatus(resp, http.StatusAccepted)
}

// Subscribe issues POST /workitems/{uid}/subscribers/{aeTitle}. Use
// globalWorkitemUID as workitemUID to create a global subscription.
func (c *Client) Subscribe(ctx context.Context, workitemUID, aeTitle string, deletionLock bool) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.BaseURL+"/workitems/"+workitemUID+"/subscribers/"+aeTitle, nil)
	if err != nil {
		return err
	}
	if deletionLock {
		req.Header.Set("Deletion-Lock", "true")
	}
	resp, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("ups-rs subscribe: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	return expectStatus(resp, http.StatusCreated)
}

// Unsubscribe issues DELETE /workitems/{uid}/subscribers/{aeTitle}.
func (c *Client) Unsubscribe(ctx context.Context, workitemUID, aeTitle string) error {
	resp, err := c.do(ctx, http.MethodDelete,
		c.cfg.BaseURL+"/workitems/"+workitemUID+"/subscribers/"+aeTitle, nil)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	return expectStatus(resp, http.StatusOK)
}

func (c *Client) do(ctx context.Context, method, url string, body io.Reader) (*http.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("build ups-rs request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/dicom+json")
	}
	req.Header.Set("Accept", "application/dicom+json")

	resp, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ups-rs request %s %s: %w", method, url, err)
	}
	return resp, nil
}

func expectStatus(resp *http.Response, want int) error {
	if resp.StatusCode == want {
		return nil
	}
	body, _ := io.ReadAll(resp.Body)
	return fmt.Errorf("ups-rs request failed: status %d: %s", resp.StatusCode, string(body))
}
