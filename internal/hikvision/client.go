package hikvision

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const (
	tokenPath         = "/api/hccgw/platform/v1/token/get"
	devicesPath       = "/api/hccgw/resource/v1/devices/get"
	doorControlPath   = "/api/hccgw/acs/v1/remote/control"
	personAddPath     = "/api/hccgw/person/v1/persons/add"
	personUpdatePath  = "/api/hccgw/person/v1/persons/update"
	personDeletePath  = "/api/hccgw/person/v1/persons/delete"
	tokenHeader       = "Token"
	tokenExpiryMargin = time.Minute
	maxResponseBytes  = 4 << 20
)

// Credentials identify a branch's OpenAPI application.
type Credentials struct {
	BaseURL   string
	AppKey    string
	SecretKey string
}

// Factory builds per-branch clients that share an HTTP client and token cache.
type Factory struct {
	httpClient *http.Client
	baseURL    string
	retry      RetryOptions
	tokens     *gocache.Cache
	log        *zap.SugaredLogger
}

// NewFactory constructs a Factory. baseURL is used when credentials carry none.
// The token cache runs no janitor; expired tokens are dropped on read.
func NewFactory(log *zap.SugaredLogger, baseURL string, timeout time.Duration, retry RetryOptions) *Factory {
	return &Factory{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		retry:      retry,
		tokens:     gocache.New(gocache.NoExpiration, 0),
		log:        log.Named("hikvision"),
	}
}

// Client returns a client for the given credentials.
func (f *Factory) Client(creds Credentials) *Client {
	base := strings.TrimRight(creds.BaseURL, "/")
	if base == "" {
		base = f.baseURL
	}
	return &Client{
		http:      f.httpClient,
		baseURL:   base,
		appKey:    creds.AppKey,
		secretKey: creds.SecretKey,
		tokenKey:  tokenKey(base, creds),
		retry:     f.retry,
		tokens:    f.tokens,
		log:       f.log.With("app_key", creds.AppKey),
	}
}

// tokenKey scopes a cached token to the credentials and platform that obtained it.
func tokenKey(base string, creds Credentials) string {
	sum := sha256.Sum256([]byte(creds.SecretKey))
	return base + "|" + creds.AppKey + "|" + hex.EncodeToString(sum[:8])
}

// Client calls the OpenAPI on behalf of one application.
type Client struct {
	http      *http.Client
	baseURL   string
	appKey    string
	secretKey string
	tokenKey  string
	retry     RetryOptions
	tokens    *gocache.Cache
	log       *zap.SugaredLogger
}

type envelope struct {
	ErrorCode string          `json:"errorCode"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
}

type tokenRequest struct {
	AppKey    string `json:"appKey"`
	SecretKey string `json:"secretKey"`
}

type tokenData struct {
	AccessToken string `json:"accessToken"`
	ExpireTime  int64  `json:"expireTime"`
	AreaDomain  string `json:"areaDomain"`
}

// Token returns a cached access token or requests a new one under the retry policy.
func (c *Client) Token(ctx context.Context) (string, error) {
	return Retry(ctx, c.retry, c.log, "token", c.token)
}

func (c *Client) token(ctx context.Context) (string, error) {
	if tok, ok := c.tokens.Get(c.tokenKey); ok {
		return tok.(string), nil
	}

	var data tokenData
	if err := c.post(ctx, tokenPath, "", tokenRequest{AppKey: c.appKey, SecretKey: c.secretKey}, &data); err != nil {
		return "", err
	}
	if data.AccessToken == "" {
		return "", NewAPIError(CodeTokenInvalid, "empty access token", http.StatusOK)
	}

	ttl := time.Until(time.Unix(data.ExpireTime, 0)) - tokenExpiryMargin
	if data.ExpireTime == 0 || ttl <= 0 {
		ttl = 5 * time.Minute
	}
	c.tokens.Set(c.tokenKey, data.AccessToken, ttl)
	c.log.Debugw("access token refreshed", "ttl", ttl)
	return data.AccessToken, nil
}

// call performs an authenticated request under the retry policy. A token
// rejected by the platform is evicted so the next attempt fetches a new one.
func (c *Client) call(ctx context.Context, op, path string, req, out any) error {
	return Do(ctx, c.retry, c.log, op, func(ctx context.Context) error {
		tok, err := c.token(ctx)
		if err != nil {
			return err
		}
		err = c.post(ctx, path, tok, req, out)
		if IsTokenError(err) {
			c.tokens.Delete(c.tokenKey)
		}
		return err
	})
}

func (c *Client) post(ctx context.Context, path, token string, req, out any) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if token != "" {
		httpReq.Header.Set(tokenHeader, token)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode != http.StatusOK {
			return NewAPIError("", http.StatusText(resp.StatusCode), resp.StatusCode)
		}
		return fmt.Errorf("decode response: %w", err)
	}
	if env.ErrorCode != "" && env.ErrorCode != CodeSuccess {
		return NewAPIError(env.ErrorCode, env.Message, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return NewAPIError("", env.Message, resp.StatusCode)
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}

// Device is a device as reported by the platform.
type Device struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Category     string `json:"category"`
	SerialNo     string `json:"serialNo"`
	IP           string `json:"ip"`
	OnlineStatus int    `json:"onlineStatus"`
}

// Online reports the device connectivity flag.
func (d Device) Online() bool { return d.OnlineStatus == 1 }

// DevicePage is one page of ListDevices.
type DevicePage struct {
	TotalCount int      `json:"totalCount"`
	PageIndex  int      `json:"pageIndex"`
	PageSize   int      `json:"pageSize"`
	Devices    []Device `json:"device"`
}

type listDevicesRequest struct {
	PageIndex int `json:"pageIndex"`
	PageSize  int `json:"pageSize"`
}

// ListDevices returns a page of devices (pageIndex starts at 1).
func (c *Client) ListDevices(ctx context.Context, pageIndex, pageSize int) (DevicePage, error) {
	var page DevicePage
	err := c.call(ctx, "list_devices", devicesPath, listDevicesRequest{PageIndex: pageIndex, PageSize: pageSize}, &page)
	return page, err
}

// AllDevices pages through ListDevices.
func (c *Client) AllDevices(ctx context.Context) ([]Device, error) {
	const pageSize = 100
	all := make([]Device, 0)
	for page := 1; ; page++ {
		p, err := c.ListDevices(ctx, page, pageSize)
		if err != nil {
			return nil, err
		}
		all = append(all, p.Devices...)
		if len(p.Devices) < pageSize || len(all) >= p.TotalCount {
			return all, nil
		}
	}
}

// DoorCommand is a remote door control command.
type DoorCommand int

const (
	DoorClose        DoorCommand = 0
	DoorOpen         DoorCommand = 1
	DoorAlwaysOpen   DoorCommand = 2
	DoorAlwaysClosed DoorCommand = 3
)

type doorControlRequest struct {
	DoorList []doorRef   `json:"doorList"`
	Command  DoorCommand `json:"command"`
}

type doorRef struct {
	DoorID string `json:"doorId"`
}

// RemoteControlDoor sends a command to one door.
func (c *Client) RemoteControlDoor(ctx context.Context, doorID string, cmd DoorCommand) error {
	return c.call(ctx, "door_control", doorControlPath, doorControlRequest{
		DoorList: []doorRef{{DoorID: doorID}},
		Command:  cmd,
	}, nil)
}

// Person is an access-control person record.
type Person struct {
	PersonID   string `json:"personId,omitempty"`
	PersonCode string `json:"personCode"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Phone      string `json:"phone,omitempty"`
	Email      string `json:"email,omitempty"`
	CardNo     string `json:"cardNo,omitempty"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
}

// ValidityLayout is the timestamp format the platform expects for person validity.
const ValidityLayout = "2006-01-02T15:04:05-07:00"

type personIDData struct {
	PersonID string `json:"personId"`
}

// AddPerson creates a person and returns the platform id.
func (c *Client) AddPerson(ctx context.Context, p Person) (string, error) {
	var data personIDData
	if err := c.call(ctx, "add_person", personAddPath, p, &data); err != nil {
		return "", err
	}
	return data.PersonID, nil
}

// UpdatePerson updates validity and contact data of an existing person.
func (c *Client) UpdatePerson(ctx context.Context, p Person) error {
	return c.call(ctx, "update_person", personUpdatePath, p, nil)
}

// DeletePerson removes a person by platform id.
func (c *Client) DeletePerson(ctx context.Context, personID string) error {
	return c.call(ctx, "delete_person", personDeletePath, personIDData{PersonID: personID}, nil)
}
