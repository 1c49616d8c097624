package hikvision

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

type fakePlatform struct {
	t            *testing.T
	tokenCalls   atomic.Int32
	deviceCalls  atomic.Int32
	failDevices  int32
	expireTokens int32
	lastBody     atomic.Value
}

func (f *fakePlatform) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(tokenPath, func(w http.ResponseWriter, r *http.Request) {
		n := f.tokenCalls.Add(1)
		var req tokenRequest
		require.NoError(f.t, json.NewDecoder(r.Body).Decode(&req))
		if req.SecretKey != "secret" && req.SecretKey != "rotated" {
			writeEnvelope(w, CodeInvalidAppKey, nil)
			return
		}
		writeEnvelope(w, CodeSuccess, tokenData{
			AccessToken: "tok-" + string(rune('0'+n)),
			ExpireTime:  time.Now().Add(time.Hour).Unix(),
		})
	})
	mux.HandleFunc(devicesPath, func(w http.ResponseWriter, r *http.Request) {
		n := f.deviceCalls.Add(1)
		if n <= f.expireTokens {
			writeEnvelope(w, CodeTokenExpired, nil)
			return
		}
		if n <= f.expireTokens+f.failDevices {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = io.WriteString(w, "<html>unavailable</html>")
			return
		}
		require.NotEmpty(f.t, r.Header.Get(tokenHeader))
		writeEnvelope(w, CodeSuccess, DevicePage{
			TotalCount: 2,
			PageIndex:  1,
			PageSize:   100,
			Devices: []Device{
				{ID: "d1", Name: "Front door", SerialNo: "SN1", OnlineStatus: 1},
				{ID: "d2", Name: "Back door", SerialNo: "SN2", OnlineStatus: 0},
			},
		})
	})
	mux.HandleFunc(doorControlPath, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		f.lastBody.Store(string(body))
		writeEnvelope(w, CodeSuccess, nil)
	})
	mux.HandleFunc(personAddPath, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, CodeSuccess, personIDData{PersonID: "p-77"})
	})
	return mux
}

func writeEnvelope(w http.ResponseWriter, code string, data any) {
	raw, _ := json.Marshal(data)
	_ = json.NewEncoder(w).Encode(envelope{ErrorCode: code, Message: "", Data: raw})
}

func newTestClient(t *testing.T, f *fakePlatform, secret string) *Client {
	t.Helper()
	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)

	factory := NewFactory(zap.NewNop().Sugar(), srv.URL, time.Second, fastRetry())
	return factory.Client(Credentials{AppKey: "app", SecretKey: secret})
}

func TestClientCachesToken(t *testing.T) {
	f := &fakePlatform{t: t}
	c := newTestClient(t, f, "secret")

	devices, err := c.AllDevices(context.Background())
	require.NoError(t, err)
	require.Len(t, devices, 2)
	require.True(t, devices[0].Online())
	require.False(t, devices[1].Online())

	_, err = c.ListDevices(context.Background(), 1, 10)
	require.NoError(t, err)

	require.Equal(t, int32(1), f.tokenCalls.Load())
	require.Equal(t, int32(2), f.deviceCalls.Load())
}

func TestTokensAreScopedToCredentials(t *testing.T) {
	f := &fakePlatform{t: t}
	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)
	factory := NewFactory(zap.NewNop().Sugar(), srv.URL, time.Second, fastRetry())
	ctx := context.Background()

	first := factory.Client(Credentials{AppKey: "app", SecretKey: "secret"})
	_, err := first.ListDevices(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, int32(1), f.tokenCalls.Load())

	same := factory.Client(Credentials{AppKey: "app", SecretKey: "secret"})
	_, err = same.ListDevices(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, int32(1), f.tokenCalls.Load())

	rotated := factory.Client(Credentials{AppKey: "app", SecretKey: "rotated"})
	_, err = rotated.ListDevices(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, int32(2), f.tokenCalls.Load())

	wrong := factory.Client(Credentials{AppKey: "app", SecretKey: "wrong"})
	_, err = wrong.ListDevices(ctx, 1, 10)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, CodeInvalidAppKey, apiErr.Code)

	require.NotEqual(t,
		tokenKey("https://a.example", Credentials{AppKey: "app", SecretKey: "secret"}),
		tokenKey("https://b.example", Credentials{AppKey: "app", SecretKey: "secret"}))
}

func TestFactoryStartsNoGoroutines(t *testing.T) {
	defer goleak.VerifyNone(t)

	factory := NewFactory(zap.NewNop().Sugar(), "http://127.0.0.1:1", time.Second, fastRetry())
	require.NotNil(t, factory.Client(Credentials{AppKey: "app", SecretKey: "secret"}))
}

func TestClientRetriesServerErrors(t *testing.T) {
	f := &fakePlatform{t: t, failDevices: 2}
	c := newTestClient(t, f, "secret")

	page, err := c.ListDevices(context.Background(), 1, 100)
	require.NoError(t, err)
	require.Len(t, page.Devices, 2)
	require.Equal(t, int32(3), f.deviceCalls.Load())
}

func TestClientRefreshesExpiredToken(t *testing.T) {
	f := &fakePlatform{t: t, expireTokens: 1}
	c := newTestClient(t, f, "secret")

	_, err := c.ListDevices(context.Background(), 1, 100)
	require.NoError(t, err)
	require.Equal(t, int32(2), f.tokenCalls.Load())
}

func TestClientInvalidCredentialsNotRetried(t *testing.T) {
	f := &fakePlatform{t: t}
	c := newTestClient(t, f, "wrong")

	_, err := c.ListDevices(context.Background(), 1, 100)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, CodeInvalidAppKey, apiErr.Code)
	require.Equal(t, int32(1), f.tokenCalls.Load())
	require.Equal(t, int32(0), f.deviceCalls.Load())
}

func TestClientDoorControlAndPerson(t *testing.T) {
	f := &fakePlatform{t: t}
	c := newTestClient(t, f, "secret")

	require.NoError(t, c.RemoteControlDoor(context.Background(), "door-9", DoorOpen))
	require.JSONEq(t, `{"doorList":[{"doorId":"door-9"}],"command":1}`, f.lastBody.Load().(string))

	id, err := c.AddPerson(context.Background(), Person{PersonCode: "M1", FirstName: "Asha", LastName: "Rao"})
	require.NoError(t, err)
	require.Equal(t, "p-77", id)
}
