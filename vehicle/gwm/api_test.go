package gwm

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wad350/gwm-home-assistant/api"
	"github.com/wad350/gwm-home-assistant/util"
)

func testAPI(t *testing.T, handler http.Handler) *API {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	log := util.NewLogger("test")

	v := NewAPI(log, NewIdentity(log, filepath.Join(t.TempDir(), "device_id")))
	v.baseURI = srv.URL

	return v
}

func TestLogin(t *testing.T) {
	v := testAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/app-api/api/v1.0/userAuth/loginAccount", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		// signature headers are attached to every request
		assert.NotEmpty(t, r.Header.Get("gwm-auth-appkey"))
		assert.Len(t, r.Header.Get("gwm-auth-sign"), 64)
		assert.Len(t, r.Header.Get("gwm-auth-nonce"), 16)
		assert.NotEmpty(t, r.Header.Get("gwm-auth-timestamp"))
		assert.Equal(t, "GW_APP_Haval", r.Header.Get("terminal"))
		assert.NotEmpty(t, r.Header.Get("deviceId"))
		assert.Empty(t, r.Header.Get("accessToken"))

		var data loginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&data))
		assert.Equal(t, "user@example.org", data.Account)
		assert.Equal(t, []int{1, 2, 3}, data.Agreement)

		fmt.Fprint(w, `{"code": "000000", "description": "ok", "data": {"accessToken": "token123", "userId": "42"}}`)
	}))

	require.NoError(t, v.Login("user@example.org", "secret"))
	assert.True(t, v.LoggedIn())
	assert.NotEmpty(t, v.User())
}

func TestLoginRejected(t *testing.T) {
	v := testAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"code": "999999", "description": "account or password wrong"}`)
	}))

	err := v.Login("user@example.org", "wrong")
	require.Error(t, err)
	assert.True(t, errors.Is(err, api.ErrAuthFail))
	assert.False(t, v.LoggedIn())
}

func TestTokenAttached(t *testing.T) {
	v := testAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/app-api/api/v1.0/userAuth/loginAccount":
			fmt.Fprint(w, `{"code": "0", "data": {"accessToken": "token123"}}`)
		case "/app-api/api/v1.0/vehicle/acquireVehicles":
			assert.Equal(t, "token123", r.Header.Get("accessToken"))
			fmt.Fprint(w, `{"code": "0", "data": [{"vin": "LGW123", "vtype": "Jolion", "color": "blue", "vehicleNumber": "A123BC"}]}`)
		default:
			t.Errorf("unexpected request: %s", r.URL.Path)
		}
	}))

	require.NoError(t, v.Login("user@example.org", "secret"))

	vehicles, err := v.Vehicles()
	require.NoError(t, err)
	require.Len(t, vehicles, 1)
	assert.Equal(t, "LGW123", vehicles[0].VIN)
	assert.Equal(t, "Jolion (blue) - A123BC [LGW123]", vehicles[0].Label())
}

func TestLoginRequired(t *testing.T) {
	var hits int32

	v := testAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))

	_, err := v.Vehicles()
	assert.True(t, errors.Is(err, api.ErrLoginRequired))

	_, err = v.Status("LGW123")
	assert.True(t, errors.Is(err, api.ErrLoginRequired))

	// unauthenticated calls must not hit the gateway
	assert.Zero(t, atomic.LoadInt32(&hits))
}

func TestStatus(t *testing.T) {
	v := testAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/app-api/api/v1.0/userAuth/loginAccount":
			fmt.Fprint(w, `{"code": "0", "data": {"accessToken": "token123"}}`)
		case "/app-api/api/v1.0/vehicle/getLastStatus":
			assert.Equal(t, "LGW123", r.URL.Query().Get("vin"))
			fmt.Fprint(w, `{"code": "0", "data": {
				"latitude": 55.75, "longitude": 37.61, "updateTime": 1700000000000, "serviceStatus": 1,
				"items": [{"code": "2103010", "value": "68053", "unit": "km"}]
			}}`)
		default:
			t.Errorf("unexpected request: %s", r.URL.Path)
		}
	}))

	require.NoError(t, v.Login("user@example.org", "secret"))

	res, err := v.Status("LGW123")
	require.NoError(t, err)

	assert.Equal(t, 55.75, res.Latitude)
	assert.Equal(t, 37.61, res.Longitude)
	assert.Equal(t, int64(1700000000000), res.UpdateTime)
	require.Len(t, res.Items, 1)

	status := Decode(res.Items)
	require.NotNil(t, status.Mileage)
	assert.Equal(t, 68053.0, *status.Mileage)
}

func TestStatusError(t *testing.T) {
	v := testAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/app-api/api/v1.0/userAuth/loginAccount":
			fmt.Fprint(w, `{"code": "0", "data": {"accessToken": "token123"}}`)
		default:
			fmt.Fprint(w, `{"code": "500100", "description": "vehicle offline"}`)
		}
	}))

	require.NoError(t, v.Login("user@example.org", "secret"))

	_, err := v.Status("LGW123")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500100")
}

func TestMaskEmail(t *testing.T) {
	for email, expected := range map[string]string{
		"john.doe@example.org": "jo***@example.org",
		"a@example.org":        "a***@example.org",
		"@example.org":         "***@example.org",
		"nodomain":             "no***",
		"x":                    "***",
	} {
		assert.Equal(t, expected, maskEmail(email), email)
	}
}
