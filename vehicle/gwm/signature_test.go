package gwm

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignDeterministic(t *testing.T) {
	s := NewSigner()

	u, err := url.Parse(BaseURI + "/app-api/api/v1.0/vehicle/acquireVehicles")
	require.NoError(t, err)

	a := s.sign(http.MethodGet, u, "", nil, "0123456789abcdef", "1700000000000")
	b := s.sign(http.MethodGet, u, "", nil, "0123456789abcdef", "1700000000000")

	assert.Equal(t, a, b)
	assert.Len(t, a["gwm-auth-sign"], 64)
	assert.Equal(t, AppKey, a["gwm-auth-appkey"])
	assert.Equal(t, "1700000000000", a["gwm-auth-timestamp"])
	assert.Equal(t, "0123456789abcdef", a["gwm-auth-nonce"])
}

func TestSignInputSensitivity(t *testing.T) {
	s := NewSigner()

	u, _ := url.Parse(BaseURI + "/app-api/api/v1.0/userAuth/loginAccount")

	base := s.sign(http.MethodPost, u, `{"account":"a"}`, nil, "0123456789abcdef", "1700000000000")

	for name, modified := range map[string]map[string]string{
		"body":      s.sign(http.MethodPost, u, `{"account":"b"}`, nil, "0123456789abcdef", "1700000000000"),
		"nonce":     s.sign(http.MethodPost, u, `{"account":"a"}`, nil, "fedcba9876543210", "1700000000000"),
		"timestamp": s.sign(http.MethodPost, u, `{"account":"a"}`, nil, "0123456789abcdef", "1700000000001"),
		"method":    s.sign(http.MethodGet, u, `{"account":"a"}`, nil, "0123456789abcdef", "1700000000000"),
	} {
		assert.NotEqual(t, base["gwm-auth-sign"], modified["gwm-auth-sign"], name)
	}
}

func TestParamString(t *testing.T) {
	res := paramString(url.Values{
		"B": {"2"},
		"a": {"1"},
	})
	assert.Equal(t, "a=1&b=2", res)

	res = paramString(url.Values{
		"vin": {"XYZ"},
		"tag": {"1", "2"},
	})
	assert.Equal(t, "tag=1&tag=2&vin=XYZ", res)
}

func TestBodyString(t *testing.T) {
	u, _ := url.Parse(BaseURI + "/app-api/api/v1.0/vehicle/getLastStatus?vin=LGW123&B=2&a=1")

	assert.Equal(t, "a=1&b=2&vin=LGW123", bodyString(http.MethodGet, u, ""))

	plain, _ := url.Parse(BaseURI + "/app-api/api/v1.0/vehicle/acquireVehicles")
	assert.Equal(t, "", bodyString(http.MethodGet, plain, ""))

	assert.Equal(t, `json={"a":1,"b":2}`, bodyString(http.MethodPost, plain, "{\"a\": 1,\n\t\"b\": 2}"))
	assert.Equal(t, "", bodyString(http.MethodPost, plain, ""))
}

func TestPathString(t *testing.T) {
	for uri, expected := range map[string]string{
		BaseURI + "/app-api/api/v1.0/vehicle/acquireVehicles": "/app-api/api/v1.0/vehicle/acquireVehicles",
		BaseURI + "//app-api//api/":                           "/app-api/api",
		BaseURI:                                               "/",
	} {
		u, err := url.Parse(uri)
		require.NoError(t, err)
		assert.Equal(t, expected, pathString(u), uri)
	}
}

func TestNonce(t *testing.T) {
	for i := 0; i < 16; i++ {
		nonce := Nonce()
		assert.Len(t, nonce, 16)

		for _, c := range nonce {
			assert.Contains(t, "0123456789abcdef", string(c))
		}
	}
}
