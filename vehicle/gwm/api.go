package gwm

import (
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/wad350/gwm-home-assistant/api"
	"github.com/wad350/gwm-home-assistant/util"
	"github.com/wad350/gwm-home-assistant/util/request"
	"github.com/wad350/gwm-home-assistant/util/transport"
)

// BaseURI is the russian gateway host
const BaseURI = "https://rus-h5-gateway.gwmcloud.com"

// client certificate pair expected inside the certificate directory
const (
	certFile = "gwm_general.pem"
	keyFile  = "gwm_general.key"
)

// API is the gwm cloud gateway client
type API struct {
	*request.Helper
	log      *util.Logger
	baseURI  string
	signer   *Signer
	identity *Identity
	token    string
	user     json.RawMessage
}

// NewAPI creates the gateway api client. Every outgoing request is signed
// and decorated with the device metadata headers.
func NewAPI(log *util.Logger, identity *Identity) *API {
	v := &API{
		Helper:   request.NewHelper(log),
		log:      log,
		baseURI:  BaseURI,
		signer:   NewSigner(),
		identity: identity,
	}

	v.Client.Transport = &transport.Decorator{
		Decorator: v.decorate,
		Base:      v.Client.Transport,
	}

	return v
}

// SetupCertificates attaches the client certificate pair from dir to the
// transport. Returns false if the pair is not present; requests are then
// sent without client certificate material.
func (v *API) SetupCertificates(dir string) bool {
	pair, err := tls.LoadX509KeyPair(filepath.Join(dir, certFile), filepath.Join(dir, keyFile))
	if err != nil {
		v.log.WARN.Printf("client certificates not found: %v", err)
		return false
	}

	base := transport.Default()
	base.TLSClientConfig = &tls.Config{
		Certificates: []tls.Certificate{pair},
	}

	v.Client.Transport = &transport.Decorator{
		Decorator: v.decorate,
		Base:      request.NewTripper(v.log, base),
	}

	return true
}

// decorate signs the outgoing request and adds the device metadata headers
func (v *API) decorate(req *http.Request) error {
	var body string
	if req.GetBody != nil {
		rc, err := req.GetBody()
		if err != nil {
			return err
		}

		b, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return err
		}

		body = string(b)
	}

	headers, err := v.signer.Sign(req.Method, req.URL.String(), body, nil)
	if err != nil {
		return err
	}

	for k, val := range headers {
		req.Header.Set(k, val)
	}

	id := v.identity.ID()
	for k, val := range map[string]string{
		"ip":             "0.0.0.0",
		"rs":             "2",
		"appId":          "1",
		"brand":          "1",
		"terminal":       "GW_APP_Haval",
		"enterpriseId":   "gwm",
		"systemType":     "1",
		"cVer":           "2.0.1",
		"timeZone":       "Europe/Moscow",
		"channel":        "APP",
		"language":       "ru_RU",
		"regionCode":     "RU",
		"country":        "RU",
		"communityBrand": "",
		"deviceId":       id,
		"iccid":          id,
		"Content-Type":   request.JSONContent,
	} {
		req.Header.Set(k, val)
	}

	if v.token != "" {
		req.Header.Set("accessToken", v.token)
	}

	return nil
}

// loginRequest is the fixed-shape credential payload
type loginRequest struct {
	Account     string  `json:"account"`
	Password    string  `json:"password"`
	Agreement   []int   `json:"agreement"`
	SmsCode     *string `json:"smsCode"`
	MsgType     *string `json:"msgType"`
	Model       string  `json:"model"`
	Type        int     `json:"type"`
	DeviceID    string  `json:"deviceId"`
	AppType     int     `json:"appType"`
	PushToken   string  `json:"pushToken"`
	Country     string  `json:"country"`
	CountryCode *string `json:"countryCode"`
	IsEncrypt   bool    `json:"isEncrypt"`
}

// Login authenticates the account and stores the access token
func (v *API) Login(email, password string) error {
	v.log.INFO.Printf("login %s", maskEmail(email))

	data := loginRequest{
		Account:   email,
		Password:  password,
		Agreement: []int{1, 2, 3},
		Model:     "Android",
		Type:      1,
		DeviceID:  v.identity.ID(),
		Country:   "RU",
	}

	uri := fmt.Sprintf("%s/app-api/api/v1.0/userAuth/loginAccount", v.baseURI)

	req, err := request.New(http.MethodPost, uri, request.MarshalJSON(data), request.JSONEncoding)

	var res LoginResponse
	if err == nil {
		err = v.DoJSON(req, &res)
	}

	if err != nil {
		return fmt.Errorf("login: %w", err)
	}

	if err := res.Err(); err != nil {
		return fmt.Errorf("%w: %s (%s)", api.ErrAuthFail, res.Description, res.Code)
	}

	var payload struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.Unmarshal(res.Data, &payload); err != nil {
		return fmt.Errorf("login: %w", err)
	}

	v.token = payload.AccessToken
	v.user = res.Data

	v.log.INFO.Printf("login %s succeeded", maskEmail(email))

	return nil
}

// LoggedIn reports whether an access token is cached
func (v *API) LoggedIn() bool {
	return v.token != ""
}

// User returns the raw user payload received on login
func (v *API) User() json.RawMessage {
	return v.user
}

// Vehicles returns the vehicles bound to the account
func (v *API) Vehicles() ([]Vehicle, error) {
	if v.token == "" {
		return nil, api.ErrLoginRequired
	}

	var res VehiclesResponse

	uri := fmt.Sprintf("%s/app-api/api/v1.0/vehicle/acquireVehicles", v.baseURI)
	err := v.GetJSON(uri, &res)
	if err == nil {
		err = res.Err()
	}

	return res.Data, err
}

// Status returns the last-known status of the given vin
func (v *API) Status(vin string) (VehicleStatus, error) {
	if v.token == "" {
		return VehicleStatus{}, api.ErrLoginRequired
	}

	var res StatusResponse

	uri := fmt.Sprintf("%s/app-api/api/v1.0/vehicle/getLastStatus?vin=%s", v.baseURI, url.QueryEscape(vin))
	err := v.GetJSON(uri, &res)
	if err == nil {
		err = res.Err()
	}

	return res.Data, err
}

// maskEmail masks the mailbox part for logging (jo***@example.com)
func maskEmail(email string) string {
	local, domain, found := strings.Cut(email, "@")
	if !found {
		if len(email) <= 2 {
			return "***"
		}
		return email[:2] + "***"
	}

	if len(local) <= 2 {
		if local == "" {
			return "***@" + domain
		}
		return local[:1] + "***@" + domain
	}

	return local[:2] + "***@" + domain
}
