package gwm

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"math/rand"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Credentials of the public Haval/GWM mobile app
const (
	AppKey     = "4694605273"
	AppSecret  = "e4e478c00f570e76a8993653a7b81d57"
	AuthPrefix = "gwm"
)

var whitespace = regexp.MustCompile(`\s`)

// Signer produces the gateway's request authentication headers
type Signer struct {
	appKey    string
	appSecret string
	prefix    string
	now       func() time.Time
	nonce     func() string
}

// NewSigner creates a signer for the gateway app credentials
func NewSigner() *Signer {
	return &Signer{
		appKey:    AppKey,
		appSecret: AppSecret,
		prefix:    AuthPrefix,
		now:       time.Now,
		nonce:     Nonce,
	}
}

// Nonce creates the 16 character request nonce from the current nanosecond time
func Nonce() string {
	hash := md5.Sum([]byte(strconv.FormatInt(time.Now().UnixNano(), 10)))

	nonce := hex.EncodeToString(hash[:])
	if len(nonce) < 16 {
		nonce += strconv.FormatInt(rand.Int63(), 10)
	}

	return nonce[:16]
}

// Sign produces the auth headers for a request about to be sent. An explicit
// parameter map takes precedence over the url's query string for GET requests.
func (s *Signer) Sign(method, uri, body string, params url.Values) (map[string]string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, err
	}

	timestamp := strconv.FormatInt(s.now().UnixMilli(), 10)

	return s.sign(method, u, body, params, s.nonce(), timestamp), nil
}

func (s *Signer) sign(method string, u *url.URL, body string, params url.Values, nonce, timestamp string) map[string]string {
	auth := s.prefix + "-auth-appkey:" + s.appKey +
		s.prefix + "-auth-nonce:" + nonce +
		s.prefix + "-auth-timestamp:" + timestamp

	var bodyStr string
	if method == http.MethodGet && params != nil {
		bodyStr = paramString(params)
	} else {
		bodyStr = bodyString(method, u, body)
	}

	base := whitespace.ReplaceAllString(method+pathString(u)+auth+bodyStr+s.appSecret, "")
	sum := sha256.Sum256([]byte(url.QueryEscape(base)))

	return map[string]string{
		s.prefix + "-auth-appkey":    s.appKey,
		s.prefix + "-auth-timestamp": timestamp,
		s.prefix + "-auth-sign":      hex.EncodeToString(sum[:]),
		s.prefix + "-auth-nonce":     nonce,
	}
}

// pathString joins the non-empty path segments with a single leading slash
func pathString(u *url.URL) string {
	segments := strings.Split(u.Path, "/")

	res := make([]string, 0, len(segments))
	for _, seg := range segments {
		if seg != "" {
			res = append(res, seg)
		}
	}

	return "/" + strings.Join(res, "/")
}

// paramString canonicalizes parameters: sorted by original key ignoring case,
// emitted with the lower-cased key and the unmodified value. Repeated keys are
// all emitted in value order.
func paramString(params url.Values) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}

	sort.Slice(keys, func(i, j int) bool {
		ki, kj := strings.ToLower(keys[i]), strings.ToLower(keys[j])
		if ki == kj {
			return keys[i] < keys[j]
		}
		return ki < kj
	})

	var pairs []string
	for _, k := range keys {
		for _, v := range params[k] {
			pairs = append(pairs, strings.ToLower(k)+"="+v)
		}
	}

	return strings.Join(pairs, "&")
}

// bodyString builds the canonical body portion of the signature base
func bodyString(method string, u *url.URL, body string) string {
	switch {
	case method == http.MethodGet && u.RawQuery != "":
		return paramString(u.Query())
	case method == http.MethodPost && body != "":
		return whitespace.ReplaceAllString("json="+body, "")
	}

	return ""
}
