package router

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dorada-store/internal/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func newLimitContext(body, remoteAddr string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/admin/login", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Request.RemoteAddr = remoteAddr
	return c
}

func TestAdminLoginKey(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{name: "username and ip", body: `{"username":" Owner ","password":"x"}`, want: "owner|10.0.0.7"},
		{name: "arabic username", body: `{"username":"مدير"}`, want: "مدير|10.0.0.7"},
		{name: "missing username", body: `{"password":"x"}`, want: "10.0.0.7"},
		{name: "non string username", body: `{"username":42}`, want: "10.0.0.7"},
		{name: "not json", body: `username=owner`, want: "10.0.0.7"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newLimitContext(tc.body, "10.0.0.7:4100")
			if got := adminLoginKey(c); got != tc.want {
				t.Fatalf("key want %q got %q", tc.want, got)
			}
			body, err := io.ReadAll(c.Request.Body)
			if err != nil || string(body) != tc.body {
				t.Fatalf("login body must reach the handler intact, got %q err=%v", body, err)
			}
		})
	}
}

func TestCheckoutAndAccessKeysIgnoreBody(t *testing.T) {
	c := newLimitContext(`{"customer":{"phone":"07701234567"}}`, "10.0.0.8:4100")
	c.Request.Header.Set("X-Device-ID", "device-0001-abcdef")
	if got := checkoutKey(c); got != "10.0.0.8" {
		t.Fatalf("checkout key want client ip got %q", got)
	}
	if got := adminAccessKey(c); got != "10.0.0.8" {
		t.Fatalf("access key want client ip got %q", got)
	}
}

func TestNewRateLimitRules(t *testing.T) {
	cfg := &config.Config{
		Redis: config.RedisConfig{Prefix: " shop "},
		Security: config.SecurityConfig{
			LoginRateLimit:    config.RateLimitConfig{WindowSeconds: 300, MaxRequests: 5, BlockSeconds: 900},
			CheckoutRateLimit: config.RateLimitConfig{WindowSeconds: 600, MaxRequests: 10},
		},
	}
	rules := newRateLimitRules(cfg)
	if rules.adminLogin.Prefix != "shop:rate:admin_login" || rules.adminLogin.BlockSeconds != 900 {
		t.Fatalf("unexpected login rule %+v", rules.adminLogin)
	}
	if rules.checkout.Prefix != "shop:rate:checkout" || rules.checkout.MaxRequests != 10 {
		t.Fatalf("unexpected checkout rule %+v", rules.checkout)
	}
	if rules.checkout.MessageKey != "error.checkout_rate_limited" {
		t.Fatalf("checkout should carry its own message, got %q", rules.checkout.MessageKey)
	}

	cfg.Redis.Prefix = ""
	if got := newRateLimitRules(cfg).checkout.bucket("1.2.3.4"); got != "dorada:rate:checkout:1.2.3.4" {
		t.Fatalf("default prefix bucket got %q", got)
	}
}

func newLimitedEngine(t *testing.T, rule RateLimitRule, keyFunc RateLimitKeyFunc) (*gin.Engine, *miniredis.Miniredis) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	r := gin.New()
	r.POST("/limited", RateLimitMiddleware(client, rule, keyFunc), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status_code": 0})
	})
	return r, mr
}

func postLimited(r *gin.Engine, remoteAddr, body string) (*httptest.ResponseRecorder, envelope) {
	req := httptest.NewRequest(http.MethodPost, "/limited?lang=en", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func TestCheckoutRateLimitRejectsAfterMax(t *testing.T) {
	rule := ruleFromConfig("dorada:rate:checkout", config.RateLimitConfig{WindowSeconds: 600, MaxRequests: 2}, "error.checkout_rate_limited")
	r, mr := newLimitedEngine(t, rule, checkoutKey)

	for i := 0; i < 2; i++ {
		if _, env := postLimited(r, "10.0.0.9:1000", `{}`); env.StatusCode != 0 {
			t.Fatalf("request %d should pass, got %d", i+1, env.StatusCode)
		}
	}
	w, env := postLimited(r, "10.0.0.9:1000", `{}`)
	if env.StatusCode != 429 {
		t.Fatalf("third checkout want 429 got %d", env.StatusCode)
	}
	if retry := w.Header().Get("Retry-After"); retry == "" || retry == "0" {
		t.Fatalf("Retry-After should be set, got %q", retry)
	}
	if !strings.Contains(env.Msg, "orders") {
		t.Fatalf("checkout limit should use its own message, got %q", env.Msg)
	}
	if got, _ := mr.Get("dorada:rate:checkout:10.0.0.9"); got != "3" {
		t.Fatalf("counter want 3 got %q", got)
	}

	if _, env := postLimited(r, "10.0.0.10:1000", `{}`); env.StatusCode != 0 {
		t.Fatalf("another client should not share the bucket, got %d", env.StatusCode)
	}

	mr.FastForward(601 * time.Second)
	if _, env := postLimited(r, "10.0.0.9:1000", `{}`); env.StatusCode != 0 {
		t.Fatalf("a new window should pass, got %d", env.StatusCode)
	}
}

func TestAdminLoginRateLimitBlocksPerUsername(t *testing.T) {
	rule := ruleFromConfig("dorada:rate:admin_login", config.RateLimitConfig{WindowSeconds: 300, MaxRequests: 1, BlockSeconds: 900}, "")
	r, mr := newLimitedEngine(t, rule, adminLoginKey)

	if _, env := postLimited(r, "10.0.0.11:1000", `{"username":"owner"}`); env.StatusCode != 0 {
		t.Fatalf("first login should pass, got %d", env.StatusCode)
	}
	w, env := postLimited(r, "10.0.0.11:1000", `{"username":"OWNER"}`)
	if env.StatusCode != 429 || w.Header().Get("Retry-After") != "900" {
		t.Fatalf("second login want 429 with Retry-After 900, got %d %q", env.StatusCode, w.Header().Get("Retry-After"))
	}
	if !mr.Exists("dorada:rate:admin_login:owner|10.0.0.11:block") {
		t.Fatalf("block marker should be keyed by username and ip, keys=%v", mr.Keys())
	}

	if _, env := postLimited(r, "10.0.0.11:1000", `{"username":"staff"}`); env.StatusCode != 0 {
		t.Fatalf("another username from the same ip has its own bucket, got %d", env.StatusCode)
	}

	mr.FastForward(901 * time.Second)
	if _, env := postLimited(r, "10.0.0.11:1000", `{"username":"owner"}`); env.StatusCode != 0 {
		t.Fatalf("block should lift after block seconds, got %d", env.StatusCode)
	}
}

func TestRateLimitFailsOpen(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rule := RateLimitRule{WindowSeconds: 60, MaxRequests: 1}

	r := gin.New()
	r.POST("/nil", RateLimitMiddleware(nil, rule, KeyByIP), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status_code": 0})
	})
	down := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 50 * time.Millisecond})
	t.Cleanup(func() { _ = down.Close() })
	r.POST("/down", RateLimitMiddleware(down, rule, KeyByIP), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status_code": 0})
	})

	for _, path := range []string{"/nil", "/down"} {
		for i := 0; i < 3; i++ {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, path, nil))
			if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"status_code":0`) {
				t.Fatalf("%s request %d should pass through, got %d %s", path, i+1, w.Code, w.Body.String())
			}
		}
	}
}

func TestToInt64(t *testing.T) {
	cases := []struct {
		input interface{}
		want  int64
		ok    bool
	}{
		{input: int64(10), want: 10, ok: true},
		{input: int(11), want: 11, ok: true},
		{input: uint64(12), want: 12, ok: true},
		{input: float64(13.9), want: 13, ok: true},
		{input: "bad", want: 0, ok: false},
	}
	for _, tc := range cases {
		got, ok := toInt64(tc.input)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("toInt64(%v) want %d,%v got %d,%v", tc.input, tc.want, tc.ok, got, ok)
		}
	}
}
