package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dorada-store/internal/config"
	"github.com/dorada-store/internal/constants"
	"github.com/dorada-store/internal/http/response"
	"github.com/dorada-store/internal/i18n"
	"github.com/dorada-store/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimitKeyFunc derives the bucket a request is counted in.
type RateLimitKeyFunc func(*gin.Context) string

// RateLimitRule allows MaxRequests per WindowSeconds. Exceeding it blocks
// the key for BlockSeconds, or for the rest of the window when zero.
type RateLimitRule struct {
	Prefix        string
	WindowSeconds int
	MaxRequests   int
	BlockSeconds  int
	MessageKey    string
}

func (r RateLimitRule) active() bool {
	return r.WindowSeconds > 0 && r.MaxRequests > 0
}

func (r RateLimitRule) bucket(key string) string {
	if r.Prefix == "" {
		return key
	}
	return r.Prefix + ":" + key
}

// rateLimitRules are the limits the storefront enforces: one shared by the
// admin access and login endpoints, one for placing orders.
type rateLimitRules struct {
	adminLogin RateLimitRule
	checkout   RateLimitRule
}

func newRateLimitRules(cfg *config.Config) rateLimitRules {
	prefix := strings.TrimSpace(cfg.Redis.Prefix)
	if prefix == "" {
		prefix = constants.RedisPrefixDefault
	}
	return rateLimitRules{
		adminLogin: ruleFromConfig(prefix+":rate:admin_login", cfg.Security.LoginRateLimit, "error.too_many_requests"),
		checkout:   ruleFromConfig(prefix+":rate:checkout", cfg.Security.CheckoutRateLimit, "error.checkout_rate_limited"),
	}
}

func ruleFromConfig(prefix string, limit config.RateLimitConfig, messageKey string) RateLimitRule {
	return RateLimitRule{
		Prefix:        prefix,
		WindowSeconds: limit.WindowSeconds,
		MaxRequests:   limit.MaxRequests,
		BlockSeconds:  limit.BlockSeconds,
		MessageKey:    messageKey,
	}
}

// adminAccessKey counts access key attempts per client.
func adminAccessKey(c *gin.Context) string {
	return KeyByIP(c)
}

// adminLoginKey counts password attempts per username and client, so one
// address guessing many accounts and many addresses guessing one both trip.
var adminLoginKey = KeyByIPAndJSONField("username")

// checkoutKey counts orders per client rather than per device; device ids
// are client supplied and cheap to rotate.
func checkoutKey(c *gin.Context) string {
	return KeyByIP(c)
}

// KEYS[1] counter, KEYS[2] block marker
// ARGV[1] window, ARGV[2] max, ARGV[3] block seconds
// returns {count, ttl}; count -1 means blocked
var rateLimitScript = redis.NewScript(`
local blocked = redis.call("TTL", KEYS[2])
if blocked > 0 then
	return {-1, blocked}
end
local current = redis.call("INCR", KEYS[1])
if current == 1 then
	redis.call("EXPIRE", KEYS[1], ARGV[1])
end
if current > tonumber(ARGV[2]) and tonumber(ARGV[3]) > 0 then
	redis.call("SET", KEYS[2], "1", "EX", ARGV[3])
	redis.call("DEL", KEYS[1])
	return {-1, tonumber(ARGV[3])}
end
local ttl = redis.call("TTL", KEYS[1])
return {current, ttl}
`)

// RateLimitMiddleware counts requests in redis; without a client it lets
// everything through, and a redis failure fails open.
func RateLimitMiddleware(client *redis.Client, rule RateLimitRule, keyFunc RateLimitKeyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if client == nil || !rule.active() {
			c.Next()
			return
		}

		key := ""
		if keyFunc != nil {
			key = strings.TrimSpace(keyFunc(c))
		}
		if key == "" {
			key = c.ClientIP()
		}
		bucket := rule.bucket(key)

		count, ttlSeconds, err := runRateLimit(c, client, rule, bucket)
		if err != nil {
			logger.Warnw("rate_limit_unavailable", "key", bucket, "error", err)
			c.Next()
			return
		}
		if count >= 0 && count <= int64(rule.MaxRequests) {
			c.Next()
			return
		}

		waitSeconds := int(ttlSeconds)
		if waitSeconds < 1 {
			waitSeconds = rule.WindowSeconds
		}
		msgKey := strings.TrimSpace(rule.MessageKey)
		if msgKey == "" {
			msgKey = "error.too_many_requests"
		}
		logger.Infow("rate_limit_rejected", "key", bucket, "retry_after", waitSeconds)
		c.Header("Retry-After", strconv.Itoa(waitSeconds))
		msg := i18n.T(i18n.ResolveLocale(c), msgKey)
		response.ErrorWithData(c, response.CodeTooManyRequests, msg, gin.H{"retry_after": waitSeconds})
		c.Abort()
	}
}

func runRateLimit(c *gin.Context, client *redis.Client, rule RateLimitRule, bucket string) (int64, int64, error) {
	result, err := rateLimitScript.Run(
		c.Request.Context(),
		client,
		[]string{bucket, bucket + ":block"},
		rule.WindowSeconds, rule.MaxRequests, rule.BlockSeconds,
	).Result()
	if err != nil {
		return 0, 0, err
	}
	values, ok := result.([]interface{})
	if !ok || len(values) < 2 {
		return 0, 0, fmt.Errorf("unexpected rate limit reply %T", result)
	}
	count, ok := toInt64(values[0])
	if !ok {
		return 0, 0, fmt.Errorf("unexpected rate limit count %T", values[0])
	}
	ttlSeconds, _ := toInt64(values[1])
	return count, ttlSeconds, nil
}

func KeyByIP(c *gin.Context) string {
	return c.ClientIP()
}

// KeyByIPAndJSONField counts per body field and client ip. The body is put
// back for the handler.
func KeyByIPAndJSONField(field string) RateLimitKeyFunc {
	return func(c *gin.Context) string {
		value := strings.ToLower(strings.TrimSpace(readJSONField(c, field)))
		if value == "" {
			return c.ClientIP()
		}
		return fmt.Sprintf("%s|%s", value, c.ClientIP())
	}
}

func readJSONField(c *gin.Context, field string) string {
	if c == nil || c.Request == nil || c.Request.Body == nil {
		return ""
	}
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return ""
	}
	c.Request.Body = io.NopCloser(bytes.NewBuffer(body))
	if len(body) == 0 {
		return ""
	}
	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	text, _ := payload[field].(string)
	return strings.TrimSpace(text)
}

func toInt64(value interface{}) (int64, bool) {
	switch v := value.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case uint64:
		return int64(v), true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}
