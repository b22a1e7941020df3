package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	if w.Code != http.StatusOK {
		t.Fatalf("http status want 200 got %d", w.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	return body
}

func newContext(requestID string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	if requestID != "" {
		c.Set(RequestIDKey, requestID)
	}
	return c, w
}

func TestSuccessOmitsPagination(t *testing.T) {
	c, w := newContext("req-1")
	Success(c, gin.H{"order_no": "DR1"})
	body := decode(t, w)
	if body["status_code"].(float64) != CodeOK || body["msg"] != "success" {
		t.Fatalf("unexpected envelope %v", body)
	}
	if _, ok := body["pagination"]; ok {
		t.Fatalf("single replies carry no pagination: %v", body)
	}
	if data := body["data"].(map[string]interface{}); data["request_id"] != nil {
		t.Fatalf("request id is only attached to errors: %v", data)
	}
}

func TestSuccessWithPage(t *testing.T) {
	c, w := newContext("")
	SuccessWithPage(c, []string{"a", "b"}, Pagination{Page: 2, PageSize: 2, Total: 5, TotalPage: 3})
	body := decode(t, w)
	page, ok := body["pagination"].(map[string]interface{})
	if !ok || page["total_page"].(float64) != 3 || page["page"].(float64) != 2 {
		t.Fatalf("unexpected pagination %v", body["pagination"])
	}
}

func TestErrorAttachesRequestID(t *testing.T) {
	cases := []struct {
		name  string
		data  interface{}
		check func(t *testing.T, data map[string]interface{})
	}{
		{name: "no details", data: nil, check: func(t *testing.T, data map[string]interface{}) {
			if data["request_id"] != "req-9" || len(data) != 1 {
				t.Fatalf("unexpected data %v", data)
			}
		}},
		{name: "field details", data: gin.H{"field": "phone"}, check: func(t *testing.T, data map[string]interface{}) {
			if data["request_id"] != "req-9" || data["field"] != "phone" {
				t.Fatalf("unexpected data %v", data)
			}
		}},
		{name: "own request id wins", data: map[string]interface{}{"request_id": "upstream"}, check: func(t *testing.T, data map[string]interface{}) {
			if data["request_id"] != "upstream" {
				t.Fatalf("unexpected data %v", data)
			}
		}},
		{name: "scalar details", data: 30, check: func(t *testing.T, data map[string]interface{}) {
			if data["request_id"] != "req-9" || data["data"].(float64) != 30 {
				t.Fatalf("unexpected data %v", data)
			}
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, w := newContext("req-9")
			ErrorWithData(c, CodeTooManyRequests, "slow down", tc.data)
			body := decode(t, w)
			if body["status_code"].(float64) != CodeTooManyRequests {
				t.Fatalf("status_code want 429 got %v", body["status_code"])
			}
			tc.check(t, body["data"].(map[string]interface{}))
		})
	}
}

func TestErrorWithoutRequestID(t *testing.T) {
	c, w := newContext("")
	NotFound(c, "order not found")
	body := decode(t, w)
	if body["status_code"].(float64) != CodeNotFound || body["data"] != nil {
		t.Fatalf("unexpected envelope %v", body)
	}
}

func TestIsServerSide(t *testing.T) {
	for _, code := range []int{CodeBadRequest, CodeConflict, CodeTooManyRequests} {
		if IsServerSide(code) {
			t.Fatalf("%d is the caller's to fix", code)
		}
	}
	for _, code := range []int{CodeInternal, CodeUnavailable} {
		if !IsServerSide(code) {
			t.Fatalf("%d should be logged", code)
		}
	}
}
