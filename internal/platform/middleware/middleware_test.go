package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func TestRequestID_Generated(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := RequestID()(func(c echo.Context) error {
		if rid, _ := c.Get("request_id").(string); rid == "" {
			t.Error("expected request_id on context")
		}
		return nil
	})(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Header().Get(echo.HeaderXRequestID) == "" {
		t.Error("expected X-Request-ID response header")
	}
}

func TestRequestID_Honored(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderXRequestID, "client-rid")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	_ = RequestID()(func(c echo.Context) error { return nil })(c)
	if rec.Header().Get(echo.HeaderXRequestID) != "client-rid" {
		t.Errorf("expected client-supplied id to be echoed, got %q", rec.Header().Get(echo.HeaderXRequestID))
	}
}

func TestRecovery_Panic(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	err := Recovery(zerolog.Nop())(func(c echo.Context) error {
		panic("boom")
	})(c)

	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusInternalServerError {
		t.Errorf("expected 500 after panic, got %v", err)
	}
}

func TestLogger_PassesThroughError(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	want := echo.NewHTTPError(http.StatusNotFound, "nope")
	err := Logger(zerolog.Nop())(func(c echo.Context) error { return want })(c)
	if err != want {
		t.Errorf("logger should return handler error unchanged, got %v", err)
	}
}

func TestRateLimit_Burst(t *testing.T) {
	e := echo.New()
	mw := RateLimit(RateLimitConfig{RequestsPerSecond: 1, BurstSize: 2})
	ok := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	allowed := 0
	var lastErr error
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.1.2.3:1234"
		c := e.NewContext(req, httptest.NewRecorder())
		if err := mw(ok)(c); err == nil {
			allowed++
		} else {
			lastErr = err
		}
	}
	if allowed != 2 {
		t.Errorf("expected 2 allowed within burst, got %d", allowed)
	}
	he, isHTTP := lastErr.(*echo.HTTPError)
	if !isHTTP || he.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429 after burst, got %v", lastErr)
	}
}

func TestRateLimit_SeparateKeys(t *testing.T) {
	e := echo.New()
	mw := RateLimit(RateLimitConfig{RequestsPerSecond: 1, BurstSize: 1})
	ok := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	for _, ip := range []string{"10.0.0.1:1", "10.0.0.2:1"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip
		c := e.NewContext(req, httptest.NewRecorder())
		if err := mw(ok)(c); err != nil {
			t.Errorf("first request from %s should pass: %v", ip, err)
		}
	}
}

func TestRequestTimeout_Expires(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	err := RequestTimeout(10 * time.Millisecond)(func(c echo.Context) error {
		select {
		case <-c.Request().Context().Done():
			return c.Request().Context().Err()
		case <-time.After(time.Second):
			return nil
		}
	})(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusGatewayTimeout {
		t.Errorf("expected 504, got %d", rec.Code)
	}
}

func TestRequestTimeout_FastHandler(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	err := RequestTimeout(time.Second)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})(c)
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestBodyLimit_ContentLength(t *testing.T) {
	e := echo.New()
	body := strings.Repeat("x", 100)
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c := e.NewContext(req, httptest.NewRecorder())

	err := BodyLimit(10, 1000)(func(c echo.Context) error { return nil })(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413, got %v", err)
	}
}

func TestBodyLimit_MultipartGetsUploadLimit(t *testing.T) {
	e := echo.New()
	body := strings.Repeat("x", 100)
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEMultipartForm+"; boundary=xyz")
	c := e.NewContext(req, httptest.NewRecorder())

	err := BodyLimit(10, 1000)(func(c echo.Context) error { return nil })(c)
	if err != nil {
		t.Errorf("multipart body within upload limit should pass: %v", err)
	}
}
