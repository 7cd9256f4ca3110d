package frontend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mikey/qr-guard/internal/adapters/qr"
	"github.com/mikey/qr-guard/internal/config"
	"github.com/mikey/qr-guard/internal/core"
	"github.com/skip2/go-qrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService() *core.SafetyService {
	logger := zap.NewNop()
	return core.NewSafetyService(nil, nil,
		qr.NewEncoder(qrcode.Medium, logger), qr.NewDecoder(logger),
		nil, logger, core.ServiceOptions{QRSize: 256})
}

func newTestFrontend() *HTTPFrontend {
	return NewHTTPFrontend(newTestService(), zap.NewNop(), config.ServerConfig{
		ListenAddress: "127.0.0.1:0",
		MaxImageBytes: 1 << 20,
		ReadTimeout:   time.Second,
	})
}

// twoCodes renders two QR codes side by side in one PNG
func twoCodes(t *testing.T, left, right string) []byte {
	t.Helper()

	canvas := image.NewGray(image.Rect(0, 0, 600, 340))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)

	for i, content := range []string{left, right} {
		data, err := qrcode.Encode(content, qrcode.Medium, 256)
		require.NoError(t, err)
		code, err := png.Decode(bytes.NewReader(data))
		require.NoError(t, err)
		origin := image.Pt(30+i*300, 40)
		draw.Draw(canvas, code.Bounds().Add(origin), code, code.Bounds().Min, draw.Src)
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, canvas))
	return buf.Bytes()
}

type unreadableDecoder struct{}

func (unreadableDecoder) Decode(io.Reader) ([]string, error) {
	return nil, fmt.Errorf("%w: checksum mismatch", core.ErrUnreadableCode)
}

func doRequest(t *testing.T, f *HTTPFrontend, method, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	f.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	var resp errorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestHealth(t *testing.T) {
	rec := doRequest(t, newTestFrontend(), "GET", "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK\n", rec.Body.String())
}

func TestScanEndpoint(t *testing.T) {
	f := newTestFrontend()

	rec := doRequest(t, f, "POST", "/api/v1/scan", []byte(`{"content": "javascript:alert(1)"}`))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var report core.ScanReport
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&report))
	assert.Equal(t, "javascript:alert(1)", report.Content)
	assert.False(t, report.Verdict.IsSafe)
	assert.Equal(t, core.ActionDangerousScript, report.Verdict.ActionType)
	assert.False(t, report.OpenAction.Visible)

	rec = doRequest(t, f, "POST", "/api/v1/scan", []byte(`{not json`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, f, "GET", "/api/v1/scan", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestScanImageEndpoint(t *testing.T) {
	f := newTestFrontend()

	code, err := qrcode.Encode("http://example.com", qrcode.Medium, 256)
	require.NoError(t, err)

	rec := doRequest(t, f, "POST", "/api/v1/scan/image", code)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp imageScanResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Equal(t, 1, resp.Count)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "QR #1: http://example.com", resp.Results[0].Label)
	report := resp.Results[0].Report
	assert.Equal(t, "http://example.com", report.Content)
	assert.Equal(t, core.ActionURL, report.Verdict.ActionType)
	assert.False(t, report.Verdict.IsSafe)

	var blank bytes.Buffer
	require.NoError(t, png.Encode(&blank, image.NewGray(image.Rect(0, 0, 64, 64))))
	rec = doRequest(t, f, "POST", "/api/v1/scan/image", blank.Bytes())
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = doRequest(t, f, "POST", "/api/v1/scan/image", []byte("not an image"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScanImageSeveralCodes(t *testing.T) {
	rec := doRequest(t, newTestFrontend(), "POST", "/api/v1/scan/image",
		twoCodes(t, "https://example.com/first", "javascript:alert(1)"))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp imageScanResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Equal(t, 2, resp.Count)
	require.Len(t, resp.Results, 2)

	assert.Equal(t, "QR #1: https://example.com/first", resp.Results[0].Label)
	assert.Equal(t, core.ActionURL, resp.Results[0].Report.Verdict.ActionType)
	assert.Equal(t, "QR #2: javascript:alert(1)", resp.Results[1].Label)
	assert.Equal(t, core.ActionDangerousScript, resp.Results[1].Report.Verdict.ActionType)
}

func TestScanImageUnreadable(t *testing.T) {
	logger := zap.NewNop()
	svc := core.NewSafetyService(nil, nil, nil, unreadableDecoder{}, nil, logger, core.ServiceOptions{})
	f := NewHTTPFrontend(svc, logger, config.ServerConfig{MaxImageBytes: 1 << 20})

	rec := doRequest(t, f, "POST", "/api/v1/scan/image", []byte("image bytes"))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "failed to scan image", decodeError(t, rec).Error)
}

func TestStartReportsListenFailure(t *testing.T) {
	taken, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer taken.Close()

	f := NewHTTPFrontend(newTestService(), zap.NewNop(), config.ServerConfig{
		ListenAddress: taken.Addr().String(),
		MaxImageBytes: 1 << 20,
	})
	assert.Error(t, f.Start())
	assert.NoError(t, f.Stop())
}

func TestStartServes(t *testing.T) {
	f := newTestFrontend()
	require.NoError(t, f.Start())
	defer f.Stop()

	resp, err := http.Get("http://" + f.Addr().String() + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestScanImageTooLarge(t *testing.T) {
	f := NewHTTPFrontend(newTestService(), zap.NewNop(), config.ServerConfig{MaxImageBytes: 16})

	rec := doRequest(t, f, "POST", "/api/v1/scan/image", bytes.Repeat([]byte{0}, 64))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestGenerateEndpoint(t *testing.T) {
	f := newTestFrontend()

	t.Run("Plain text is encoded", func(t *testing.T) {
		rec := doRequest(t, f, "POST", "/api/v1/generate", []byte(`{"content": "https://example.com"}`))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))

		decoded, err := qr.NewDecoder(zap.NewNop()).Decode(rec.Body)
		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com"}, decoded)
	})

	t.Run("Empty input", func(t *testing.T) {
		rec := doRequest(t, f, "POST", "/api/v1/generate", []byte(`{"content": "   "}`))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Rejected input", func(t *testing.T) {
		rec := doRequest(t, f, "POST", "/api/v1/generate", []byte(`{"content": "<script>alert(1)</script>"}`))
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, "Input contains HTML or Script tags.", decodeError(t, rec).Error)
	})

	t.Run("Sensitive input needs confirmation", func(t *testing.T) {
		rec := doRequest(t, f, "POST", "/api/v1/generate", []byte(`{"content": "wifi password hunter2"}`))
		require.Equal(t, http.StatusConflict, rec.Code)
		assert.True(t, decodeError(t, rec).Sensitive)

		rec = doRequest(t, f, "POST", "/api/v1/generate", []byte(`{"content": "wifi password hunter2", "confirmed": true}`))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestCliScan(t *testing.T) {
	var out bytes.Buffer
	cli := NewCliFrontend(newTestService(), zap.NewNop(), &out, strings.NewReader(""), false)

	report := cli.Scan(context.Background(), "http://example.com/login")
	require.NotNil(t, report)

	printed := out.String()
	assert.Contains(t, printed, "Action type: URL")
	assert.Contains(t, printed, "Safe: false")
	assert.Contains(t, printed, "  - Unsecured Connection (HTTP). Traffic can be intercepted.")
	assert.Contains(t, printed, "  - Suspicious keyword detected: 'login'.")
	assert.Contains(t, printed, "Open action: Open (view)")
}

func TestCliScanImage(t *testing.T) {
	var out bytes.Buffer
	cli := NewCliFrontend(newTestService(), zap.NewNop(), &out, strings.NewReader(""), true)

	code, err := qrcode.Encode("tel:+15551234567", qrcode.Medium, 256)
	require.NoError(t, err)

	reports, err := cli.ScanImage(context.Background(), bytes.NewReader(code), 0)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, core.ActionTel, reports[0].Verdict.ActionType)
	assert.Contains(t, out.String(), "Initiates a phone call.")
	assert.NotContains(t, out.String(), "QR #1")
}

func TestCliScanImageSeveralCodes(t *testing.T) {
	ctx := context.Background()
	picture := twoCodes(t, "https://example.com/first", "tel:+15551234567")

	t.Run("Lists and prints every code", func(t *testing.T) {
		var out bytes.Buffer
		cli := NewCliFrontend(newTestService(), zap.NewNop(), &out, strings.NewReader(""), false)

		reports, err := cli.ScanImage(ctx, bytes.NewReader(picture), 0)
		require.NoError(t, err)
		require.Len(t, reports, 2)

		printed := out.String()
		assert.Contains(t, printed, "Found 2 QR codes:")
		assert.Contains(t, printed, "  QR #1: https://example.com/first")
		assert.Contains(t, printed, "  QR #2: tel:+15551234567")
		assert.Contains(t, printed, "--- QR #2 ---")
		assert.Contains(t, printed, "Initiates a phone call.")
	})

	t.Run("Pick one code", func(t *testing.T) {
		var out bytes.Buffer
		cli := NewCliFrontend(newTestService(), zap.NewNop(), &out, strings.NewReader(""), false)

		reports, err := cli.ScanImage(ctx, bytes.NewReader(picture), 2)
		require.NoError(t, err)
		require.Len(t, reports, 1)
		assert.Equal(t, core.ActionTel, reports[0].Verdict.ActionType)
		assert.NotContains(t, out.String(), "Action type: URL")
	})

	t.Run("Pick out of range", func(t *testing.T) {
		var out bytes.Buffer
		cli := NewCliFrontend(newTestService(), zap.NewNop(), &out, strings.NewReader(""), false)

		_, err := cli.ScanImage(ctx, bytes.NewReader(picture), 3)
		assert.ErrorContains(t, err, "no QR #3")
	})
}

func TestCliGenerateConfirmation(t *testing.T) {
	ctx := context.Background()

	t.Run("Confirmed on prompt", func(t *testing.T) {
		var out bytes.Buffer
		cli := NewCliFrontend(newTestService(), zap.NewNop(), &out, strings.NewReader("y\n"), false)

		data, err := cli.Generate(ctx, "my secret key", false)
		require.NoError(t, err)
		assert.NotEmpty(t, data)
		assert.Contains(t, out.String(), "Do you want to continue? [y/N]")
	})

	t.Run("Declined on prompt", func(t *testing.T) {
		var out bytes.Buffer
		cli := NewCliFrontend(newTestService(), zap.NewNop(), &out, strings.NewReader("\n"), false)

		_, err := cli.Generate(ctx, "my secret key", false)
		assert.ErrorIs(t, err, core.ErrConfirmationRequired)
	})

	t.Run("Assume yes skips the prompt", func(t *testing.T) {
		var out bytes.Buffer
		cli := NewCliFrontend(newTestService(), zap.NewNop(), &out, strings.NewReader(""), false)

		data, err := cli.Generate(ctx, "my secret key", true)
		require.NoError(t, err)
		assert.NotEmpty(t, data)
		assert.NotContains(t, out.String(), "Do you want to continue?")
	})

	t.Run("Not sensitive", func(t *testing.T) {
		var out bytes.Buffer
		cli := NewCliFrontend(newTestService(), zap.NewNop(), &out, strings.NewReader(""), false)

		data, err := cli.Generate(ctx, "hello", false)
		require.NoError(t, err)
		assert.NotEmpty(t, data)
		assert.Empty(t, out.String())
	})
}

func TestCORS(t *testing.T) {
	f := NewHTTPFrontend(newTestService(), zap.NewNop(), config.ServerConfig{
		MaxImageBytes: 1 << 20,
		CORSOrigins:   []string{"https://scanner.example.com"},
	})

	req := httptest.NewRequest("OPTIONS", "/api/v1/scan", nil)
	req.Header.Set("Origin", "https://scanner.example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	f.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "https://scanner.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest("POST", "/api/v1/scan", strings.NewReader(`{"content": "hello"}`))
	req.Header.Set("Origin", "https://elsewhere.example.com")
	rec = httptest.NewRecorder()
	f.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
