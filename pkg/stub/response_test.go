package stub

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/getmockd/httpstub/pkg/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResponse_Defaults(t *testing.T) {
	r, err := NewResponse()
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, r.StatusCode())
	assert.True(t, r.OK())
	text, _ := r.Text()
	assert.Equal(t, "null", text)
	body, _ := r.Read()
	assert.Equal(t, []byte("null"), body)
	assert.Nil(t, r.Header())
	assert.Nil(t, r.JSONBody())
}

func TestNewResponse_DerivesFromJSON(t *testing.T) {
	r, err := NewResponse(WithJSON(map[string]any{"success": true}))
	require.NoError(t, err)

	text, err := r.Text()
	require.NoError(t, err)
	assert.Equal(t, `{"success":true}`, text)

	body, err := r.Read()
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"success":true}`), body)

	var decoded map[string]bool
	require.NoError(t, r.JSON(&decoded))
	assert.Equal(t, map[string]bool{"success": true}, decoded)
	assert.Equal(t, map[string]any{"success": true}, r.JSONBody())
	assert.Equal(t, "application/json", r.Header().Get("Content-Type"))
}

func TestNewResponse_TextWins(t *testing.T) {
	r, err := NewResponse(WithJSON(map[string]any{"a": 1}), WithText("plain"))
	require.NoError(t, err)

	text, _ := r.Text()
	assert.Equal(t, "plain", text)
	body, _ := r.Read()
	assert.Equal(t, []byte("plain"), body)
}

func TestNewResponse_BytesOnly(t *testing.T) {
	r, err := NewResponse(WithBytes([]byte{0x68, 0x69}))
	require.NoError(t, err)

	text, _ := r.Text()
	assert.Equal(t, "hi", text)
	body, _ := r.Read()
	assert.Equal(t, []byte("hi"), body)
}

func TestNewResponse_ExplicitContentTypeKept(t *testing.T) {
	r, err := NewResponse(WithJSON(1), WithHeader("Content-Type", "application/vnd.api+json"))
	require.NoError(t, err)
	assert.Equal(t, "application/vnd.api+json", r.Header().Get("Content-Type"))
}

func TestNewResponse_SerializerError(t *testing.T) {
	_, err := NewResponse(WithJSON(func() {}))
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestResponse_OKBoundary(t *testing.T) {
	tests := []struct {
		status int
		ok     bool
	}{
		{200, true},
		{302, true},
		{399, true},
		{400, false},
		{404, false},
		{503, false},
	}
	for _, tt := range tests {
		r, err := NewResponse(WithStatus(tt.status))
		require.NoError(t, err)
		assert.Equal(t, tt.ok, r.OK(), "status %d", tt.status)
	}
}

func TestResponse_RaiseForStatus(t *testing.T) {
	ok, err := NewResponse(WithStatus(204))
	require.NoError(t, err)
	assert.NoError(t, ok.RaiseForStatus())

	bad, err := NewResponse(WithStatus(418))
	require.NoError(t, err)
	bad.setURL("https://host/teapot")

	err = bad.RaiseForStatus()
	var respErr *client.ResponseError
	require.True(t, errors.As(err, &respErr))
	assert.Equal(t, 418, respErr.Status)
	assert.Equal(t, "https://host/teapot", respErr.URL)
}

func TestResponse_LifecycleNoops(t *testing.T) {
	r, err := NewResponse(WithText("x"))
	require.NoError(t, err)

	r.Release()
	assert.NoError(t, r.WaitForClose(context.Background()))
	assert.NoError(t, r.Close())

	text, _ := r.Text()
	assert.Equal(t, "x", text)
}

func TestResponse_ReadReturnsCopy(t *testing.T) {
	r, err := NewResponse(WithText("abc"))
	require.NoError(t, err)

	b, _ := r.Read()
	b[0] = 'z'
	again, _ := r.Read()
	assert.Equal(t, []byte("abc"), again)
}

func TestResponse_Attrs(t *testing.T) {
	r, err := NewResponse(WithAttrs(slog.String("reason", "created"), slog.Int("retries", 2)))
	require.NoError(t, err)

	v, ok := r.Attr("reason")
	require.True(t, ok)
	assert.Equal(t, "created", v.String())

	v, ok = r.Attr("retries")
	require.True(t, ok)
	assert.Equal(t, int64(2), v.Int64())

	_, ok = r.Attr("missing")
	assert.False(t, ok)

	require.NoError(t, r.SetAttr("extra", slog.BoolValue(true)))
	assert.Len(t, r.Attrs(), 3)
}

func TestResponse_ReservedAttrs(t *testing.T) {
	_, err := NewResponse(WithAttrs(slog.String("_private", "x")))
	assert.ErrorIs(t, err, ErrConfiguration)

	r, err := NewResponse(WithAttrs(slog.String("public", "x")))
	require.NoError(t, err)

	before := r.Attrs()
	err = r.SetAttr("_status", slog.IntValue(500))
	assert.ErrorIs(t, err, ErrConfiguration)
	assert.Equal(t, before, r.Attrs())
	_, ok := r.Attr("_status")
	assert.False(t, ok)
}

func TestResponse_AttrsCopy(t *testing.T) {
	r, err := NewResponse(WithAttrs(slog.String("k", "v")))
	require.NoError(t, err)

	attrs := r.Attrs()
	attrs["k"] = slog.StringValue("changed")
	v, _ := r.Attr("k")
	assert.Equal(t, "v", v.String())
}

func TestResponse_HTTPResponse(t *testing.T) {
	r, err := NewResponse(WithStatus(201), WithJSON(map[string]any{"id": 7}), WithHeader("X-Trace", "abc"))
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, "https://host/items", nil)
	require.NoError(t, err)

	hr := r.HTTPResponse(req)
	defer hr.Body.Close()

	assert.Equal(t, 201, hr.StatusCode)
	assert.Equal(t, "201 Created", hr.Status)
	assert.Equal(t, "abc", hr.Header.Get("X-Trace"))
	assert.Equal(t, "application/json", hr.Header.Get("Content-Type"))
	assert.Equal(t, "8", hr.Header.Get("Content-Length"))
	assert.Same(t, req, hr.Request)

	body, err := io.ReadAll(hr.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":7}`, string(body))
}

func TestResponse_CloneIsIndependent(t *testing.T) {
	r, err := NewResponse(WithBytes([]byte("abc")), WithHeader("A", "1"), WithAttrs(slog.String("k", "v")))
	require.NoError(t, err)

	c := r.clone()
	require.NoError(t, c.SetAttr("k", slog.StringValue("other")))
	c.setURL("https://elsewhere")

	v, _ := r.Attr("k")
	assert.Equal(t, "v", v.String())
	assert.Empty(t, r.URL())
	assert.Nil(t, (*Response)(nil).clone())
}
