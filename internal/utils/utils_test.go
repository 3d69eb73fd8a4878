package utils

import (
	"encoding/json"
	"net"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialAddress(t *testing.T) {
	tests := []struct {
		service string
		want    string
		wantErr bool
	}{
		{"localhost:6379", "localhost:6379", false},
		{"redis://cache", "cache:6379", false},
		{"redis://cache:7000", "cache:7000", false},
		{"https://example.com", "example.com:443", false},
		{"http://example.com", "example.com:80", false},
		{"no-port", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.service, func(t *testing.T) {
			got, err := dialAddress(tt.service)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPingService(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()

	assert.NoError(t, PingService(addr, time.Second))

	require.NoError(t, ln.Close())
	assert.Error(t, PingService(addr, 200*time.Millisecond))
}

func TestErrorResponse(t *testing.T) {
	app := fiber.New()
	app.Get("/bad", func(c *fiber.Ctx) error {
		return ValidationErrorResponse(c, map[string]string{"surname": "is required"})
	})
	app.Get("/gone", func(c *fiber.Ctx) error {
		return ErrorResponse(c, "Person 7 not found", fiber.StatusNotFound, "notFound")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/bad?x=1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	var verr ErrorResponseStruct
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&verr))
	assert.Equal(t, "validation", verr.Type)
	assert.Equal(t, "/bad?x=1", verr.URL)
	assert.False(t, verr.Ok)
	assert.Equal(t, "is required", verr.Fields["surname"])

	resp, err = app.Test(httptest.NewRequest("GET", "/gone", nil))
	require.NoError(t, err)
	var nf ErrorResponseStruct
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&nf))
	assert.Equal(t, fiber.StatusNotFound, nf.Status)
	assert.Equal(t, "Person 7 not found", nf.Message)
	_, err = time.Parse(time.RFC3339, nf.Timestamp)
	assert.NoError(t, err)
}
