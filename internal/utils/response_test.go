package utils

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	apperrors "hoaportal/internal/errors"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFailStatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{apperrors.Validation("bad"), fiber.StatusBadRequest},
		{apperrors.ErrInvalidCredentials, fiber.StatusBadRequest},
		{apperrors.Conflict("taken"), fiber.StatusBadRequest},
		{apperrors.Authorization("no"), fiber.StatusForbidden},
		{apperrors.NotFound("gone"), fiber.StatusNotFound},
		{apperrors.External("smtp down"), fiber.StatusInternalServerError},
		{errors.New("pq: connection refused"), fiber.StatusInternalServerError},
	}

	for _, tc := range cases {
		app := fiber.New()
		app.Get("/", func(c *fiber.Ctx) error { return Fail(c, tc.err) })

		resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
		require.NoError(t, err)
		assert.Equal(t, tc.status, resp.StatusCode, tc.err.Error())
	}
}

func TestFailHidesInternalErrors(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error { return Fail(c, errors.New("pq: secret detail")) })

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Internal server error", body["error"])
}

func TestFailIncludesFields(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return Fail(c, apperrors.ValidationFields(map[string]string{"block": "must not be empty"}))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)

	var body struct {
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "must not be empty", body.Fields["block"])
}
