package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/meeting-room-scheduler/internal/logger"
	"github.com/iliyamo/meeting-room-scheduler/internal/service"
)

func TestWriteErrorStatus(t *testing.T) {
	cases := map[string]struct {
		err  error
		code int
	}{
		"validation":      {&service.ValidationError{Field: "roomMessage", Reason: "too short"}, http.StatusBadRequest},
		"conflict":        {service.ErrSlotConflict, http.StatusConflict},
		"wrapped missing": {fmt.Errorf("cancel: %w", service.ErrNotFound), http.StatusNotFound},
		"permission":      {service.ErrPermissionDenied, http.StatusForbidden},
		"domain":          {service.ErrDomainMismatch, http.StatusForbidden},
		"storage":         {errors.New("redis down"), http.StatusInternalServerError},
	}
	e := echo.New()
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
			assert.NoError(t, writeError(c, logger.NopLogger{}, tc.err))
			assert.Equal(t, tc.code, rec.Code)
		})
	}
}

func TestWriteErrorNamesField(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)
	_ = writeError(c, logger.NopLogger{}, &service.ValidationError{Field: "email", Reason: "required"})
	assert.JSONEq(t, `{"error":"invalid email: required","field":"email"}`, rec.Body.String())
}
