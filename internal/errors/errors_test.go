package errors

import (
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCode_HTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeNotFound, http.StatusNotFound},
		{CodeValidation, http.StatusBadRequest},
		{CodeRateLimited, http.StatusTooManyRequests},
		{CodeResourceLoad, http.StatusServiceUnavailable},
		{CodeSchemaDetection, http.StatusUnprocessableEntity},
		{CodeInsufficientData, http.StatusUnprocessableEntity},
		{CodeInternal, http.StatusInternalServerError},
		{Code("SOMETHING_ELSE"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.HTTPStatus())
		})
	}
}

func TestError_IsMatchesByCode(t *testing.T) {
	err := InsufficientData("only 9 records", map[string]int{"records": 9})

	assert.True(t, Is(err, ErrInsufficientData))
	assert.False(t, Is(err, ErrSchemaDetection))

	wrapped := fmt.Errorf("view overview: %w", err)
	assert.True(t, Is(wrapped, ErrInsufficientData))

	var domainErr *Error
	require.True(t, As(wrapped, &domainErr))
	assert.Equal(t, map[string]int{"records": 9}, domainErr.Details)
}

func TestResourceLoad_WrapsCause(t *testing.T) {
	err := ResourceLoad("data/corpus.csv", io.ErrUnexpectedEOF)

	assert.Equal(t, CodeResourceLoad, err.Code)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.Contains(t, err.Error(), "data/corpus.csv")
	assert.Contains(t, err.Error(), io.ErrUnexpectedEOF.Error())
}

func TestWithDetails_DoesNotMutateOriginal(t *testing.T) {
	base := Validation("bad view")
	withDetails := base.WithDetails("century_min")

	assert.Nil(t, base.Details)
	assert.Equal(t, "century_min", withDetails.Details)
	assert.Equal(t, base.Code, withDetails.Code)
}
