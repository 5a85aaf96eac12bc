package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasCodeWalksChain(t *testing.T) {
	inner := New(CodeNotFound, "facility not found")
	outer := Wrap(inner, CodeInternal, "failed to create gate")

	assert.True(t, HasCode(outer, CodeInternal))
	assert.True(t, HasCode(outer, CodeNotFound))
	assert.False(t, HasCode(outer, CodeInvalidState))
}

func TestHasCodeThroughFmtWrap(t *testing.T) {
	inner := New(CodeCapacityExhausted, "no free slots")
	wrapped := fmt.Errorf("open transit: %w", inner)

	assert.True(t, HasCode(wrapped, CodeCapacityExhausted))
}

func TestCodeOfUnclassified(t *testing.T) {
	assert.Equal(t, CodeInternal, CodeOf(errors.New("pq: connection reset")))
	assert.Equal(t, "internal error", MessageOf(errors.New("pq: connection reset")))
}

func TestToHTTPStatus(t *testing.T) {
	cases := map[Code]int{
		CodeInvalidInput:      http.StatusBadRequest,
		CodeMalformedID:       http.StatusBadRequest,
		CodeNotFound:          http.StatusNotFound,
		CodeInvalidState:      http.StatusConflict,
		CodeCapacityExhausted: http.StatusConflict,
		CodeConflict:          http.StatusConflict,
		CodeUnauthorized:      http.StatusUnauthorized,
		CodeInternal:          http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, ToHTTPStatus(code), string(code))
	}
}
