package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"contoso_hotel/internal/domain"
)

func TestErrorKinds(t *testing.T) {
	err := fmt.Errorf("create booking: %w", domain.NotFound("hotel"))

	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.False(t, errors.Is(err, domain.ErrValidation))
	assert.Equal(t, domain.ErrKindNotFound, domain.KindOf(err))
	assert.Equal(t, "create booking: hotel not found", err.Error())
}

func TestStoreErrorUnwraps(t *testing.T) {
	cause := errors.New("connection reset")
	err := domain.Store("insert hotel", cause)

	assert.True(t, errors.Is(err, domain.ErrStore))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "insert hotel: connection reset", err.Error())
}

func TestKindOf_Unknown(t *testing.T) {
	assert.Equal(t, domain.ErrKindStore, domain.KindOf(errors.New("boom")))
	assert.Equal(t, "already_exists", domain.ErrKindAlreadyExists.String())
}
