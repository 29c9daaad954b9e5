package shopserver

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	shopapp "github.com/Apurer/go-gin-shop/internal/domains/shop/application"
	"github.com/Apurer/go-gin-shop/internal/domains/shop/domain"
	shopports "github.com/Apurer/go-gin-shop/internal/domains/shop/ports"
	apierrors "github.com/Apurer/go-gin-shop/internal/shared/errors"
)

// responder is shared by every handler in the package.
var responder = apierrors.NewResponder(nil, MapShopError)

// MapShopError turns shop service errors into problem responses.
func MapShopError(err error) (apierrors.ProblemDetail, bool) {
	var stockErr *domain.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		return apierrors.ErrInsufficientStock.
			WithDetail(err.Error()).
			WithExtension("itemId", stockErr.ItemID).
			WithExtension("requested", stockErr.Requested).
			WithExtension("available", stockErr.Available), true
	case errors.Is(err, domain.ErrInsufficientStock):
		return apierrors.ErrInsufficientStock.WithDetail(err.Error()), true
	case errors.Is(err, shopports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	case errors.Is(err, shopapp.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	case errors.Is(err, domain.ErrInvalidOrderState):
		return apierrors.ErrInvalidOrderState.WithDetail(err.Error()), true
	case errors.Is(err, shopapp.ErrDuplicateMember):
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	case errors.Is(err, shopports.ErrIdempotencyConflict):
		return apierrors.ErrUnprocessable.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func respondError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	responder.RespondError(c, err)
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		responder.BadRequest(c, name+" must be a positive integer")
		return 0, false
	}
	return id, true
}
