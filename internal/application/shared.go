package application

import (
	"context"
	"errors"

	"github.com/wms-platform/materials-service/internal/domain"
	apperrors "github.com/wms-platform/materials-service/pkg/errors"
)

// resolveActor loads the acting user, mapping a missing actor to a
// forbidden response rather than not-found
func resolveActor(ctx context.Context, users domain.UserRepository, actorID string) (*domain.User, error) {
	if actorID == "" {
		return nil, apperrors.ErrForbidden("actor is required")
	}
	actor, err := users.FindByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperrors.ErrForbidden("unknown actor")
		}
		return nil, apperrors.ErrInternal("failed to resolve actor").WithCause(err)
	}
	return actor, nil
}

// mapTransitionError converts domain transition failures into app errors
func mapTransitionError(err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidStatus):
		return apperrors.ErrStateConflict("transition not valid for current status").WithCause(err)
	case errors.Is(err, domain.ErrStockAlreadyApplied):
		return apperrors.ErrStateConflict("stock already applied for this transaction").WithCause(err)
	case errors.Is(err, domain.ErrStockNotApplicable):
		return apperrors.ErrStateConflict("transaction is not completed").WithCause(err)
	case errors.Is(err, domain.ErrUnknownItem), errors.Is(err, domain.ErrUnknownWarehouse):
		return apperrors.ErrDataIntegrity(err.Error())
	case errors.Is(err, domain.ErrNoItemsSelected):
		return apperrors.ErrValidation(err.Error())
	default:
		return apperrors.ErrInternal("transition failed").WithCause(err)
	}
}

// mapSaveError converts repository save failures into app errors
func mapSaveError(err error, resource, id string) error {
	switch {
	case errors.Is(err, domain.ErrVersionConflict):
		return apperrors.ErrConflict(resource + " " + id + " was modified concurrently").WithCause(err)
	case errors.Is(err, domain.ErrNotFound):
		return apperrors.ErrNotFound(resource, id)
	default:
		return apperrors.ErrInternal("failed to save " + resource).WithCause(err)
	}
}
