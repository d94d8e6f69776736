package service

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"

	"foil-records-server/internal/model"
	"foil-records-server/internal/permission"
	"foil-records-server/internal/ports"
	"foil-records-server/internal/repository"
)

// ErrForbidden : у действующего лица нет нужного права на этом запросе
var ErrForbidden = errors.New("недостаточно прав")

// authorizeCapability : проверяет право actor на запросе по маске его
// привязки. Администратор агентства проходит без привязки.
func authorizeCapability(
	ctx context.Context,
	exec sqlx.ExtContext,
	userRequests ports.UserRequestRepository,
	requestID string,
	actor model.Actor,
	capability permission.Capability,
) error {
	if actor.IsAgencyAdmin {
		return nil
	}
	if actor.UserGUID == "" {
		return ErrForbidden
	}

	userRequest, err := userRequests.Get(ctx, exec, requestID, actor.UserGUID)
	if err != nil {
		if errors.Is(err, repository.ErrUserRequestNotFound) {
			return ErrForbidden
		}
		return err
	}

	if permission.Has(userRequest.Permissions, capability) == false {
		return ErrForbidden
	}
	return nil
}
