package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"foil-records-server/config"
	"foil-records-server/internal/model"
	"foil-records-server/internal/permission"
	"foil-records-server/internal/ports"
	"foil-records-server/internal/repository"
	"foil-records-server/internal/util"
)

// UserRequestService : выдача, изменение и отзыв прав пользователей на
// запросе FOIL. Мутация и событие аудита идут одной транзакцией,
// уведомления публикуются после коммита и на исход не влияют.
type UserRequestService struct {
	userRequestRepository ports.UserRequestRepository
	userRepository        ports.UserRepository
	eventRepository       ports.EventRepository
	publisher             ports.TaskPublisher
}

func NewUserRequestService(
	userRequestRepository ports.UserRequestRepository,
	userRepository ports.UserRepository,
	eventRepository ports.EventRepository,
	publisher ports.TaskPublisher,
) *UserRequestService {
	return &UserRequestService{
		userRequestRepository: userRequestRepository,
		userRepository:        userRepository,
		eventRepository:       eventRepository,
		publisher:             publisher,
	}
}

// AddUserRequest : привязывает пользователя к запросу с начальным набором
// прав. Существующая привязка — ошибка без каких-либо побочных эффектов.
func (s *UserRequestService) AddUserRequest(ctx context.Context, requestID, userGUID string, capabilities []string, actor model.Actor) (*model.UserRequest, error) {
	mask, err := parseCapabilities(capabilities)
	if err != nil {
		return nil, err
	}

	exec, rollback, commit, err := s.userRequestRepository.BeginTX(ctx)
	if err != nil {
		return nil, util.LogError("[UserRequestService] не удалось начать транзакцию", err)
	}
	defer rollback()

	if err := authorizeCapability(ctx, exec, s.userRequestRepository, requestID, actor, permission.ManageUsers); err != nil {
		return nil, err
	}

	if _, err := s.userRequestRepository.Get(ctx, exec, requestID, userGUID); err == nil {
		return nil, repository.ErrDuplicateUserRequest
	} else if errors.Is(err, repository.ErrUserRequestNotFound) == false {
		return nil, util.LogError("[UserRequestService] ошибка проверки существующей привязки", err)
	}

	user, err := s.userRepository.FindByGUID(ctx, exec, userGUID)
	if err != nil {
		return nil, util.LogError("[UserRequestService] пользователь не найден", err)
	}

	now := time.Now().UTC()
	userRequest := &model.UserRequest{
		UserGUID:        userGUID,
		AuthType:        user.AuthType,
		RequestID:       requestID,
		RequestUserType: model.RequestUserTypeAgency,
		Permissions:     mask,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.userRequestRepository.Create(ctx, exec, userRequest); err != nil {
		return nil, util.LogError("[UserRequestService] не удалось создать привязку", err)
	}

	_, err = s.eventRepository.Record(ctx, exec, &model.Event{
		RequestID: requestID,
		UserGUID:  actor.UserGUID,
		AuthType:  actor.AuthType,
		Type:      model.EventUserAdded,
		NewValue:  userRequest.EventSnapshot(),
	})
	if err != nil {
		return nil, util.LogError("[UserRequestService] не удалось записать событие", err)
	}

	if err := commit(); err != nil {
		return nil, util.LogError("[UserRequestService] не удалось закоммитить транзакцию", err)
	}

	s.notifyPermissionChange(ctx, TemplateUserRequestAdded, "User Added to "+requestID, userRequest, map[string]interface{}{
		"user_name": user.Name(),
		"granted":   permission.Labels(mask),
	})

	log.Printf("[UserRequestService] пользователь %s добавлен к запросу %s", userGUID, requestID)
	return userRequest, nil
}

// EditUserRequest : приводит права пользователя к переданному набору.
// В событии фиксируется старая маска и новый снимок; добавление прав
// применяется раньше отзыва.
func (s *UserRequestService) EditUserRequest(ctx context.Context, requestID, userGUID string, capabilities []string, actor model.Actor) (*model.UserRequest, error) {
	target, err := parseCapabilities(capabilities)
	if err != nil {
		return nil, err
	}

	exec, rollback, commit, err := s.userRequestRepository.BeginTX(ctx)
	if err != nil {
		return nil, util.LogError("[UserRequestService] не удалось начать транзакцию", err)
	}
	defer rollback()

	if err := authorizeCapability(ctx, exec, s.userRequestRepository, requestID, actor, permission.ManageUsers); err != nil {
		return nil, err
	}

	userRequest, err := s.userRequestRepository.Get(ctx, exec, requestID, userGUID)
	if err != nil {
		return nil, err
	}

	previous := userRequest.Permissions
	added := permission.Set(target &^ previous)
	removed := permission.Set(previous &^ target)

	if len(added) == 0 && len(removed) == 0 {
		log.Printf("[UserRequestService] права пользователя %s на %s не изменились", userGUID, requestID)
		return userRequest, nil
	}

	mask := previous
	if mask, err = permission.Add(mask, added...); err != nil {
		return nil, err
	}
	if mask, err = permission.Remove(mask, removed...); err != nil {
		return nil, err
	}

	userRequest.Permissions = mask
	userRequest.UpdatedAt = time.Now().UTC()

	if err := s.userRequestRepository.UpdatePermissions(ctx, exec, requestID, userGUID, uint64(mask)); err != nil {
		return nil, util.LogError("[UserRequestService] не удалось обновить права", err)
	}

	_, err = s.eventRepository.Record(ctx, exec, &model.Event{
		RequestID: requestID,
		UserGUID:  actor.UserGUID,
		AuthType:  actor.AuthType,
		Type:      model.EventUserPermChanged,
		PreviousValue: map[string]interface{}{
			"permissions": uint64(previous),
		},
		NewValue: userRequest.EventSnapshot(),
	})
	if err != nil {
		return nil, util.LogError("[UserRequestService] не удалось записать событие", err)
	}

	if err := commit(); err != nil {
		return nil, util.LogError("[UserRequestService] не удалось закоммитить транзакцию", err)
	}

	s.notifyPermissionChange(ctx, TemplateUserRequestEdited, "Permissions Changed on "+requestID, userRequest, map[string]interface{}{
		"granted": capabilityLabels(added),
		"revoked": capabilityLabels(removed),
	})

	log.Printf("[UserRequestService] права пользователя %s на %s обновлены", userGUID, requestID)
	return userRequest, nil
}

// RemoveUserRequest : отвязывает пользователя от запроса. Единственное
// физическое удаление в модели; событие хранит прощальный снимок прав.
func (s *UserRequestService) RemoveUserRequest(ctx context.Context, requestID, userGUID string, actor model.Actor) error {
	exec, rollback, commit, err := s.userRequestRepository.BeginTX(ctx)
	if err != nil {
		return util.LogError("[UserRequestService] не удалось начать транзакцию", err)
	}
	defer rollback()

	if err := authorizeCapability(ctx, exec, s.userRequestRepository, requestID, actor, permission.ManageUsers); err != nil {
		return err
	}

	userRequest, err := s.userRequestRepository.Get(ctx, exec, requestID, userGUID)
	if err != nil {
		return err
	}

	_, err = s.eventRepository.Record(ctx, exec, &model.Event{
		RequestID:     requestID,
		UserGUID:      actor.UserGUID,
		AuthType:      actor.AuthType,
		Type:          model.EventUserRemoved,
		PreviousValue: userRequest.EventSnapshot(),
	})
	if err != nil {
		return util.LogError("[UserRequestService] не удалось записать событие", err)
	}

	if err := s.userRequestRepository.Delete(ctx, exec, requestID, userGUID); err != nil {
		return util.LogError("[UserRequestService] не удалось удалить привязку", err)
	}

	if err := commit(); err != nil {
		return util.LogError("[UserRequestService] не удалось закоммитить транзакцию", err)
	}

	s.notifyPermissionChange(ctx, TemplateUserRequestRemoved, "User Removed from "+requestID, userRequest, nil)

	log.Printf("[UserRequestService] пользователь %s отвязан от запроса %s", userGUID, requestID)
	return nil
}

// notifyPermissionChange : два письма на одно изменение — администраторам
// агентства (полный контекст) и самому пользователю
func (s *UserRequestService) notifyPermissionChange(ctx context.Context, templateID, subject string, userRequest *model.UserRequest, extra map[string]interface{}) {
	db, ok := ctx.Value("db").(*config.Database)
	if ok == false {
		log.Printf("[UserRequestService] database connection не найден в context, уведомление пропущено")
		return
	}

	baseContext := map[string]interface{}{
		"request_id":  userRequest.RequestID,
		"user_guid":   userRequest.UserGUID,
		"permissions": permission.Labels(userRequest.Permissions),
	}
	for key, value := range extra {
		baseContext[key] = value
	}

	// Администраторы агентства: служебное представление
	if admins, err := s.userRepository.GetAgencyEmails(ctx, db, userRequest.RequestID, true); err != nil {
		log.Printf("[UserRequestService] ошибка получения адресов администраторов: %v", err)
	} else if len(admins) > 0 {
		adminContext := map[string]interface{}{"admin": true}
		for key, value := range baseContext {
			adminContext[key] = value
		}
		s.publish(ctx, &model.NotificationTask{
			RequestID:  userRequest.RequestID,
			TemplateID: templateID,
			Subject:    subject,
			Recipients: admins,
			Context:    adminContext,
		})
	}

	// Сам пользователь: личное представление без служебных деталей
	user, err := s.userRepository.FindByGUID(ctx, db, userRequest.UserGUID)
	if err != nil {
		log.Printf("[UserRequestService] ошибка чтения пользователя для уведомления: %v", err)
		return
	}
	s.publish(ctx, &model.NotificationTask{
		RequestID:  userRequest.RequestID,
		TemplateID: templateID,
		Subject:    subject,
		Recipients: []string{user.PreferredEmail()},
		Context:    baseContext,
	})
}

func (s *UserRequestService) publish(ctx context.Context, task *model.NotificationTask) {
	if err := s.publisher.PublishNotification(ctx, task); err != nil {
		log.Printf("[UserRequestService] ошибка публикации уведомления: %v", err)
	}
}

// parseCapabilities : имена прав в маску; неизвестное имя — ошибка целиком
func parseCapabilities(names []string) (permission.Mask, error) {
	var mask permission.Mask
	for _, name := range names {
		capability, err := permission.Parse(name)
		if err != nil {
			return 0, fmt.Errorf("[UserRequestService] %w", err)
		}
		mask, err = permission.Add(mask, capability)
		if err != nil {
			return 0, err
		}
	}
	return mask, nil
}

func capabilityLabels(capabilities []permission.Capability) []string {
	result := []string{}
	for _, capability := range capabilities {
		result = append(result, capability.Label())
	}
	return result
}
