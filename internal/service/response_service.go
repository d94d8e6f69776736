package service

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/google/uuid"

	"foil-records-server/config"
	"foil-records-server/internal/model"
	"foil-records-server/internal/model/requestresponse"
	"foil-records-server/internal/permission"
	"foil-records-server/internal/ports"
	"foil-records-server/internal/repository"
	"foil-records-server/internal/util"
)

// Идентификаторы шаблонов писем. Значения уходят в очередь, менять нельзя.
const (
	TemplateResponseAdded   = "response_added"
	TemplateResponseEdited  = "response_edited"
	TemplateResponseDeleted = "response_deleted"
	TemplateFileUpload      = "file_upload"

	TemplateUserRequestAdded   = "user_request_added"
	TemplateUserRequestEdited  = "user_request_edited"
	TemplateUserRequestRemoved = "user_request_removed"
)

const responseTokenLength = 32

type ResponseService struct {
	responseRepository    ports.ResponseRepository
	requestRepository     ports.RequestRepository
	eventRepository       ports.EventRepository
	userRepository        ports.UserRepository
	userRequestRepository ports.UserRequestRepository
	cacheRepository       ports.CacheRepository
	storage               ports.S3Storage
	publisher             ports.TaskPublisher
	tokenTTL              time.Duration
	urlTTL                time.Duration
}

func NewResponseService(
	responseRepository ports.ResponseRepository,
	requestRepository ports.RequestRepository,
	eventRepository ports.EventRepository,
	userRepository ports.UserRepository,
	userRequestRepository ports.UserRequestRepository,
	cacheRepository ports.CacheRepository,
	storage ports.S3Storage,
	publisher ports.TaskPublisher,
	tokenTTL time.Duration,
	urlTTL time.Duration,
) *ResponseService {
	return &ResponseService{
		responseRepository:    responseRepository,
		requestRepository:     requestRepository,
		eventRepository:       eventRepository,
		userRepository:        userRepository,
		userRequestRepository: userRequestRepository,
		cacheRepository:       cacheRepository,
		storage:               storage,
		publisher:             publisher,
		tokenTTL:              tokenTTL,
		urlTTL:                urlTTL,
	}
}

// AddNote : добавляет заметку к запросу, пишет событие аудита в той же
// транзакции и после коммита публикует уведомления
func (s *ResponseService) AddNote(ctx context.Context, requestID, content, privacy string, actor model.Actor) (*model.Response, []model.FieldError, error) {
	fieldErrors := []model.FieldError{}
	if content == "" {
		fieldErrors = append(fieldErrors, model.NewFieldError("content", "содержимое не может быть пустым"))
	}
	if model.ValidPrivacy(privacy) == false {
		fieldErrors = append(fieldErrors, model.NewFieldError("privacy", "недопустимое значение privacy"))
	}
	if len(fieldErrors) > 0 {
		return nil, fieldErrors, nil
	}

	response := s.newResponse(requestID, model.ResponseTypeNote, privacy)
	response.Content = content

	if err := s.createWithEvent(ctx, response, model.EventNoteAdded, permission.AddNote, actor); err != nil {
		return nil, nil, err
	}

	s.notifyResponse(ctx, response, TemplateResponseAdded, "Response Added to "+requestID)
	return response, nil, nil
}

// AddLink : добавляет ссылку на внешние материалы
func (s *ResponseService) AddLink(ctx context.Context, requestID, title, linkURL, privacy string, actor model.Actor) (*model.Response, []model.FieldError, error) {
	fieldErrors := []model.FieldError{}
	if title == "" {
		fieldErrors = append(fieldErrors, model.NewFieldError("title", "заголовок не может быть пустым"))
	}
	if validateHTTPURL(linkURL) == false {
		fieldErrors = append(fieldErrors, model.NewFieldError("url", "ожидается абсолютный http(s) URL"))
	}
	if model.ValidPrivacy(privacy) == false {
		fieldErrors = append(fieldErrors, model.NewFieldError("privacy", "недопустимое значение privacy"))
	}
	if len(fieldErrors) > 0 {
		return nil, fieldErrors, nil
	}

	response := s.newResponse(requestID, model.ResponseTypeLink, privacy)
	response.Title = title
	response.URL = linkURL

	if err := s.createWithEvent(ctx, response, model.EventLinkAdded, permission.AddLink, actor); err != nil {
		return nil, nil, err
	}

	s.notifyResponse(ctx, response, TemplateResponseAdded, "Response Added to "+requestID)
	return response, nil, nil
}

// AddInstruction : добавляет офлайн-инструкцию по получению записей
func (s *ResponseService) AddInstruction(ctx context.Context, requestID, content, privacy string, actor model.Actor) (*model.Response, []model.FieldError, error) {
	fieldErrors := []model.FieldError{}
	if content == "" {
		fieldErrors = append(fieldErrors, model.NewFieldError("content", "содержимое не может быть пустым"))
	}
	if model.ValidPrivacy(privacy) == false {
		fieldErrors = append(fieldErrors, model.NewFieldError("privacy", "недопустимое значение privacy"))
	}
	if len(fieldErrors) > 0 {
		return nil, fieldErrors, nil
	}

	response := s.newResponse(requestID, model.ResponseTypeInstruction, privacy)
	response.Content = content

	if err := s.createWithEvent(ctx, response, model.EventInstructionAdded, permission.AddInstruction, actor); err != nil {
		return nil, nil, err
	}

	s.notifyResponse(ctx, response, TemplateResponseAdded, "Response Added to "+requestID)
	return response, nil, nil
}

// AddExtension : продлевает срок ответа на запрос. Сдвиг date_due и запись
// ответа-продления происходят в одной транзакции.
func (s *ResponseService) AddExtension(ctx context.Context, requestID string, days int, reason string, actor model.Actor) (*model.Response, []model.FieldError, error) {
	fieldErrors := []model.FieldError{}
	if days <= 0 {
		fieldErrors = append(fieldErrors, model.NewFieldError("days", "срок продления должен быть положительным"))
	}
	if reason == "" {
		fieldErrors = append(fieldErrors, model.NewFieldError("reason", "причина продления обязательна"))
	}
	if len(fieldErrors) > 0 {
		return nil, fieldErrors, nil
	}

	exec, rollback, commit, err := s.responseRepository.BeginTX(ctx)
	if err != nil {
		return nil, nil, util.LogError("[ResponseService] не удалось начать транзакцию", err)
	}
	defer rollback()

	if err := authorizeCapability(ctx, exec, s.userRequestRepository, requestID, actor, permission.GrantExtension); err != nil {
		return nil, nil, err
	}

	request, err := s.requestRepository.GetByID(ctx, exec, requestID)
	if err != nil {
		return nil, nil, util.LogError("[ResponseService] запрос не найден", err)
	}
	previousDue := request.DateDue

	request, err = s.requestRepository.ExtendDueDate(ctx, exec, requestID, days)
	if err != nil {
		return nil, nil, util.LogError("[ResponseService] не удалось продлить срок", err)
	}

	response := s.newResponse(requestID, model.ResponseTypeExtension, model.PrivacyReleasePublic)
	response.ExtensionDays = days
	response.ExtensionReason = reason
	extendedTo := request.DateDue
	response.DateExtendedTo = &extendedTo

	if err := s.responseRepository.Create(ctx, exec, response); err != nil {
		return nil, nil, util.LogError("[ResponseService] не удалось сохранить продление", err)
	}

	_, err = s.eventRepository.Record(ctx, exec, &model.Event{
		RequestID: requestID,
		UserGUID:  actor.UserGUID,
		AuthType:  actor.AuthType,
		Type:      model.EventExtensionAdded,
		PreviousValue: map[string]interface{}{
			"date_due": previousDue.Format(time.RFC3339),
		},
		NewValue: map[string]interface{}{
			"date_due":         request.DateDue.Format(time.RFC3339),
			"extension_days":   days,
			"extension_reason": reason,
		},
	})
	if err != nil {
		return nil, nil, util.LogError("[ResponseService] не удалось записать событие", err)
	}

	if err := commit(); err != nil {
		return nil, nil, util.LogError("[ResponseService] не удалось закоммитить транзакцию", err)
	}

	// Кеш и индекс держат date_due, после продления оба устарели
	if err := s.cacheRepository.DeleteRequest(ctx, requestID); err != nil {
		log.Printf("[ResponseService] ошибка инвалидации кеша: %v", err)
	}
	if err := s.publisher.PublishIndexUpdate(ctx, &model.IndexTask{RequestID: requestID, Action: model.IndexActionUpsert}); err != nil {
		log.Printf("[ResponseService] ошибка публикации задачи индекса: %v", err)
	}

	s.notifyResponse(ctx, response, TemplateResponseAdded, "Due Date Extended for "+requestID)

	log.Printf("[ResponseService] срок запроса %s продлён на %d дней", requestID, days)
	return response, nil, nil
}

// AddFiles : регистрирует файловые ответы и возвращает их метаданные.
// Содержимое заливается напрямую в S3 по pre-signed PUT URL, здесь
// фиксируются только метаданные и события аудита.
func (s *ResponseService) AddFiles(ctx context.Context, requestID string, files []ports.FileUpload, emailContent string, actor model.Actor) ([]model.Response, []model.FieldError, error) {
	fieldErrors := []model.FieldError{}
	if len(files) == 0 {
		fieldErrors = append(fieldErrors, model.NewFieldError("files", "нужен хотя бы один файл"))
	}
	for _, file := range files {
		if file.FileName == "" {
			fieldErrors = append(fieldErrors, model.NewFieldError("file_name", "имя файла не может быть пустым"))
		}
		if model.ValidPrivacy(file.Privacy) == false {
			fieldErrors = append(fieldErrors, model.NewFieldError("privacy", fmt.Sprintf("недопустимое значение privacy у файла %q", file.FileName)))
		}
	}
	if len(fieldErrors) > 0 {
		return nil, fieldErrors, nil
	}

	exec, rollback, commit, err := s.responseRepository.BeginTX(ctx)
	if err != nil {
		return nil, nil, util.LogError("[ResponseService] не удалось начать транзакцию", err)
	}
	defer rollback()

	if err := authorizeCapability(ctx, exec, s.userRequestRepository, requestID, actor, permission.AddFile); err != nil {
		return nil, nil, err
	}

	if _, err := s.requestRepository.GetByID(ctx, exec, requestID); err != nil {
		return nil, nil, util.LogError("[ResponseService] запрос не найден", err)
	}

	responses := make([]model.Response, 0, len(files))
	for _, file := range files {
		response := s.newResponse(requestID, model.ResponseTypeFile, file.Privacy)
		response.Title = file.Title
		response.FileName = file.FileName
		response.MimeType = file.MimeType
		response.SizeBytes = file.SizeBytes
		response.Sha256 = file.Sha256
		response.StoragePath = s.storage.ResolvePath(requestID, file.FileName)

		if err := s.responseRepository.Create(ctx, exec, response); err != nil {
			return nil, nil, util.LogError("[ResponseService] не удалось сохранить файл", err)
		}

		_, err = s.eventRepository.Record(ctx, exec, &model.Event{
			RequestID: requestID,
			UserGUID:  actor.UserGUID,
			AuthType:  actor.AuthType,
			Type:      model.EventFileAdded,
			NewValue:  responseSnapshot(response),
		})
		if err != nil {
			return nil, nil, util.LogError("[ResponseService] не удалось записать событие", err)
		}

		responses = append(responses, *response)
	}

	if err := commit(); err != nil {
		return nil, nil, util.LogError("[ResponseService] не удалось закоммитить транзакцию", err)
	}

	s.notifyFiles(ctx, requestID, responses, emailContent)

	log.Printf("[ResponseService] к запросу %s добавлено файлов: %d", requestID, len(responses))
	return responses, nil, nil
}

// EditResponse : применяет правки к ответу. Любая ошибка валидации
// отменяет операцию целиком; пустой diff не порождает ни записи,
// ни события, ни письма.
func (s *ResponseService) EditResponse(ctx context.Context, responseUUID string, changes map[string]string, actor model.Actor) (*requestresponse.EditResult, error) {
	exec, rollback, commit, err := s.responseRepository.BeginTX(ctx)
	if err != nil {
		return nil, util.LogError("[ResponseService] не удалось начать транзакцию", err)
	}
	defer rollback()

	response, err := s.responseRepository.GetByUUID(ctx, exec, responseUUID)
	if err != nil {
		return nil, util.LogError("[ResponseService] ответ не найден", err)
	}

	if err := authorizeCapability(ctx, exec, s.userRequestRepository, response.RequestID, actor, permission.EditResponse); err != nil {
		return nil, err
	}
	if newPrivacy, ok := changes["privacy"]; ok && newPrivacy != response.Privacy {
		if err := authorizeCapability(ctx, exec, s.userRequestRepository, response.RequestID, actor, permission.ChangePrivacy); err != nil {
			return nil, err
		}
	}

	editor, err := NewResponseEditor(response)
	if err != nil {
		return nil, err
	}

	if fieldErrors := editor.Validate(changes); len(fieldErrors) > 0 {
		return &requestresponse.EditResult{Errors: fieldErrors}, nil
	}

	diff := editor.Diff(changes)
	if diff.NoChange() {
		return &requestresponse.EditResult{NoChange: true}, nil
	}

	editor.Apply(diff)
	response.UpdatedAt = time.Now().UTC()

	if err := s.responseRepository.Update(ctx, exec, response); err != nil {
		return nil, util.LogError("[ResponseService] не удалось обновить ответ", err)
	}

	_, err = s.eventRepository.Record(ctx, exec, &model.Event{
		RequestID:     response.RequestID,
		UserGUID:      actor.UserGUID,
		AuthType:      actor.AuthType,
		Type:          editor.EditedEventType(),
		PreviousValue: diff.Old,
		NewValue:      diff.New,
	})
	if err != nil {
		return nil, util.LogError("[ResponseService] не удалось записать событие", err)
	}

	if err := commit(); err != nil {
		return nil, util.LogError("[ResponseService] не удалось закоммитить транзакцию", err)
	}

	s.notifyResponse(ctx, response, TemplateResponseEdited, "Response Edited on "+response.RequestID)

	log.Printf("[ResponseService] ответ %s отредактирован", responseUUID)
	return &requestresponse.EditResult{Old: diff.Old, New: diff.New}, nil
}

// DeleteResponse : мягко удаляет ответ. Строка подтверждения обязана
// совпасть с "<request_id>:<response_id>", иначе операция молча
// превращается в no-op.
func (s *ResponseService) DeleteResponse(ctx context.Context, responseUUID, confirmation string, actor model.Actor) (*requestresponse.EditResult, error) {
	exec, rollback, commit, err := s.responseRepository.BeginTX(ctx)
	if err != nil {
		return nil, util.LogError("[ResponseService] не удалось начать транзакцию", err)
	}
	defer rollback()

	response, err := s.responseRepository.GetByUUID(ctx, exec, responseUUID)
	if err != nil {
		return nil, util.LogError("[ResponseService] ответ не найден", err)
	}

	if err := authorizeCapability(ctx, exec, s.userRequestRepository, response.RequestID, actor, permission.DeleteResponse); err != nil {
		return nil, err
	}

	if confirmation != response.RequestID+":"+response.UUID {
		log.Printf("[ResponseService] подтверждение удаления не совпало, ответ %s не тронут", responseUUID)
		return &requestresponse.EditResult{NoChange: true}, nil
	}

	editor, err := NewResponseEditor(response)
	if err != nil {
		return nil, err
	}

	if err := s.responseRepository.MarkDeleted(ctx, exec, responseUUID); err != nil {
		return nil, util.LogError("[ResponseService] не удалось удалить ответ", err)
	}

	_, err = s.eventRepository.Record(ctx, exec, &model.Event{
		RequestID:     response.RequestID,
		UserGUID:      actor.UserGUID,
		AuthType:      actor.AuthType,
		Type:          editor.DeletedEventType(),
		PreviousValue: responseSnapshot(response),
	})
	if err != nil {
		return nil, util.LogError("[ResponseService] не удалось записать событие", err)
	}

	if err := commit(); err != nil {
		return nil, util.LogError("[ResponseService] не удалось закоммитить транзакцию", err)
	}

	s.notifyResponse(ctx, response, TemplateResponseDeleted, "Response Deleted on "+response.RequestID)

	log.Printf("[ResponseService] ответ %s помечен удалённым", responseUUID)
	return &requestresponse.EditResult{Old: responseSnapshot(response)}, nil
}

// IssueToken : выдаёт одноразовый токен неавторизованного доступа к ответу
func (s *ResponseService) IssueToken(ctx context.Context, responseUUID string) (*model.ResponseToken, error) {
	db, ok := ctx.Value("db").(*config.Database)
	if ok == false {
		return nil, fmt.Errorf("[ResponseService] database connection не найден в context")
	}

	if _, err := s.responseRepository.GetByUUID(ctx, db, responseUUID); err != nil {
		return nil, util.LogError("[ResponseService] ответ не найден", err)
	}

	tokenValue, err := util.GenerateUniqueToken(ctx, db.DB, responseTokenLength)
	if err != nil {
		return nil, err
	}

	token := &model.ResponseToken{
		Token:        tokenValue,
		ResponseUUID: responseUUID,
		ExpireAt:     time.Now().UTC().Add(s.tokenTTL),
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.responseRepository.CreateToken(ctx, db, token); err != nil {
		return nil, util.LogError("[ResponseService] не удалось сохранить токен", err)
	}

	log.Printf("[ResponseService] выдан токен доступа к ответу %s", responseUUID)
	return token, nil
}

// GetResponseByToken : обменивает токен на ответ. Протухший или уже
// использованный токен удаляется на месте и дальше неотличим от
// несуществующего. Для файлового ответа возвращается pre-signed GET URL.
func (s *ResponseService) GetResponseByToken(ctx context.Context, tokenValue string) (*model.Response, string, error) {
	db, ok := ctx.Value("db").(*config.Database)
	if ok == false {
		return nil, "", fmt.Errorf("[ResponseService] database connection не найден в context")
	}

	token, err := s.responseRepository.GetToken(ctx, db, tokenValue)
	if err != nil {
		return nil, "", err
	}

	if token.Used || token.Expired(time.Now().UTC()) {
		if err := s.responseRepository.DeleteToken(ctx, db, tokenValue); err != nil {
			log.Printf("[ResponseService] ошибка удаления токена: %v", err)
		}
		return nil, "", repository.ErrTokenNotFound
	}

	response, err := s.responseRepository.GetByUUID(ctx, db, token.ResponseUUID)
	if err != nil {
		return nil, "", util.LogError("[ResponseService] ответ по токену не найден", err)
	}

	if err := s.responseRepository.MarkTokenUsed(ctx, db, tokenValue); err != nil {
		return nil, "", util.LogError("[ResponseService] не удалось пометить токен", err)
	}

	getURL := ""
	if response.Type == model.ResponseTypeFile {
		exists, err := s.storage.Exists(ctx, response.StoragePath)
		if err != nil {
			return nil, "", err
		}
		if exists == false {
			return nil, "", fmt.Errorf("[ResponseService] файл %s отсутствует в хранилище", response.StoragePath)
		}
		getURL, err = s.storage.GeneratePresignedGetURL(ctx, response.StoragePath, s.urlTTL)
		if err != nil {
			return nil, "", err
		}
	}

	return response, getURL, nil
}

// newResponse : заготовка ответа с общими полями варианта
func (s *ResponseService) newResponse(requestID, responseType, privacy string) *model.Response {
	now := time.Now().UTC()
	return &model.Response{
		UUID:      uuid.NewString(),
		RequestID: requestID,
		Type:      responseType,
		Privacy:   privacy,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// createWithEvent : проверка права, создание ответа и событие аудита
// в одной транзакции
func (s *ResponseService) createWithEvent(ctx context.Context, response *model.Response, eventType string, capability permission.Capability, actor model.Actor) error {
	exec, rollback, commit, err := s.responseRepository.BeginTX(ctx)
	if err != nil {
		return util.LogError("[ResponseService] не удалось начать транзакцию", err)
	}
	defer rollback()

	if err := authorizeCapability(ctx, exec, s.userRequestRepository, response.RequestID, actor, capability); err != nil {
		return err
	}

	if _, err := s.requestRepository.GetByID(ctx, exec, response.RequestID); err != nil {
		return util.LogError("[ResponseService] запрос не найден", err)
	}

	if err := s.responseRepository.Create(ctx, exec, response); err != nil {
		return util.LogError("[ResponseService] не удалось сохранить ответ", err)
	}

	_, err = s.eventRepository.Record(ctx, exec, &model.Event{
		RequestID: response.RequestID,
		UserGUID:  actor.UserGUID,
		AuthType:  actor.AuthType,
		Type:      eventType,
		NewValue:  responseSnapshot(response),
	})
	if err != nil {
		return util.LogError("[ResponseService] не удалось записать событие", err)
	}

	if err := commit(); err != nil {
		return util.LogError("[ResponseService] не удалось закоммитить транзакцию", err)
	}

	return nil
}

// notifyResponse : публикует задачу уведомления, ошибки только логируются.
// Письмо требователю уходит только по release-ответам.
func (s *ResponseService) notifyResponse(ctx context.Context, response *model.Response, templateID, subject string) {
	recipients := s.responseRecipients(ctx, response)
	if len(recipients) == 0 {
		return
	}

	task := &model.NotificationTask{
		RequestID:  response.RequestID,
		TemplateID: templateID,
		Subject:    subject,
		Recipients: recipients,
		Context: map[string]interface{}{
			"request_id":    response.RequestID,
			"response_type": response.Type,
			"privacy":       response.Privacy,
			"title":         response.Title,
		},
	}
	if err := s.publisher.PublishNotification(ctx, task); err != nil {
		log.Printf("[ResponseService] ошибка публикации уведомления: %v", err)
	}
}

// notifyFiles : одно письмо на группу privacy, текст письма общий
func (s *ResponseService) notifyFiles(ctx context.Context, requestID string, responses []model.Response, emailContent string) {
	byPrivacy := map[string][]string{}
	for _, response := range responses {
		byPrivacy[response.Privacy] = append(byPrivacy[response.Privacy], response.FileName)
	}

	for privacy, fileNames := range byPrivacy {
		probe := &model.Response{RequestID: requestID, Privacy: privacy}
		recipients := s.responseRecipients(ctx, probe)
		if len(recipients) == 0 {
			continue
		}

		task := &model.NotificationTask{
			RequestID:  requestID,
			TemplateID: TemplateFileUpload,
			Subject:    "Files Added to " + requestID,
			Recipients: recipients,
			Context: map[string]interface{}{
				"request_id": requestID,
				"privacy":    privacy,
				"file_names": fileNames,
				"content":    emailContent,
			},
		}
		if err := s.publisher.PublishNotification(ctx, task); err != nil {
			log.Printf("[ResponseService] ошибка публикации уведомления: %v", err)
		}
	}
}

// responseRecipients : агентство получает всё, требователь только release
func (s *ResponseService) responseRecipients(ctx context.Context, response *model.Response) []string {
	db, ok := ctx.Value("db").(*config.Database)
	if ok == false {
		log.Printf("[ResponseService] database connection не найден в context, уведомление пропущено")
		return nil
	}

	recipients, err := s.userRepository.GetAgencyEmails(ctx, db, response.RequestID, false)
	if err != nil {
		log.Printf("[ResponseService] ошибка получения адресов агентства: %v", err)
	}

	if response.Privacy != model.PrivacyPrivate {
		request, err := s.requestRepository.GetByID(ctx, db, response.RequestID)
		if err != nil {
			log.Printf("[ResponseService] ошибка чтения запроса для уведомления: %v", err)
			return recipients
		}
		requester, err := s.userRepository.FindByGUID(ctx, db, request.RequesterGUID)
		if err != nil {
			log.Printf("[ResponseService] ошибка чтения требователя: %v", err)
			return recipients
		}
		recipients = append(recipients, requester.PreferredEmail())
	}

	return recipients
}

// responseSnapshot : компактный снимок ответа для previous_value/new_value
func responseSnapshot(response *model.Response) map[string]interface{} {
	snapshot := map[string]interface{}{
		"type":    response.Type,
		"privacy": response.Privacy,
	}
	if response.Title != "" {
		snapshot["title"] = response.Title
	}
	switch response.Type {
	case model.ResponseTypeFile:
		snapshot["file_name"] = response.FileName
		snapshot["size_bytes"] = response.SizeBytes
		snapshot["sha256"] = response.Sha256
	case model.ResponseTypeNote, model.ResponseTypeInstruction:
		snapshot["content"] = response.Content
	case model.ResponseTypeLink:
		snapshot["url"] = response.URL
	case model.ResponseTypeExtension:
		snapshot["extension_days"] = response.ExtensionDays
		snapshot["extension_reason"] = response.ExtensionReason
	}
	return snapshot
}

func validateHTTPURL(raw string) bool {
	if raw == "" {
		return false
	}
	parsed, err := url.ParseRequestURI(raw)
	if err != nil {
		return false
	}
	return parsed.Scheme == "http" || parsed.Scheme == "https"
}
