package service

import (
	"context"
	"fmt"
	"log"

	"foil-records-server/config"
	"foil-records-server/internal/model"
	"foil-records-server/internal/ports"
	"foil-records-server/internal/util"
)

// RequestService : чтение запросов FOIL. Карточка запроса ходит через
// Redis (cache-aside), списки ответов и событий читаются из БД с учётом
// роли вызывающего.
type RequestService struct {
	requestRepository  ports.RequestRepository
	responseRepository ports.ResponseRepository
	eventRepository    ports.EventRepository
	cacheRepository    ports.CacheRepository
}

func NewRequestService(
	requestRepository ports.RequestRepository,
	responseRepository ports.ResponseRepository,
	eventRepository ports.EventRepository,
	cacheRepository ports.CacheRepository,
) *RequestService {
	return &RequestService{
		requestRepository:  requestRepository,
		responseRepository: responseRepository,
		eventRepository:    eventRepository,
		cacheRepository:    cacheRepository,
	}
}

// GetRequest : возвращает запрос, сначала из кеша
func (s *RequestService) GetRequest(ctx context.Context, requestID string) (*model.Request, error) {
	request, err := s.cacheRepository.GetRequest(ctx, requestID)
	if err != nil {
		log.Printf("[RequestService] ошибка чтения кеша: %v", err)
	}
	if request != nil {
		return request, nil
	}

	db, ok := ctx.Value("db").(*config.Database)
	if ok == false {
		return nil, fmt.Errorf("[RequestService] database connection не найден в context")
	}

	request, err = s.requestRepository.GetByID(ctx, db, requestID)
	if err != nil {
		return nil, util.LogError("[RequestService] запрос не найден", err)
	}

	if err := s.cacheRepository.SetRequest(ctx, request); err != nil {
		log.Printf("[RequestService] ошибка записи в кеш: %v", err)
	}

	return request, nil
}

// ListResponses : ответы по запросу; private видят только сотрудники агентства
func (s *RequestService) ListResponses(ctx context.Context, requestID string, actor model.Actor) ([]model.Response, error) {
	db, ok := ctx.Value("db").(*config.Database)
	if ok == false {
		return nil, fmt.Errorf("[RequestService] database connection не найден в context")
	}

	includePrivate := actor.IsAgencyAdmin || actor.AuthType == model.AuthTypeAgency

	responses, err := s.responseRepository.ListByRequest(ctx, db, requestID, includePrivate)
	if err != nil {
		return nil, util.LogError("[RequestService] не удалось получить ответы", err)
	}
	return responses, nil
}

// ListEvents : журнал аудита запроса, только для агентства
func (s *RequestService) ListEvents(ctx context.Context, requestID string, actor model.Actor) ([]model.Event, error) {
	if actor.IsAgencyAdmin == false && actor.AuthType != model.AuthTypeAgency {
		return nil, ErrForbidden
	}

	db, ok := ctx.Value("db").(*config.Database)
	if ok == false {
		return nil, fmt.Errorf("[RequestService] database connection не найден в context")
	}

	events, err := s.eventRepository.ListByRequest(ctx, db, requestID)
	if err != nil {
		return nil, util.LogError("[RequestService] не удалось получить журнал", err)
	}
	return events, nil
}
