package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"time"

	"foil-records-server/internal/model"
	"foil-records-server/internal/ports"
	"foil-records-server/internal/util"
)

const (
	searchDefaultSize = 10
	searchMaxSize     = 50
	exportChunkSize   = 1000
)

// SearchService : поиск по запросам FOIL, CSV-экспорт и синхронизация
// вторичного индекса
type SearchService struct {
	index ports.SearchIndex
}

func NewSearchService(index ports.SearchIndex) *SearchService {
	return &SearchService{index: index}
}

// Search : выполняет поиск с учётом роли вызывающего
func (s *SearchService) Search(ctx context.Context, opts model.SearchOptions) (*model.SearchResults, error) {
	normalized := normalizeSearchOptions(opts)

	results, err := s.index.Query(ctx, normalized)
	if err != nil {
		return nil, err
	}

	return results, nil
}

// ExportCSV : выгружает все совпадения в CSV постранично, возвращает имя
// файла и содержимое. Времена рендерятся в таймзоне вызывающего.
func (s *SearchService) ExportCSV(ctx context.Context, opts model.SearchOptions) (string, []byte, error) {
	location := time.UTC
	if opts.CallerTZ != "" {
		parsed, err := time.LoadLocation(opts.CallerTZ)
		if err != nil {
			log.Printf("[SearchService] неизвестная таймзона %q, используется UTC", opts.CallerTZ)
		} else {
			location = parsed
		}
	}

	normalized := normalizeSearchOptions(opts)
	normalized.Start = 0
	normalized.Size = exportChunkSize

	var buffer bytes.Buffer
	writer := csv.NewWriter(&buffer)

	header := []string{
		"FOIL Request ID",
		"Agency",
		"Title",
		"Description",
		"Agency Description",
		"Date Received",
		"Date Due",
		"Requester Name",
	}
	if err := writer.Write(header); err != nil {
		return "", nil, util.LogError("[SearchService] ошибка записи CSV", err)
	}

	for {
		results, err := s.index.Query(ctx, normalized)
		if err != nil {
			return "", nil, err
		}

		for _, hit := range results.Hits {
			record := []string{
				hit.RequestID,
				hit.AgencyName,
				hit.Title,
				hit.Description,
				hit.AgencyDescription,
				hit.DateSubmitted.In(location).Format("01/02/2006"),
				hit.DateDue.In(location).Format("01/02/2006"),
				hit.RequesterName,
			}
			if err := writer.Write(record); err != nil {
				return "", nil, util.LogError("[SearchService] ошибка записи CSV", err)
			}
		}

		normalized.Start += len(results.Hits)
		if len(results.Hits) == 0 || normalized.Start >= results.Total {
			break
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", nil, util.LogError("[SearchService] ошибка записи CSV", err)
	}

	filename := fmt.Sprintf("FOIL_requests_results_%s.csv",
		time.Now().In(location).Format("01_02_2006_at_03_04_PM"))

	log.Printf("[SearchService] экспортирован файл %s", filename)
	return filename, buffer.Bytes(), nil
}

// SyncRequest : обновляет документ индекса из таблицы запросов
func (s *SearchService) SyncRequest(ctx context.Context, requestID string) error {
	return s.index.Upsert(ctx, requestID)
}

// DeleteFromIndex : убирает запрос из индекса
func (s *SearchService) DeleteFromIndex(ctx context.Context, requestID string) error {
	return s.index.Delete(ctx, requestID)
}

// ReindexAll : полная пересборка индекса, чинит накопившиеся расхождения
func (s *SearchService) ReindexAll(ctx context.Context) error {
	started := time.Now()
	if err := s.index.ReindexAll(ctx); err != nil {
		return err
	}
	log.Printf("[SearchService] индекс пересобран за %s", time.Since(started))
	return nil
}

// normalizeSearchOptions : приводит параметры к разрешённым для роли.
// Неагентские роли не видят служебной разбивки статуса open, их фильтр
// open разворачивается на все незакрытые статусы.
func normalizeSearchOptions(opts model.SearchOptions) model.SearchOptions {
	if opts.Role == "" {
		opts.Role = model.SearchRoleAnonymous
	}

	switch opts.Role {
	case model.SearchRoleAnonymous:
		opts.Description = false
		opts.RequesterName = false
	case model.SearchRolePublic:
		opts.RequesterName = false
	}

	// Без явного статуса ищем по незакрытым: closed всегда opt-in
	if !opts.Open && !opts.Closed && !opts.InProgress && !opts.DueSoon && !opts.Overdue {
		opts.Open = true
	}

	if opts.Role != model.SearchRoleAgency {
		opts.DateDueFrom = nil
		opts.DateDueTo = nil
		if opts.Open {
			opts.InProgress = true
			opts.DueSoon = true
			opts.Overdue = true
		} else {
			opts.InProgress = false
			opts.DueSoon = false
			opts.Overdue = false
		}
	}

	// Без явных полей ищем по всем разрешённым
	if !opts.FoilID && !opts.Title && !opts.AgencyDescription && !opts.Description && !opts.RequesterName {
		opts.FoilID = true
		opts.Title = true
		opts.AgencyDescription = true
		if opts.Role == model.SearchRoleAgency {
			opts.Description = true
			opts.RequesterName = true
		}
		if opts.Role == model.SearchRolePublic {
			opts.Description = true
		}
	}

	if opts.Size <= 0 {
		opts.Size = searchDefaultSize
	}
	if opts.Size > searchMaxSize {
		opts.Size = searchMaxSize
	}
	if opts.Start < 0 {
		opts.Start = 0
	}

	return opts
}
