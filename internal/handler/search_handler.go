package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"foil-records-server/internal/model"
	"foil-records-server/internal/model/requestresponse"
	"foil-records-server/internal/ports"
	"foil-records-server/internal/repository"
	"foil-records-server/internal/security"
	"foil-records-server/internal/util"
)

type SearchHandler struct {
	ports.SearchService
}

func NewSearchHandler(searchService ports.SearchService) *SearchHandler {
	return &SearchHandler{searchService}
}

// Search : GET /api/search/requests. Доступен без авторизации, роль
// вызывающего определяет видимость полей.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	opts := searchOptionsFromQuery(r)

	results, err := h.SearchService.Search(ctx, opts)
	if err != nil {
		handleSearchError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, requestresponse.SearchResponse{
		Count:   len(results.Hits),
		Total:   results.Total,
		Results: results.Hits,
	})
}

// ExportCSV : GET /api/search/requests/export, только для агентства
func (h *SearchHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	opts := searchOptionsFromQuery(r)
	if opts.Role != model.SearchRoleAgency {
		util.HandleError(w, "экспорт доступен только сотрудникам агентства", http.StatusForbidden)
		return
	}

	filename, content, err := h.SearchService.ExportCSV(ctx, opts)
	if err != nil {
		handleSearchError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(content)
}

// Reindex : POST /api/search/reindex, только для администратора
func (h *SearchHandler) Reindex(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Minute)
	defer cancel()

	claims, err := security.GetClaimsFromContext(ctx)
	if err != nil || claims.IsAgencyAdmin == false {
		util.HandleError(w, "недостаточно прав", http.StatusForbidden)
		return
	}

	if err := h.SearchService.ReindexAll(ctx); err != nil {
		handleSearchError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// searchOptionsFromQuery : собирает параметры поиска из query string.
// Роль выводится из claims: агентство, авторизованный или аноним.
func searchOptionsFromQuery(r *http.Request) model.SearchOptions {
	query := r.URL.Query()

	opts := model.SearchOptions{
		Query: query.Get("query"),

		FoilID:            queryBool(r, "foil_id"),
		Title:             queryBool(r, "title"),
		AgencyDescription: queryBool(r, "agency_description"),
		Description:       queryBool(r, "description"),
		RequesterName:     queryBool(r, "requester_name"),

		Open:       queryBool(r, "open"),
		Closed:     queryBool(r, "closed"),
		InProgress: queryBool(r, "in_progress"),
		DueSoon:    queryBool(r, "due_soon"),
		Overdue:    queryBool(r, "overdue"),

		SortDateSubmitted: query.Get("sort_date_submitted"),
		SortDateDue:       query.Get("sort_date_due"),
		SortTitle:         query.Get("sort_title"),

		CallerTZ: query.Get("tz_name"),
	}

	opts.DateRecFrom = queryDate(r, "date_received_from")
	opts.DateRecTo = queryDate(r, "date_received_to")
	opts.DateDueFrom = queryDate(r, "date_due_from")
	opts.DateDueTo = queryDate(r, "date_due_to")

	if ein, err := strconv.Atoi(query.Get("agency_ein")); err == nil {
		opts.AgencyEIN = &ein
	}
	if size, err := strconv.Atoi(query.Get("size")); err == nil {
		opts.Size = size
	}
	if start, err := strconv.Atoi(query.Get("start")); err == nil {
		opts.Start = start
	}

	opts.Role = model.SearchRoleAnonymous
	if claims, err := security.GetClaimsFromContext(r.Context()); err == nil {
		opts.CallerGUID = claims.UserGUID
		if claims.AuthType == model.AuthTypeAgency {
			opts.Role = model.SearchRoleAgency
		} else {
			opts.Role = model.SearchRolePublic
		}
	}

	return opts
}

func queryBool(r *http.Request, name string) bool {
	value, err := strconv.ParseBool(r.URL.Query().Get(name))
	return err == nil && value
}

func queryDate(r *http.Request, name string) *time.Time {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil
	}
	return &parsed
}

func handleSearchError(w http.ResponseWriter, err error) {
	if errors.Is(err, repository.ErrSearchUnavailable) {
		util.HandleError(w, "поиск временно недоступен", http.StatusServiceUnavailable)
		return
	}
	util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
}
