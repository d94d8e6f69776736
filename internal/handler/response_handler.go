package handler

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"

	"foil-records-server/config"
	"foil-records-server/internal/model"
	"foil-records-server/internal/model/requestresponse"
	"foil-records-server/internal/ports"
	"foil-records-server/internal/repository"
	"foil-records-server/internal/security"
	"foil-records-server/internal/service"
	"foil-records-server/internal/util"
)

type ResponseHandler struct {
	ports.ResponseService
	storage ports.S3Storage
	cfg     *config.TTL
}

func NewResponseHandler(responseService ports.ResponseService, storage ports.S3Storage, cfg *config.TTL) *ResponseHandler {
	return &ResponseHandler{responseService, storage, cfg}
}

// AddNote : POST /api/requests/{request_id}/note
func (h *ResponseHandler) AddNote(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	requestID := chi.URLParam(r, "request_id")
	claims, err := security.GetClaimsFromContext(ctx)
	if err != nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	var body requestresponse.AddNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		util.HandleError(w, "неверный формат запроса", http.StatusBadRequest)
		return
	}

	response, fieldErrors, err := h.ResponseService.AddNote(ctx, requestID, body.Content, body.Privacy, claims.Actor())
	if err != nil {
		handleResponseServiceError(w, err)
		return
	}
	if len(fieldErrors) > 0 {
		util.HandleFieldErrors(w, fieldErrors)
		return
	}

	writeJSON(w, http.StatusCreated, requestresponse.ResponseViewFromModel(response, ""))
}

// AddLink : POST /api/requests/{request_id}/link
func (h *ResponseHandler) AddLink(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	requestID := chi.URLParam(r, "request_id")
	claims, err := security.GetClaimsFromContext(ctx)
	if err != nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	var body requestresponse.AddLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		util.HandleError(w, "неверный формат запроса", http.StatusBadRequest)
		return
	}

	response, fieldErrors, err := h.ResponseService.AddLink(ctx, requestID, body.Title, body.URL, body.Privacy, claims.Actor())
	if err != nil {
		handleResponseServiceError(w, err)
		return
	}
	if len(fieldErrors) > 0 {
		util.HandleFieldErrors(w, fieldErrors)
		return
	}

	writeJSON(w, http.StatusCreated, requestresponse.ResponseViewFromModel(response, ""))
}

// AddInstruction : POST /api/requests/{request_id}/instruction
func (h *ResponseHandler) AddInstruction(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	requestID := chi.URLParam(r, "request_id")
	claims, err := security.GetClaimsFromContext(ctx)
	if err != nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	var body requestresponse.AddInstructionRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		util.HandleError(w, "неверный формат запроса", http.StatusBadRequest)
		return
	}

	response, fieldErrors, err := h.ResponseService.AddInstruction(ctx, requestID, body.Content, body.Privacy, claims.Actor())
	if err != nil {
		handleResponseServiceError(w, err)
		return
	}
	if len(fieldErrors) > 0 {
		util.HandleFieldErrors(w, fieldErrors)
		return
	}

	writeJSON(w, http.StatusCreated, requestresponse.ResponseViewFromModel(response, ""))
}

// AddExtension : POST /api/requests/{request_id}/extension
func (h *ResponseHandler) AddExtension(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	requestID := chi.URLParam(r, "request_id")
	claims, err := security.GetClaimsFromContext(ctx)
	if err != nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	var body requestresponse.AddExtensionRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		util.HandleError(w, "неверный формат запроса", http.StatusBadRequest)
		return
	}

	response, fieldErrors, err := h.ResponseService.AddExtension(ctx, requestID, body.Days, body.Reason, claims.Actor())
	if err != nil {
		handleResponseServiceError(w, err)
		return
	}
	if len(fieldErrors) > 0 {
		util.HandleFieldErrors(w, fieldErrors)
		return
	}

	writeJSON(w, http.StatusCreated, requestresponse.ResponseViewFromModel(response, ""))
}

// AddFiles : POST /api/requests/{request_id}/files, multipart/form-data.
// Метаданные файлов лежат в поле meta (JSON), содержимое заливается в S3
// асинхронно по pre-signed PUT URL.
func (h *ResponseHandler) AddFiles(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	requestID := chi.URLParam(r, "request_id")
	claims, err := security.GetClaimsFromContext(ctx)
	if err != nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		util.HandleError(w, "неверный формат запроса", http.StatusBadRequest)
		return
	}

	var meta requestresponse.AddFilesRequest
	if metaStr := r.FormValue("meta"); metaStr != "" {
		if err := json.Unmarshal([]byte(metaStr), &meta); err != nil {
			util.HandleError(w, "неверный формат метаданных", http.StatusBadRequest)
			return
		}
	}

	if r.MultipartForm == nil || len(r.MultipartForm.File["files"]) == 0 {
		util.HandleError(w, "файлы не найдены в запросе", http.StatusBadRequest)
		return
	}

	uploads := []ports.FileUpload{}
	contents := map[string][]byte{}
	for _, header := range r.MultipartForm.File["files"] {
		file, err := header.Open()
		if err != nil {
			util.HandleError(w, "ошибка чтения файла", http.StatusInternalServerError)
			return
		}
		fileBytes, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			util.HandleError(w, "ошибка чтения файла", http.StatusInternalServerError)
			return
		}

		hash := sha256.Sum256(fileBytes)
		mimeType := header.Header.Get("Content-Type")
		if mimeType == "" {
			mimeType = "application/octet-stream"
		}

		fileMeta := meta.Files[header.Filename]
		privacy := fileMeta.Privacy
		if privacy == "" {
			privacy = model.PrivacyPrivate
		}

		uploads = append(uploads, ports.FileUpload{
			FileName:  header.Filename,
			Title:     fileMeta.Title,
			Privacy:   privacy,
			MimeType:  mimeType,
			SizeBytes: int64(len(fileBytes)),
			Sha256:    hex.EncodeToString(hash[:]),
		})
		contents[header.Filename] = fileBytes
	}

	responses, fieldErrors, err := h.ResponseService.AddFiles(ctx, requestID, uploads, meta.EmailContent, claims.Actor())
	if err != nil {
		handleResponseServiceError(w, err)
		return
	}
	if len(fieldErrors) > 0 {
		util.HandleFieldErrors(w, fieldErrors)
		return
	}

	uploader := util.NewS3Uploader()
	views := []requestresponse.ResponseView{}
	for _, response := range responses {
		putURL, err := h.storage.GeneratePresignedPutURL(ctx, response.StoragePath, time.Duration(h.cfg.S3AndRedis)*time.Second)
		if err != nil {
			util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
			return
		}

		tmpFile, err := saveTempFile(contents[response.FileName], response.FileName)
		if err != nil {
			util.HandleError(w, "ошибка сохранения файла", http.StatusInternalServerError)
			return
		}
		uploader.UploadFileAsync(putURL, tmpFile)

		views = append(views, requestresponse.ResponseViewFromModel(&response, ""))
	}

	go h.monitorUpload(requestID, uploader)

	writeJSON(w, http.StatusAccepted, views)
}

// EditResponse : PUT /api/responses/{response_id}
func (h *ResponseHandler) EditResponse(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	responseUUID := chi.URLParam(r, "response_id")
	claims, err := security.GetClaimsFromContext(ctx)
	if err != nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	var body requestresponse.EditResponseRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		util.HandleError(w, "неверный формат запроса", http.StatusBadRequest)
		return
	}

	result, err := h.ResponseService.EditResponse(ctx, responseUUID, body.Changes, claims.Actor())
	if err != nil {
		handleResponseServiceError(w, err)
		return
	}
	if len(result.Errors) > 0 {
		util.HandleFieldErrors(w, result.Errors)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// DeleteResponse : DELETE /api/responses/{response_id}
func (h *ResponseHandler) DeleteResponse(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	responseUUID := chi.URLParam(r, "response_id")
	claims, err := security.GetClaimsFromContext(ctx)
	if err != nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	var body requestresponse.DeleteResponseRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		util.HandleError(w, "неверный формат запроса", http.StatusBadRequest)
		return
	}

	result, err := h.ResponseService.DeleteResponse(ctx, responseUUID, body.Confirmation, claims.Actor())
	if err != nil {
		handleResponseServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// IssueToken : POST /api/responses/{response_id}/token
func (h *ResponseHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	responseUUID := chi.URLParam(r, "response_id")

	token, err := h.ResponseService.IssueToken(ctx, responseUUID)
	if err != nil {
		handleResponseServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, requestresponse.IssueTokenResponse{
		Token:    token.Token,
		ExpireAt: token.ExpireAt.Format(time.RFC3339),
	})
}

// GetResponseByToken : GET /api/token/{token}, без авторизации.
// Токен одноразовый, повторный вызов вернёт 404.
func (h *ResponseHandler) GetResponseByToken(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	tokenValue := chi.URLParam(r, "token")

	response, getURL, err := h.ResponseService.GetResponseByToken(ctx, tokenValue)
	if err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			util.HandleError(w, "токен не найден", http.StatusNotFound)
			return
		}
		handleResponseServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, requestresponse.ResponseViewFromModel(response, getURL))
}

func (h *ResponseHandler) monitorUpload(requestID string, uploader *util.S3Uploader) {
	if err := uploader.Wait(); err != nil {
		log.Printf("[ResponseHandler] ошибка загрузки файлов запроса %s: %v", requestID, err)
		return
	}
	log.Printf("[ResponseHandler] файлы запроса %s успешно загружены", requestID)
}

// saveTempFile : сохраняет файл во временную директорию перед заливкой в S3
func saveTempFile(data []byte, filename string) (string, error) {
	uploadDir := filepath.Join(os.TempDir(), "uploads")
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		return "", fmt.Errorf("ошибка создания директории: %w", err)
	}

	uniqueName := fmt.Sprintf("%d_%s", time.Now().UnixNano(), filename)
	tmpFile := filepath.Join(uploadDir, uniqueName)

	if err := os.WriteFile(tmpFile, data, 0644); err != nil {
		return "", fmt.Errorf("ошибка записи файла: %w", err)
	}

	return tmpFile, nil
}

// handleResponseServiceError : переводит ошибки сервисного слоя в HTTP-статусы
func handleResponseServiceError(w http.ResponseWriter, err error) {
	log.Println(err)
	switch {
	case errors.Is(err, service.ErrForbidden):
		util.HandleError(w, "недостаточно прав", http.StatusForbidden)
	case errors.Is(err, repository.ErrRequestNotFound),
		errors.Is(err, repository.ErrResponseNotFound),
		errors.Is(err, repository.ErrTokenNotFound),
		errors.Is(err, repository.ErrUserRequestNotFound):
		util.HandleError(w, "запись не найдена", http.StatusNotFound)
	case errors.Is(err, repository.ErrDuplicateUserRequest):
		util.HandleError(w, "пользователь уже привязан к запросу", http.StatusConflict)
	default:
		util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}
