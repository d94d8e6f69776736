package repository

import "errors"

// Именованные ошибки состояния: вызывающий различает их через errors.Is
// и показывает пользователю конкретную причину. Ни одна из них не
// сопровождается частичной мутацией.
var (
	// ErrDuplicateUserRequest : запись UserRequest для пары (user, request) уже существует
	ErrDuplicateUserRequest = errors.New("запись UserRequest уже существует")

	// ErrUserRequestNotFound : записи UserRequest для пары (user, request) нет
	ErrUserRequestNotFound = errors.New("запись UserRequest не найдена")

	// ErrRequestNotFound : запрос FOIL не найден
	ErrRequestNotFound = errors.New("запрос не найден")

	// ErrResponseNotFound : ответ не найден или помечен удалённым
	ErrResponseNotFound = errors.New("ответ не найден")

	// ErrTokenNotFound : токен отсутствует, истёк или уже использован
	ErrTokenNotFound = errors.New("токен доступа не найден")

	// ErrEventPersistence : не удалось записать событие аудита; фатально,
	// прерывает объемлющую транзакцию
	ErrEventPersistence = errors.New("ошибка записи события аудита")

	// ErrSearchUnavailable : поисковый индекс недоступен; отличается
	// от пустого результата
	ErrSearchUnavailable = errors.New("поиск временно недоступен")
)
