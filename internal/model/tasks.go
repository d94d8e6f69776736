package model

// Задачи второй фазы. Фаза 1 (мутация + аудит) транзакционна, фаза 2
// (письма, индекс) публикуется в очередь после коммита и никогда не
// влияет на результат фазы 1.

// NotificationTask : отложенная отправка одного письма. Содержимое
// рендерится потребителем очереди по template_id и контексту.
type NotificationTask struct {
	RequestID  string                 `json:"request_id"`
	TemplateID string                 `json:"template_id"`
	Context    map[string]interface{} `json:"context"`
	Subject    string                 `json:"subject"`
	Recipients []string               `json:"recipients"`
}

// Действия над поисковым индексом
const (
	IndexActionUpsert = "upsert"
	IndexActionDelete = "delete"
)

// IndexTask : отложенная синхронизация документа поискового индекса
type IndexTask struct {
	RequestID string `json:"request_id"`
	Action    string `json:"action"`
}
