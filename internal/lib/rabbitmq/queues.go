package rabbitmq

// ExchangeNotifications: обменник, через который идут все уведомления.
const ExchangeNotifications = "notifications"

// Очередь напоминаний об окончании пробного периода.
const (
	QueueTrialExpiring      = "notifications.trial_expiring"
	RoutingKeyTrialExpiring = "trial_expiring"
)

// QueueConfig связывает очередь с ключом маршрутизации, по которому она привязана к обменнику.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// NotificationQueues возвращает очереди, которые нужны планировщику и отправителю.
func NotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: QueueTrialExpiring, RoutingKey: RoutingKeyTrialExpiring},
	}
}
