package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// События жизненного цикла записей.
const (
	EventCreationCreated = "creation.created"
	EventCreationLiked   = "creation.liked"
	EventCreationUnliked = "creation.unliked"
)

// CreationEventPayload - полезная нагрузка события для внешних консьюмеров
// (аналитика, нотификации).
type CreationEventPayload struct {
	Event      string    `json:"event"`
	CreationID string    `json:"creation_id"`
	UserID     string    `json:"user_id"`
	Type       string    `json:"type,omitempty"`
	Publish    bool      `json:"publish,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// CreationEventPublisher defines the interface for publishing creation lifecycle events.
//
//go:generate mockery --name CreationEventPublisher --output ../mocks --outpkg mocks --case=underscore
type CreationEventPublisher interface {
	PublishCreationEvent(ctx context.Context, payload CreationEventPayload) error
}

// rabbitMQPublisher implements the CreationEventPublisher interface for RabbitMQ.
type rabbitMQPublisher struct {
	channel   *amqp.Channel
	queueName string
}

// Compile-time check
var _ CreationEventPublisher = (*rabbitMQPublisher)(nil)

// NewRabbitMQCreationEventPublisher creates a new instance of CreationEventPublisher.
func NewRabbitMQCreationEventPublisher(conn *amqp.Connection, queueName string) (CreationEventPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("creation event publisher: не удалось открыть канал: %w", err)
	}
	// Паблишер объявляет очередь сам, чтобы не зависеть от порядка запуска сервисов.
	// Важно, чтобы параметры очереди совпадали с теми, что у консьюмера!
	_, err = ch.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		log.Printf("CreationEventPublisher ERROR: Не удалось объявить очередь '%s': %v", queueName, err)
		ch.Close() // Закрываем канал при ошибке
		return nil, fmt.Errorf("creation event publisher: не удалось объявить очередь '%s': %w", queueName, err)
	}
	log.Printf("CreationEventPublisher: Очередь '%s' успешно объявлена/найдена.", queueName)
	// Канал не закрываем здесь, он должен управляться извне или при остановке приложения
	return &rabbitMQPublisher{channel: ch, queueName: queueName}, nil
}

// PublishCreationEvent publishes a creation lifecycle event.
func (p *rabbitMQPublisher) PublishCreationEvent(ctx context.Context, payload CreationEventPayload) error {
	if payload.OccurredAt.IsZero() {
		payload.OccurredAt = time.Now().UTC()
	}
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[Event: %s][CreationID: %s] Ошибка сериализации CreationEventPayload: %v", payload.Event, payload.CreationID, err)
		return fmt.Errorf("ошибка сериализации события %s: %w", payload.Event, err)
	}

	if err := p.publishMessage(ctx, body); err != nil {
		log.Printf("[Event: %s][CreationID: %s] Ошибка публикации события: %v", payload.Event, payload.CreationID, err)
		return fmt.Errorf("ошибка публикации события %s: %w", payload.Event, err)
	}
	return nil
}

// publishMessage is a helper method for publishing a message.
func (p *rabbitMQPublisher) publishMessage(ctx context.Context, body []byte) error {
	if p.channel == nil {
		log.Println("Ошибка публикации: канал RabbitMQ не инициализирован (nil)")
		return errors.New("канал RabbitMQ не инициализирован")
	}
	// Устанавливаем таймаут на публикацию
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var err error
	// Попытка публикации с retry до 3 раз
	for attempt := 1; attempt <= 3; attempt++ {
		err = p.channel.PublishWithContext(ctx,
			"",          // exchange (используем default)
			p.queueName, // routing key (имя очереди)
			false,       // mandatory
			false,       // immediate
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent,
				Body:         body,
				Timestamp:    time.Now(),
				AppId:        "creation-server", // Идентификатор отправителя
			},
		)
		if err == nil {
			break
		}
		log.Printf("Ошибка публикации (attempt %d) в очередь '%s': %v", attempt, p.queueName, err)
		time.Sleep(time.Duration(attempt) * 100 * time.Millisecond)
	}
	if err != nil {
		return fmt.Errorf("ошибка публикации в очередь %s после retries: %w", p.queueName, err)
	}
	log.Printf("Сообщение успешно опубликовано в очередь '%s'", p.queueName)
	return nil
}
