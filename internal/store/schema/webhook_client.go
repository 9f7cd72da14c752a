package schema

import (
	"time"

	"gorm.io/datatypes"
)

// WebhookClient represents the webhook_clients table
type WebhookClient struct {
	// ID is the client's UUID
	ID string `gorm:"column:id;primaryKey;type:uuid"`
	// Name is a human readable label for the client
	Name string `gorm:"column:name;not null;type:text"`
	// URL is the delivery endpoint
	URL string `gorm:"column:url;not null;type:text"`
	// Secret is the shared HMAC signing key
	Secret string `gorm:"column:secret;not null;type:text"`
	// EventTypes filters delivery; empty means all events
	EventTypes datatypes.JSON `gorm:"column:event_types;type:jsonb"`
	// Active controls whether the client receives deliveries
	Active bool `gorm:"column:active;not null;default:true"`
	// CreatedAt is the registration time
	CreatedAt time.Time `gorm:"column:created_at;not null;type:timestamptz;default:now()"`
	// UpdatedAt is the last modification time
	UpdatedAt time.Time `gorm:"column:updated_at;not null;type:timestamptz;default:now()"`
}

// TableName specifies the table name for the WebhookClient model
func (WebhookClient) TableName() string {
	return "webhook_clients"
}
