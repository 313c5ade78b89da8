package trash

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pawnshop/backend/internal/domain/shared"
)

// ItemType identifies which aggregate a trash item holds
type ItemType string

const (
	ItemTypeLoan     ItemType = "loan"
	ItemTypeVoucher  ItemType = "voucher"
	ItemTypeCustomer ItemType = "customer"
)

// IsValid checks if the item type is a known value
func (t ItemType) IsValid() bool {
	switch t {
	case ItemTypeLoan, ItemTypeVoucher, ItemTypeCustomer:
		return true
	}
	return false
}

// Payload is the serialized aggregate stored with a trash item
type Payload json.RawMessage

// Value implements driver.Valuer for JSONB storage
func (p Payload) Value() (driver.Value, error) {
	if len(p) == 0 {
		return "{}", nil
	}
	return string(p), nil
}

// Scan implements sql.Scanner for JSONB retrieval
func (p *Payload) Scan(value any) error {
	if value == nil {
		*p = Payload("{}")
		return nil
	}
	switch v := value.(type) {
	case []byte:
		*p = Payload(append([]byte(nil), v...))
	case string:
		*p = Payload(v)
	default:
		return fmt.Errorf("cannot scan %T into Payload", value)
	}
	return nil
}

// MarshalJSON implements json.Marshaler
func (p Payload) MarshalJSON() ([]byte, error) {
	if len(p) == 0 {
		return []byte("{}"), nil
	}
	return p, nil
}

// UnmarshalJSON implements json.Unmarshaler
func (p *Payload) UnmarshalJSON(data []byte) error {
	*p = Payload(append([]byte(nil), data...))
	return nil
}

// Item is a soft-deleted aggregate parked in the trash bin
type Item struct {
	shared.BaseEntity
	ItemType  ItemType
	SourceID  uuid.UUID // ID of the deleted aggregate
	Reference string    // business-facing number (bill no, loan no, customer ref)
	Label     string    // human-readable summary, usually the customer name
	Data      Payload
	DeletedAt time.Time
	DeletedBy string
}

// NewItem parks a serialized aggregate in the trash
func NewItem(itemType ItemType, sourceID uuid.UUID, reference, label string, data any, deletedBy string, now time.Time) (*Item, error) {
	if !itemType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Unknown trash item type %q", itemType))
	}
	if sourceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Source ID cannot be empty")
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize trash payload: %w", err)
	}

	return &Item{
		BaseEntity: shared.NewBaseEntity(),
		ItemType:   itemType,
		SourceID:   sourceID,
		Reference:  reference,
		Label:      label,
		Data:       Payload(raw),
		DeletedAt:  now,
		DeletedBy:  deletedBy,
	}, nil
}

// Decode unmarshals the stored payload into the given aggregate
func (i *Item) Decode(target any) error {
	if err := json.Unmarshal([]byte(i.Data), target); err != nil {
		return fmt.Errorf("failed to decode %s trash payload: %w", i.ItemType, err)
	}
	return nil
}

// LogAction is the kind of trash audit entry
type LogAction string

const (
	LogActionRestore       LogAction = "restore"
	LogActionDelete        LogAction = "delete"
	LogActionRevertClosure LogAction = "revert_closure"
)

// LogEntry records a trash bin operation for audit
type LogEntry struct {
	shared.BaseEntity
	Action      LogAction
	ItemType    ItemType
	SourceID    uuid.UUID
	Reference   string
	Details     string
	PerformedBy string
	PerformedAt time.Time
}

// NewLogEntry records one audit entry
func NewLogEntry(action LogAction, itemType ItemType, sourceID uuid.UUID, reference, details, performedBy string, now time.Time) *LogEntry {
	return &LogEntry{
		BaseEntity:  shared.NewBaseEntity(),
		Action:      action,
		ItemType:    itemType,
		SourceID:    sourceID,
		Reference:   reference,
		Details:     details,
		PerformedBy: performedBy,
		PerformedAt: now,
	}
}

// Repository is the persistence port for the trash bin
type Repository interface {
	Create(ctx context.Context, item *Item) error
	FindByID(ctx context.Context, id uuid.UUID) (*Item, error)
	FindAll(ctx context.Context, itemType *ItemType) ([]*Item, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteAll(ctx context.Context) (int64, error)
	AppendLog(ctx context.Context, entry *LogEntry) error
	FindLogs(ctx context.Context, limit int) ([]*LogEntry, error)
}
