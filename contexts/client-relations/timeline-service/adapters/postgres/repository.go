package postgresadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"crmhub/contexts/client-relations/timeline-service/domain/entities"
	"crmhub/contexts/client-relations/timeline-service/ports"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// AppendEvent implements the soft-idempotency rule: inside one transaction
// it loads the most recent event for (client, manager, type) and, when that
// event carries a byte-equal canonical payload, returns it instead of
// inserting. Older identical events never suppress an insert.
func (r *Repository) AppendEvent(ctx context.Context, event entities.Event) (entities.Event, error) {
	payload, err := entities.CanonicalPayload(event.Payload)
	if err != nil {
		return entities.Event{}, err
	}

	var stored eventModel
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var latest eventModel
		lookupErr := tx.
			Where("client_id = ? AND manager_id = ? AND event_type = ?",
				event.ClientID, event.ManagerID, string(event.Type)).
			Order("created_at DESC").
			First(&latest).
			Error
		switch {
		case lookupErr == nil:
			if bytes.Equal(canonicalStoredPayload(latest.EventData), payload) {
				stored = latest
				return nil
			}
		case errors.Is(lookupErr, gorm.ErrRecordNotFound):
		default:
			return lookupErr
		}

		stored = eventModel{
			EventID:   event.EventID,
			ClientID:  event.ClientID,
			ManagerID: event.ManagerID,
			EventType: string(event.Type),
			EventData: datatypes.JSON(payload),
			CreatedAt: event.CreatedAt.UTC(),
		}
		return tx.Create(&stored).Error
	})
	if err != nil {
		return entities.Event{}, err
	}
	return stored.toEntity()
}

func (r *Repository) ListEvents(ctx context.Context, query ports.EventListQuery) (int, []entities.EventWithManager, error) {
	base := func() *gorm.DB {
		tx := r.db.WithContext(ctx).Model(&eventModel{}).
			Where("client_id = ?", strings.TrimSpace(query.ClientID))
		if label := strings.TrimSpace(string(query.Type)); label != "" {
			tx = tx.Where("event_type = ?", label)
		}
		return tx
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return 0, nil, err
	}

	tx := base()
	if query.Pagination != nil {
		tx = tx.Offset(query.Pagination.Offset()).Limit(query.Pagination.PerPage)
	}

	var rows []eventModel
	if err := tx.Order("created_at DESC").Find(&rows).Error; err != nil {
		return 0, nil, err
	}
	if len(rows) == 0 {
		return int(total), []entities.EventWithManager{}, nil
	}

	managerIDs := make([]string, 0, len(rows))
	seen := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		if _, ok := seen[row.ManagerID]; ok {
			continue
		}
		seen[row.ManagerID] = struct{}{}
		managerIDs = append(managerIDs, row.ManagerID)
	}
	var managers []managerRow
	if err := r.db.WithContext(ctx).
		Where("manager_id IN ?", managerIDs).
		Find(&managers).
		Error; err != nil {
		return 0, nil, err
	}
	byID := make(map[string]managerRow, len(managers))
	for _, manager := range managers {
		byID[manager.ManagerID] = manager
	}

	items := make([]entities.EventWithManager, 0, len(rows))
	for _, row := range rows {
		event, err := row.toEntity()
		if err != nil {
			return 0, nil, err
		}
		manager := byID[row.ManagerID]
		items = append(items, entities.EventWithManager{
			Event:        event,
			ManagerName:  manager.Name,
			ManagerEmail: manager.Email,
		})
	}
	return int(total), items, nil
}

// canonicalStoredPayload re-marshals stored bytes so comparison does not
// depend on how a previous writer formatted the document.
func canonicalStoredPayload(data datatypes.JSON) []byte {
	if len(data) == 0 {
		data = datatypes.JSON("{}")
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return data
	}
	canonical, err := json.Marshal(doc)
	if err != nil {
		return data
	}
	return canonical
}

type eventModel struct {
	EventID   string         `gorm:"column:event_id;primaryKey"`
	ClientID  string         `gorm:"column:client_id"`
	ManagerID string         `gorm:"column:manager_id"`
	EventType string         `gorm:"column:event_type"`
	EventData datatypes.JSON `gorm:"column:event_data"`
	CreatedAt time.Time      `gorm:"column:created_at"`
}

func (eventModel) TableName() string {
	return "client_events"
}

func (m eventModel) toEntity() (entities.Event, error) {
	payload := map[string]any{}
	if len(m.EventData) > 0 {
		if err := json.Unmarshal(m.EventData, &payload); err != nil {
			return entities.Event{}, err
		}
	}
	return entities.Event{
		EventID:   m.EventID,
		ClientID:  m.ClientID,
		ManagerID: m.ManagerID,
		Type:      entities.EventType(m.EventType),
		Payload:   payload,
		CreatedAt: m.CreatedAt.UTC(),
	}, nil
}
