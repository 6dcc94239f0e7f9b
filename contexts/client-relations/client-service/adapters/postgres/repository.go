package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"crmhub/contexts/client-relations/client-service/domain/entities"
	domainerrors "crmhub/contexts/client-relations/client-service/domain/errors"
	"crmhub/contexts/client-relations/client-service/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
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

func (r *Repository) FindClientByID(ctx context.Context, hubID int, clientID string) (entities.Client, error) {
	var row clientModel
	err := r.db.WithContext(ctx).
		Where("client_id = ? AND hub_id = ?", strings.TrimSpace(clientID), hubID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Client{}, domainerrors.ErrClientNotFound
		}
		return entities.Client{}, err
	}

	fields, err := r.loadFields(ctx, []string{row.ClientID})
	if err != nil {
		return entities.Client{}, err
	}
	client := row.toEntity()
	client.Fields = fields[row.ClientID]
	return client, nil
}

func (r *Repository) FindClientByEmail(ctx context.Context, hubID int, email string) (entities.Client, error) {
	var row clientModel
	err := r.db.WithContext(ctx).
		Where("hub_id = ? AND email = ?", hubID, strings.ToLower(strings.TrimSpace(email))).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Client{}, domainerrors.ErrClientNotFound
		}
		return entities.Client{}, err
	}
	return row.toEntity(), nil
}

// ListClients composes the hub predicate, the optional manager-assignment
// subquery and the optional full-text match, runs the count query first and
// re-runs with LIMIT/OFFSET. A page landing past the end yields an empty
// item list with the unchanged total.
func (r *Repository) ListClients(ctx context.Context, query ports.ClientListQuery) (int, []entities.Client, error) {
	base := func() *gorm.DB {
		tx := r.db.WithContext(ctx).Model(&clientModel{}).Where("hub_id = ?", query.HubID)
		if email := strings.TrimSpace(query.ManagerEmail); email != "" {
			tx = tx.Where("client_id IN (?)",
				r.db.Model(&assignmentRow{}).
					Select("client_managers.client_id").
					Joins("JOIN managers ON managers.manager_id = client_managers.manager_id").
					Where("managers.email = ? AND managers.hub_id = ?", strings.ToLower(email), query.HubID),
			)
		}
		if term := strings.TrimSpace(query.Search); term != "" {
			tx = tx.Where("search_vector @@ plainto_tsquery('simple', ?)", term)
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

	var rows []clientModel
	if err := tx.Order("client_id ASC").Find(&rows).Error; err != nil {
		return 0, nil, err
	}
	if len(rows) == 0 {
		return int(total), []entities.Client{}, nil
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ClientID)
	}
	fields, err := r.loadFields(ctx, ids)
	if err != nil {
		return 0, nil, err
	}

	items := make([]entities.Client, 0, len(rows))
	for _, row := range rows {
		client := row.toEntity()
		client.Fields = fields[row.ClientID]
		items = append(items, client)
	}
	return int(total), items, nil
}

func (r *Repository) ListAvailableFields(ctx context.Context, hubID int) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).
		Model(&clientFieldModel{}).
		Distinct("client_fields.field").
		Joins("JOIN clients ON clients.client_id = client_fields.client_id").
		Where("clients.hub_id = ?", hubID).
		Order("client_fields.field ASC").
		Pluck("client_fields.field", &names).
		Error
	if err != nil {
		return nil, err
	}
	return names, nil
}

func (r *Repository) IsClientAssignedToManager(ctx context.Context, clientID string, managerEmail string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&assignmentRow{}).
		Joins("JOIN managers ON managers.manager_id = client_managers.manager_id").
		Joins("JOIN clients ON clients.client_id = client_managers.client_id").
		Where("client_managers.client_id = ?", strings.TrimSpace(clientID)).
		Where("managers.email = ?", strings.ToLower(strings.TrimSpace(managerEmail))).
		Where("clients.hub_id = managers.hub_id").
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpsertClients inserts or updates each record by (hub_id, email) inside one
// transaction. On update, name/phone/address are overwritten while custom
// fields merge by key; empty field values never overwrite stored ones. A
// failure on one record is logged and skipped, the batch continues.
func (r *Repository) UpsertClients(ctx context.Context, items []entities.NewClient) (int, error) {
	written := 0
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		for _, item := range items {
			clientID, err := upsertClientTx(tx, item, now)
			if err != nil {
				r.logger.Warn("client upsert skipped",
					"event", "client_upsert_skipped",
					"module", "client-relations/client-service",
					"layer", "adapter",
					"hub_id", item.HubID,
					"error", err.Error(),
				)
				continue
			}
			if err := mergeClientFieldsTx(tx, clientID, item.Fields); err != nil {
				r.logger.Warn("client field merge skipped",
					"event", "client_field_merge_skipped",
					"module", "client-relations/client-service",
					"layer", "adapter",
					"client_id", clientID,
					"error", err.Error(),
				)
				continue
			}
			if err := refreshSearchTextTx(tx, clientID); err != nil {
				return err
			}
			written++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return written, nil
}

func (r *Repository) UpdateClient(ctx context.Context, clientID string, update entities.ClientUpdate) (entities.Client, error) {
	clientID = strings.TrimSpace(clientID)
	var row clientModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		values := map[string]any{
			"name":       strings.TrimSpace(update.Name),
			"phone":      strings.TrimSpace(update.Phone),
			"address":    strings.TrimSpace(update.Address),
			"updated_at": time.Now().UTC(),
		}
		if email := strings.TrimSpace(update.Email); email != "" {
			values["email"] = strings.ToLower(email)
		}
		result := tx.Model(&clientModel{}).Where("client_id = ?", clientID).Updates(values)
		if result.Error != nil {
			if isUniqueViolation(result.Error) {
				return domainerrors.ErrDuplicateEmail
			}
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrClientNotFound
		}

		if update.Fields != nil {
			if err := replaceClientFieldsTx(tx, clientID, update.Fields); err != nil {
				return err
			}
		}
		if err := refreshSearchTextTx(tx, clientID); err != nil {
			return err
		}
		return tx.Where("client_id = ?", clientID).First(&row).Error
	})
	if err != nil {
		return entities.Client{}, err
	}

	fields, err := r.loadFields(ctx, []string{clientID})
	if err != nil {
		return entities.Client{}, err
	}
	client := row.toEntity()
	client.Fields = fields[clientID]
	return client, nil
}

func (r *Repository) ReplaceClientFields(ctx context.Context, clientID string, fields map[string]string) error {
	clientID = strings.TrimSpace(clientID)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := replaceClientFieldsTx(tx, clientID, fields); err != nil {
			return err
		}
		return refreshSearchTextTx(tx, clientID)
	})
}

func (r *Repository) DeleteClient(ctx context.Context, clientID string) error {
	clientID = strings.TrimSpace(clientID)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("client_id = ?", clientID).Delete(&assignmentRow{}).Error; err != nil {
			return err
		}
		if err := tx.Where("client_id = ?", clientID).Delete(&clientFieldModel{}).Error; err != nil {
			return err
		}
		result := tx.Where("client_id = ?", clientID).Delete(&clientModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrClientNotFound
		}
		return nil
	})
}

func (r *Repository) loadFields(ctx context.Context, clientIDs []string) (map[string]map[string]string, error) {
	var rows []clientFieldModel
	if err := r.db.WithContext(ctx).
		Where("client_id IN ?", clientIDs).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	grouped := make(map[string]map[string]string, len(clientIDs))
	for _, row := range rows {
		if grouped[row.ClientID] == nil {
			grouped[row.ClientID] = make(map[string]string)
		}
		grouped[row.ClientID][row.Field] = row.Value
	}
	return grouped, nil
}

func upsertClientTx(tx *gorm.DB, item entities.NewClient, now time.Time) (string, error) {
	row := clientModel{
		ClientID:  uuid.NewString(),
		HubID:     item.HubID,
		Name:      strings.TrimSpace(item.Name),
		Email:     strings.ToLower(strings.TrimSpace(item.Email)),
		Phone:     strings.TrimSpace(item.Phone),
		Address:   strings.TrimSpace(item.Address),
		CreatedAt: now,
		UpdatedAt: now,
	}
	createResult := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "hub_id"}, {Name: "email"}},
		DoNothing: true,
	}).Create(&row)
	if createResult.Error != nil {
		return "", createResult.Error
	}
	if createResult.RowsAffected > 0 {
		return row.ClientID, nil
	}

	var existing clientModel
	if err := tx.Where("hub_id = ? AND email = ?", row.HubID, row.Email).First(&existing).Error; err != nil {
		return "", err
	}
	values := map[string]any{
		"name":       row.Name,
		"updated_at": now,
	}
	if row.Phone != "" {
		values["phone"] = row.Phone
	}
	if row.Address != "" {
		values["address"] = row.Address
	}
	if err := tx.Model(&clientModel{}).Where("client_id = ?", existing.ClientID).Updates(values).Error; err != nil {
		return "", err
	}
	return existing.ClientID, nil
}

func mergeClientFieldsTx(tx *gorm.DB, clientID string, fields map[string]string) error {
	for field, value := range fields {
		field = strings.TrimSpace(field)
		value = strings.TrimSpace(value)
		if field == "" || value == "" {
			continue
		}
		row := clientFieldModel{ClientID: clientID, Field: field, Value: value}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "client_id"}, {Name: "field"}},
			DoUpdates: clause.AssignmentColumns([]string{"value"}),
		}).Create(&row).Error; err != nil {
			return err
		}
	}
	return nil
}

func replaceClientFieldsTx(tx *gorm.DB, clientID string, fields map[string]string) error {
	if err := tx.Where("client_id = ?", clientID).Delete(&clientFieldModel{}).Error; err != nil {
		return err
	}
	for field, value := range fields {
		field = strings.TrimSpace(field)
		value = strings.TrimSpace(value)
		if field == "" || value == "" {
			continue
		}
		row := clientFieldModel{ClientID: clientID, Field: field, Value: value}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
	}
	return nil
}

// refreshSearchTextTx rebuilds the denormalized text column backing the
// full-text index after any write that may change it.
func refreshSearchTextTx(tx *gorm.DB, clientID string) error {
	return tx.Model(&clientModel{}).
		Where("client_id = ?", clientID).
		Update("search_text", gorm.Expr(
			`trim(concat_ws(' ', name, email, phone, address,
				(SELECT string_agg(value, ' ' ORDER BY field)
				 FROM client_fields WHERE client_fields.client_id = clients.client_id)))`,
		)).
		Error
}

type clientModel struct {
	ClientID   string    `gorm:"column:client_id;primaryKey"`
	HubID      int       `gorm:"column:hub_id"`
	Name       string    `gorm:"column:name"`
	Email      string    `gorm:"column:email"`
	Phone      string    `gorm:"column:phone"`
	Address    string    `gorm:"column:address"`
	SearchText string    `gorm:"column:search_text"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (clientModel) TableName() string {
	return "clients"
}

func (m clientModel) toEntity() entities.Client {
	return entities.Client{
		ClientID:  m.ClientID,
		HubID:     m.HubID,
		Name:      m.Name,
		Email:     m.Email,
		Phone:     m.Phone,
		Address:   m.Address,
		CreatedAt: m.CreatedAt.UTC(),
		UpdatedAt: m.UpdatedAt.UTC(),
	}
}

type clientFieldModel struct {
	ClientID string `gorm:"column:client_id;primaryKey"`
	Field    string `gorm:"column:field;primaryKey"`
	Value    string `gorm:"column:value"`
}

func (clientFieldModel) TableName() string {
	return "client_fields"
}

// assignmentRow mirrors the shared client_managers join table; the rows are
// owned by the manager service, this adapter only reads them for scoping.
type assignmentRow struct {
	ClientID  string `gorm:"column:client_id;primaryKey"`
	ManagerID string `gorm:"column:manager_id;primaryKey"`
}

func (assignmentRow) TableName() string {
	return "client_managers"
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
