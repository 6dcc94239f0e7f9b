package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"crmhub/contexts/client-relations/manager-service/domain/entities"
	domainerrors "crmhub/contexts/client-relations/manager-service/domain/errors"
	"crmhub/contexts/client-relations/manager-service/ports"

	"github.com/google/uuid"
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

func (r *Repository) FindManagerByID(ctx context.Context, hubID int, managerID string) (entities.Manager, error) {
	var row managerModel
	err := r.db.WithContext(ctx).
		Where("manager_id = ? AND hub_id = ?", strings.TrimSpace(managerID), hubID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Manager{}, domainerrors.ErrManagerNotFound
		}
		return entities.Manager{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) FindManagerByEmail(ctx context.Context, hubID int, email string) (entities.Manager, error) {
	var row managerModel
	err := r.db.WithContext(ctx).
		Where("hub_id = ? AND email = ?", hubID, strings.ToLower(strings.TrimSpace(email))).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Manager{}, domainerrors.ErrManagerNotFound
		}
		return entities.Manager{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListManagersForClient(ctx context.Context, clientID string) ([]entities.Manager, error) {
	var rows []managerModel
	err := r.db.WithContext(ctx).
		Model(&managerModel{}).
		Joins("JOIN client_managers ON client_managers.manager_id = managers.manager_id").
		Where("client_managers.client_id = ?", strings.TrimSpace(clientID)).
		Order("managers.manager_id ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	managers := make([]entities.Manager, 0, len(rows))
	for _, row := range rows {
		managers = append(managers, row.toEntity())
	}
	return managers, nil
}

func (r *Repository) IsClientAssignedToManager(ctx context.Context, clientID string, managerEmail string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&assignmentModel{}).
		Joins("JOIN managers ON managers.manager_id = client_managers.manager_id").
		Where("client_managers.client_id = ?", strings.TrimSpace(clientID)).
		Where("managers.email = ?", strings.ToLower(strings.TrimSpace(managerEmail))).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) ListManagersWithClients(ctx context.Context, hubID int) ([]ports.ManagerWithClients, error) {
	var rows []managerModel
	err := r.db.WithContext(ctx).
		Where("hub_id = ?", hubID).
		Order("manager_id ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []ports.ManagerWithClients{}, nil
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ManagerID)
	}
	var assignments []assignmentModel
	if err := r.db.WithContext(ctx).
		Where("manager_id IN ?", ids).
		Order("client_id ASC").
		Find(&assignments).
		Error; err != nil {
		return nil, err
	}
	grouped := make(map[string][]string, len(rows))
	for _, assignment := range assignments {
		grouped[assignment.ManagerID] = append(grouped[assignment.ManagerID], assignment.ClientID)
	}

	out := make([]ports.ManagerWithClients, 0, len(rows))
	for _, row := range rows {
		out = append(out, ports.ManagerWithClients{
			Manager:   row.toEntity(),
			ClientIDs: grouped[row.ManagerID],
		})
	}
	return out, nil
}

// UpsertManager is a single atomic statement: insert, or on (hub_id, email)
// conflict overwrite the name and OR the is_user flag so a promoted manager
// never loses user status to a later worker upsert.
func (r *Repository) UpsertManager(ctx context.Context, manager entities.NewManager) (entities.Manager, error) {
	now := time.Now().UTC()
	row := managerModel{
		ManagerID: uuid.NewString(),
		HubID:     manager.HubID,
		Name:      strings.TrimSpace(manager.Name),
		Email:     strings.ToLower(strings.TrimSpace(manager.Email)),
		IsUser:    manager.IsUser,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "hub_id"}, {Name: "email"}},
		DoUpdates: clause.Assignments(map[string]any{
			"name":       row.Name,
			"is_user":    gorm.Expr("managers.is_user OR excluded.is_user"),
			"updated_at": now,
		}),
	}).Create(&row).Error
	if err != nil {
		return entities.Manager{}, err
	}

	// Re-read: on conflict the generated id above never hit the table.
	var stored managerModel
	if err := r.db.WithContext(ctx).
		Where("hub_id = ? AND email = ?", row.HubID, row.Email).
		First(&stored).
		Error; err != nil {
		return entities.Manager{}, err
	}
	return stored.toEntity(), nil
}

func (r *Repository) AssignClients(ctx context.Context, managerID string, clientIDs []string) error {
	managerID = strings.TrimSpace(managerID)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("manager_id = ?", managerID).Delete(&assignmentModel{}).Error; err != nil {
			return err
		}
		for _, clientID := range clientIDs {
			row := assignmentModel{ClientID: clientID, ManagerID: managerID}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *Repository) DeleteManager(ctx context.Context, managerID string) error {
	managerID = strings.TrimSpace(managerID)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("manager_id = ?", managerID).Delete(&assignmentModel{}).Error; err != nil {
			return err
		}
		result := tx.Where("manager_id = ?", managerID).Delete(&managerModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrManagerNotFound
		}
		return nil
	})
}

type managerModel struct {
	ManagerID string    `gorm:"column:manager_id;primaryKey"`
	HubID     int       `gorm:"column:hub_id"`
	Name      string    `gorm:"column:name"`
	Email     string    `gorm:"column:email"`
	IsUser    bool      `gorm:"column:is_user"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (managerModel) TableName() string {
	return "managers"
}

func (m managerModel) toEntity() entities.Manager {
	return entities.Manager{
		ManagerID: m.ManagerID,
		HubID:     m.HubID,
		Name:      m.Name,
		Email:     m.Email,
		IsUser:    m.IsUser,
		CreatedAt: m.CreatedAt.UTC(),
		UpdatedAt: m.UpdatedAt.UTC(),
	}
}

type assignmentModel struct {
	ClientID  string `gorm:"column:client_id;primaryKey"`
	ManagerID string `gorm:"column:manager_id;primaryKey"`
}

func (assignmentModel) TableName() string {
	return "client_managers"
}
