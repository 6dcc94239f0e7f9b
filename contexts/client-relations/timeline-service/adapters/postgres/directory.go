package postgresadapter

import (
	"context"
	"errors"
	"strings"
	"time"

	domainerrors "crmhub/contexts/client-relations/timeline-service/domain/errors"
	"crmhub/contexts/client-relations/timeline-service/ports"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Directory reads client and manager rows for correlation. The tables are
// owned by the client and manager services; this adapter only touches the
// narrow slice the timeline needs, plus the manager upsert the correlation
// flow requires.
type Directory struct {
	db *gorm.DB
}

func NewDirectory(db *gorm.DB) *Directory {
	return &Directory{db: db}
}

func (d *Directory) FindClientByEmail(ctx context.Context, hubID int, email string) (ports.ClientRef, error) {
	var row clientRow
	err := d.db.WithContext(ctx).
		Where("hub_id = ? AND email = ?", hubID, strings.ToLower(strings.TrimSpace(email))).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.ClientRef{}, domainerrors.ErrClientNotFound
		}
		return ports.ClientRef{}, err
	}
	return row.toRef(), nil
}

func (d *Directory) FindClientByID(ctx context.Context, hubID int, clientID string) (ports.ClientRef, error) {
	var row clientRow
	err := d.db.WithContext(ctx).
		Where("client_id = ? AND hub_id = ?", strings.TrimSpace(clientID), hubID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.ClientRef{}, domainerrors.ErrClientNotFound
		}
		return ports.ClientRef{}, err
	}
	return row.toRef(), nil
}

func (d *Directory) IsClientAssignedToManager(ctx context.Context, clientID string, managerEmail string) (bool, error) {
	var count int64
	err := d.db.WithContext(ctx).
		Model(&assignmentRow{}).
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

// UpsertManager is the same atomic (hub_id, email) conflict statement the
// manager service issues: name overwritten, is_user OR-ed in.
func (d *Directory) UpsertManager(ctx context.Context, upsert ports.ManagerUpsert) (ports.ManagerRef, error) {
	now := time.Now().UTC()
	row := managerRow{
		ManagerID: uuid.NewString(),
		HubID:     upsert.HubID,
		Name:      strings.TrimSpace(upsert.Name),
		Email:     strings.ToLower(strings.TrimSpace(upsert.Email)),
		IsUser:    upsert.IsUser,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := d.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "hub_id"}, {Name: "email"}},
		DoUpdates: clause.Assignments(map[string]any{
			"name":       row.Name,
			"is_user":    gorm.Expr("managers.is_user OR excluded.is_user"),
			"updated_at": now,
		}),
	}).Create(&row).Error
	if err != nil {
		return ports.ManagerRef{}, err
	}

	var stored managerRow
	if err := d.db.WithContext(ctx).
		Where("hub_id = ? AND email = ?", row.HubID, row.Email).
		First(&stored).
		Error; err != nil {
		return ports.ManagerRef{}, err
	}
	return stored.toRef(), nil
}

func (d *Directory) ListManagersForClient(ctx context.Context, clientID string) ([]ports.ManagerRef, error) {
	var rows []managerRow
	err := d.db.WithContext(ctx).
		Model(&managerRow{}).
		Joins("JOIN client_managers ON client_managers.manager_id = managers.manager_id").
		Where("client_managers.client_id = ?", strings.TrimSpace(clientID)).
		Order("managers.manager_id ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	refs := make([]ports.ManagerRef, 0, len(rows))
	for _, row := range rows {
		refs = append(refs, row.toRef())
	}
	return refs, nil
}

type clientRow struct {
	ClientID string `gorm:"column:client_id;primaryKey"`
	HubID    int    `gorm:"column:hub_id"`
	Name     string `gorm:"column:name"`
	Email    string `gorm:"column:email"`
}

func (clientRow) TableName() string {
	return "clients"
}

func (r clientRow) toRef() ports.ClientRef {
	return ports.ClientRef{
		ClientID: r.ClientID,
		HubID:    r.HubID,
		Name:     r.Name,
		Email:    r.Email,
	}
}

type managerRow struct {
	ManagerID string    `gorm:"column:manager_id;primaryKey"`
	HubID     int       `gorm:"column:hub_id"`
	Name      string    `gorm:"column:name"`
	Email     string    `gorm:"column:email"`
	IsUser    bool      `gorm:"column:is_user"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (managerRow) TableName() string {
	return "managers"
}

func (r managerRow) toRef() ports.ManagerRef {
	return ports.ManagerRef{
		ManagerID: r.ManagerID,
		HubID:     r.HubID,
		Name:      r.Name,
		Email:     r.Email,
	}
}

type assignmentRow struct {
	ClientID  string `gorm:"column:client_id;primaryKey"`
	ManagerID string `gorm:"column:manager_id;primaryKey"`
}

func (assignmentRow) TableName() string {
	return "client_managers"
}
