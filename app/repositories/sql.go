package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/inkwell/app/models"
	"github.com/shashiranjanraj/inkwell/pkg/metrics"
)

const newestFirst = "created_at desc, id desc"

// NewSQLStore serves every repository from db. driver labels store metrics.
func NewSQLStore(db *gorm.DB, driver string) *Store {
	base := sqlBase{db: db, driver: driver}
	return &Store{
		Driver:    driver,
		Accounts:  &sqlAccounts{base},
		Books:     &sqlBooks{base},
		Addresses: &sqlAddresses{base},
		Orders:    &sqlOrders{base},
		migrate: func(ctx context.Context) error {
			return db.WithContext(ctx).AutoMigrate(
				&models.Account{},
				&models.Book{},
				&models.Address{},
				&models.Order{},
			)
		},
	}
}

type sqlBase struct {
	db     *gorm.DB
	driver string
}

func (b sqlBase) q(ctx context.Context) *gorm.DB { return b.db.WithContext(ctx) }

func (b sqlBase) observe(op string) func() {
	start := time.Now()
	return func() { metrics.ObserveStore(b.driver, op, start) }
}

// sqlErr maps gorm errors onto the package sentinels.
func sqlErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey),
		strings.Contains(strings.ToLower(err.Error()), "unique constraint"),
		strings.Contains(strings.ToLower(err.Error()), "duplicate"):
		return fmt.Errorf("%s: %w", op, ErrDuplicate)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

// ─── Accounts ─────────────────────────────────────────────────────────────────

type sqlAccounts struct{ sqlBase }

func (r *sqlAccounts) Create(ctx context.Context, a *models.Account) error {
	defer r.observe("accounts.create")()
	if a.ID == "" {
		a.ID = newID()
	}
	return sqlErr("accounts.create", r.q(ctx).Create(a).Error)
}

func (r *sqlAccounts) FindByID(ctx context.Context, id string) (*models.Account, error) {
	defer r.observe("accounts.find")()
	var a models.Account
	if err := r.q(ctx).Where("id = ?", id).First(&a).Error; err != nil {
		return nil, sqlErr("accounts.find", err)
	}
	return &a, nil
}

func (r *sqlAccounts) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	defer r.observe("accounts.find_email")()
	var a models.Account
	if err := r.q(ctx).Where("email = ?", email).First(&a).Error; err != nil {
		return nil, sqlErr("accounts.find_email", err)
	}
	return &a, nil
}

func (r *sqlAccounts) FindByIDs(ctx context.Context, ids []string) (map[string]*models.Account, error) {
	defer r.observe("accounts.find_many")()
	out := map[string]*models.Account{}
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return out, nil
	}
	var list []models.Account
	if err := r.q(ctx).Where("id IN ?", ids).Find(&list).Error; err != nil {
		return nil, sqlErr("accounts.find_many", err)
	}
	for i := range list {
		out[list[i].ID] = &list[i]
	}
	return out, nil
}

// ─── Books ────────────────────────────────────────────────────────────────────

type sqlBooks struct{ sqlBase }

func (r *sqlBooks) Create(ctx context.Context, b *models.Book) error {
	defer r.observe("books.create")()
	if b.ID == "" {
		b.ID = newID()
	}
	return sqlErr("books.create", r.q(ctx).Create(b).Error)
}

func (r *sqlBooks) All(ctx context.Context) ([]models.Book, error) {
	defer r.observe("books.all")()
	books := []models.Book{}
	if err := r.q(ctx).Order(newestFirst).Find(&books).Error; err != nil {
		return nil, sqlErr("books.all", err)
	}
	return books, nil
}

func (r *sqlBooks) FindByID(ctx context.Context, id string) (*models.Book, error) {
	defer r.observe("books.find")()
	var b models.Book
	if err := r.q(ctx).Where("id = ?", id).First(&b).Error; err != nil {
		return nil, sqlErr("books.find", err)
	}
	return &b, nil
}

func (r *sqlBooks) FindByIDs(ctx context.Context, ids []string) (map[string]*models.Book, error) {
	defer r.observe("books.find_many")()
	out := map[string]*models.Book{}
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return out, nil
	}
	var list []models.Book
	if err := r.q(ctx).Where("id IN ?", ids).Find(&list).Error; err != nil {
		return nil, sqlErr("books.find_many", err)
	}
	for i := range list {
		out[list[i].ID] = &list[i]
	}
	return out, nil
}

func (r *sqlBooks) Update(ctx context.Context, b *models.Book) error {
	defer r.observe("books.update")()
	res := r.q(ctx).Model(&models.Book{}).Where("id = ?", b.ID).Updates(map[string]interface{}{
		"title":       b.Title,
		"author":      b.Author,
		"price":       b.Price,
		"category":    b.Category,
		"cover_image": b.CoverImage,
		"updated_at":  time.Now(),
	})
	if res.Error != nil {
		return sqlErr("books.update", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *sqlBooks) Delete(ctx context.Context, id string) error {
	defer r.observe("books.delete")()
	res := r.q(ctx).Where("id = ?", id).Delete(&models.Book{})
	if res.Error != nil {
		return sqlErr("books.delete", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *sqlBooks) Count(ctx context.Context) (int64, error) {
	defer r.observe("books.count")()
	var n int64
	err := r.q(ctx).Model(&models.Book{}).Count(&n).Error
	return n, sqlErr("books.count", err)
}

// ─── Addresses ────────────────────────────────────────────────────────────────

type sqlAddresses struct{ sqlBase }

func (r *sqlAddresses) Create(ctx context.Context, a *models.Address) error {
	defer r.observe("addresses.create")()
	if a.ID == "" {
		a.ID = newID()
	}
	return sqlErr("addresses.create", r.q(ctx).Create(a).Error)
}

func (r *sqlAddresses) ListByAccount(ctx context.Context, accountID string) ([]models.Address, error) {
	defer r.observe("addresses.list")()
	list := []models.Address{}
	err := r.q(ctx).Where("account_id = ?", accountID).Order("created_at asc, id asc").Find(&list).Error
	if err != nil {
		return nil, sqlErr("addresses.list", err)
	}
	return list, nil
}

func (r *sqlAddresses) CountByAccount(ctx context.Context, accountID string) (int64, error) {
	defer r.observe("addresses.count")()
	var n int64
	err := r.q(ctx).Model(&models.Address{}).Where("account_id = ?", accountID).Count(&n).Error
	return n, sqlErr("addresses.count", err)
}

func (r *sqlAddresses) FindOwned(ctx context.Context, id, accountID string) (*models.Address, error) {
	defer r.observe("addresses.find")()
	var a models.Address
	if err := r.q(ctx).Where("id = ? AND account_id = ?", id, accountID).First(&a).Error; err != nil {
		return nil, sqlErr("addresses.find", err)
	}
	return &a, nil
}

func (r *sqlAddresses) Update(ctx context.Context, a *models.Address) error {
	defer r.observe("addresses.update")()
	res := r.q(ctx).Model(&models.Address{}).
		Where("id = ? AND account_id = ?", a.ID, a.AccountID).
		Updates(map[string]interface{}{
			"name":       a.Name,
			"phone":      a.Phone,
			"street":     a.Street,
			"city":       a.City,
			"state":      a.State,
			"pincode":    a.Pincode,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return sqlErr("addresses.update", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *sqlAddresses) DeleteOwned(ctx context.Context, id, accountID string) error {
	defer r.observe("addresses.delete")()
	res := r.q(ctx).Where("id = ? AND account_id = ?", id, accountID).Delete(&models.Address{})
	if res.Error != nil {
		return sqlErr("addresses.delete", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ─── Orders ───────────────────────────────────────────────────────────────────

type sqlOrders struct{ sqlBase }

func (r *sqlOrders) Create(ctx context.Context, o *models.Order) error {
	defer r.observe("orders.create")()
	if o.ID == "" {
		o.ID = newID()
	}
	return sqlErr("orders.create", r.q(ctx).Create(o).Error)
}

func (r *sqlOrders) ListByAccount(ctx context.Context, accountID string) ([]models.Order, error) {
	defer r.observe("orders.list")()
	list := []models.Order{}
	if err := r.q(ctx).Where("account_id = ?", accountID).Order(newestFirst).Find(&list).Error; err != nil {
		return nil, sqlErr("orders.list", err)
	}
	return list, nil
}

func (r *sqlOrders) All(ctx context.Context) ([]models.Order, error) {
	defer r.observe("orders.all")()
	list := []models.Order{}
	if err := r.q(ctx).Order(newestFirst).Find(&list).Error; err != nil {
		return nil, sqlErr("orders.all", err)
	}
	return list, nil
}

func (r *sqlOrders) FindByID(ctx context.Context, id string) (*models.Order, error) {
	defer r.observe("orders.find")()
	var o models.Order
	if err := r.q(ctx).Where("id = ?", id).First(&o).Error; err != nil {
		return nil, sqlErr("orders.find", err)
	}
	return &o, nil
}

func (r *sqlOrders) TransitionStatus(ctx context.Context, id, from, to string) (*models.Order, error) {
	defer r.observe("orders.transition")()
	res := r.q(ctx).Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{"status": to, "updated_at": time.Now()})
	if res.Error != nil {
		return nil, sqlErr("orders.transition", res.Error)
	}

	o, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if res.RowsAffected == 0 {
		return o, ErrStale
	}
	return o, nil
}
