package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wms/backend/internal/domain/booking"
	"github.com/wms/backend/internal/domain/history"
)

// StockItemModel is the persistence model for a source stock item
type StockItemModel struct {
	BaseModel
	ArticleOld  string `gorm:"type:varchar(50);not null;uniqueIndex"`
	ArticleNew  string `gorm:"type:varchar(50);not null;index"`
	Description string `gorm:"type:varchar(255);not null"`
	Quantity    int64  `gorm:"not null;default:0"`
	SlotCodes   string `gorm:"type:varchar(255);not null;default:''"`
	BoxNumber   string `gorm:"type:varchar(50);index"`
	OrderNumber string `gorm:"type:varchar(50);index"`
}

// TableName returns the table name for GORM
func (StockItemModel) TableName() string {
	return "stock_items"
}

// ToDomain converts the persistence model to a domain Item
func (m *StockItemModel) ToDomain() *booking.Item {
	return &booking.Item{
		ID:          m.ID,
		ArticleOld:  m.ArticleOld,
		ArticleNew:  m.ArticleNew,
		Description: m.Description,
		Quantity:    m.Quantity,
		SlotCodes:   splitCodes(m.SlotCodes),
		BoxNumber:   m.BoxNumber,
		OrderNumber: m.OrderNumber,
		UpdatedAt:   m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain Item
func (m *StockItemModel) FromDomain(item *booking.Item) {
	m.ID = item.ID
	m.ArticleOld = item.ArticleOld
	m.ArticleNew = item.ArticleNew
	m.Description = item.Description
	m.Quantity = item.Quantity
	m.SlotCodes = joinCodes(item.SlotCodes)
	m.BoxNumber = item.BoxNumber
	m.OrderNumber = item.OrderNumber
}

// BookingModel is the persistence model for a committed booking
type BookingModel struct {
	BaseModel
	SourceItemID     uuid.UUID `gorm:"type:uuid;not null;index"`
	ArticleOld       string    `gorm:"type:varchar(50);not null;index"`
	ArticleNew       string    `gorm:"type:varchar(50);not null"`
	Description      string    `gorm:"type:varchar(255);not null"`
	Quantity         int64     `gorm:"not null"`
	TargetSlots      string    `gorm:"type:varchar(255);not null"`
	BoxNumber        string    `gorm:"type:varchar(50);index"`
	OrderNumber      string    `gorm:"type:varchar(50);index"`
	BookedAt         time.Time `gorm:"not null;index"`
	CorrectionType   *string   `gorm:"type:varchar(30)"`
	CorrectionReason *string   `gorm:"type:varchar(40)"`
	CorrectionAmount *int64
	CorrectionNote   *string `gorm:"type:varchar(255)"`
	OldQuantity      *int64
	NewQuantity      *int64
}

// TableName returns the table name for GORM
func (BookingModel) TableName() string {
	return "bookings"
}

// ToDomain converts the persistence model to a domain BookingItem
func (m *BookingModel) ToDomain() *booking.BookingItem {
	return &booking.BookingItem{
		ID:           m.ID,
		SourceItemID: m.SourceItemID,
		ArticleOld:   m.ArticleOld,
		ArticleNew:   m.ArticleNew,
		Description:  m.Description,
		Quantity:     m.Quantity,
		TargetSlots:  splitCodes(m.TargetSlots),
		BoxNumber:    m.BoxNumber,
		OrderNumber:  m.OrderNumber,
		BookedAt:     m.BookedAt,
		Correction:   correctionToDomain(m.CorrectionType, m.CorrectionReason, m.CorrectionAmount, m.CorrectionNote, m.OldQuantity, m.NewQuantity),
	}
}

// FromDomain populates the persistence model from a domain BookingItem
func (m *BookingModel) FromDomain(item *booking.BookingItem) {
	m.ID = item.ID
	m.SourceItemID = item.SourceItemID
	m.ArticleOld = item.ArticleOld
	m.ArticleNew = item.ArticleNew
	m.Description = item.Description
	m.Quantity = item.Quantity
	m.TargetSlots = joinCodes(item.TargetSlots)
	m.BoxNumber = item.BoxNumber
	m.OrderNumber = item.OrderNumber
	m.BookedAt = item.BookedAt
	m.CorrectionType, m.CorrectionReason, m.CorrectionAmount, m.CorrectionNote, m.OldQuantity, m.NewQuantity = correctionFromDomain(item.Correction)
}

// BookingModelFromDomain creates a new persistence model from a domain BookingItem
func BookingModelFromDomain(item *booking.BookingItem) *BookingModel {
	m := &BookingModel{}
	m.FromDomain(item)
	return m
}

// HistoryEntryModel is the persistence model for an audit trail entry
type HistoryEntryModel struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key"`
	RecordedAt       time.Time `gorm:"not null;index"`
	UserName         string    `gorm:"type:varchar(100);not null"`
	ArticleOld       string    `gorm:"type:varchar(50);not null;index"`
	ArticleNew       string    `gorm:"type:varchar(50);not null"`
	Description      string    `gorm:"type:varchar(255);not null"`
	Quantity         int64     `gorm:"not null"`
	SourceSlot       string    `gorm:"type:varchar(50)"`
	TargetSlot       string    `gorm:"type:varchar(255)"`
	BoxNumber        string    `gorm:"type:varchar(50);index"`
	OrderNumber      string    `gorm:"type:varchar(50);index"`
	CorrectionType   *string   `gorm:"type:varchar(30)"`
	CorrectionReason *string   `gorm:"type:varchar(40)"`
	CorrectionAmount *int64
	CorrectionNote   *string `gorm:"type:varchar(255)"`
	OldQuantity      *int64
	NewQuantity      *int64
}

// TableName returns the table name for GORM
func (HistoryEntryModel) TableName() string {
	return "history_entries"
}

// ToDomain converts the persistence model to a domain history Entry
func (m *HistoryEntryModel) ToDomain() *history.Entry {
	return &history.Entry{
		ID:          m.ID,
		RecordedAt:  m.RecordedAt,
		UserName:    m.UserName,
		ArticleOld:  m.ArticleOld,
		ArticleNew:  m.ArticleNew,
		Description: m.Description,
		Quantity:    m.Quantity,
		SourceSlot:  m.SourceSlot,
		TargetSlot:  m.TargetSlot,
		BoxNumber:   m.BoxNumber,
		OrderNumber: m.OrderNumber,
		Correction:  correctionToDomain(m.CorrectionType, m.CorrectionReason, m.CorrectionAmount, m.CorrectionNote, m.OldQuantity, m.NewQuantity),
	}
}

// HistoryEntryModelFromDomain creates a new persistence model from a domain Entry
func HistoryEntryModelFromDomain(entry *history.Entry) *HistoryEntryModel {
	m := &HistoryEntryModel{
		ID:          entry.ID,
		RecordedAt:  entry.RecordedAt,
		UserName:    entry.UserName,
		ArticleOld:  entry.ArticleOld,
		ArticleNew:  entry.ArticleNew,
		Description: entry.Description,
		Quantity:    entry.Quantity,
		SourceSlot:  entry.SourceSlot,
		TargetSlot:  entry.TargetSlot,
		BoxNumber:   entry.BoxNumber,
		OrderNumber: entry.OrderNumber,
	}
	m.CorrectionType, m.CorrectionReason, m.CorrectionAmount, m.CorrectionNote, m.OldQuantity, m.NewQuantity = correctionFromDomain(entry.Correction)
	return m
}

// ToleranceSettingsModel is the single-row persistence model for the
// reconciliation tolerance
type ToleranceSettingsModel struct {
	ID         int       `gorm:"primary_key"`
	Percentage int       `gorm:"not null;default:0"`
	UpdatedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ToleranceSettingsModel) TableName() string {
	return "tolerance_settings"
}

// BinTareModel is the persistence model for a registered bin tare weight
type BinTareModel struct {
	BaseModel
	BinCode    string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	TareWeight decimal.Decimal `gorm:"type:decimal(10,3);not null"`
}

// TableName returns the table name for GORM
func (BinTareModel) TableName() string {
	return "bin_tares"
}

// splitCodes turns the stored comma-joined code list back into a slice
func splitCodes(codes string) []string {
	if codes == "" {
		return nil
	}
	return strings.Split(codes, ",")
}

// joinCodes flattens a code list for storage
func joinCodes(codes []string) string {
	return strings.Join(codes, ",")
}

func correctionToDomain(corrType, reason *string, amount *int64, note *string, oldQty, newQty *int64) *booking.Correction {
	if corrType == nil || reason == nil || amount == nil {
		return nil
	}
	corr := &booking.Correction{
		Type:        booking.CorrectionType(*corrType),
		Reason:      booking.CorrectionReason(*reason),
		Amount:      *amount,
		OldQuantity: oldQty,
		NewQuantity: newQty,
	}
	if note != nil {
		corr.Note = *note
	}
	return corr
}

func correctionFromDomain(corr *booking.Correction) (corrType, reason *string, amount *int64, note *string, oldQty, newQty *int64) {
	if corr == nil {
		return nil, nil, nil, nil, nil, nil
	}
	t := string(corr.Type)
	r := string(corr.Reason)
	a := corr.Amount
	corrType, reason, amount = &t, &r, &a
	if corr.Note != "" {
		n := corr.Note
		note = &n
	}
	return corrType, reason, amount, note, corr.OldQuantity, corr.NewQuantity
}
