// Package inventory は救援物資在庫の管理機能を提供する。
package inventory

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/m-bouhaba/sos-ksar-el-kebir/internal/model"
	"github.com/m-bouhaba/sos-ksar-el-kebir/internal/repository"
	"github.com/m-bouhaba/sos-ksar-el-kebir/internal/security"
)

// defaultCenterLocation は初期データ投入時の拠点名。
const defaultCenterLocation = "中央備蓄倉庫"

// defaultSeedQuantity は初期データ投入時の各品目の数量。
const defaultSeedQuantity = 100

// Service は在庫品目のCRUDと数量調整のビジネスロジックを提供する。
type Service struct {
	inventoryRepo repository.InventoryRepository
	sanitizer     security.TextSanitizerService
}

// NewService はServiceを生成する。
func NewService(inventoryRepo repository.InventoryRepository, sanitizer security.TextSanitizerService) *Service {
	return &Service{
		inventoryRepo: inventoryRepo,
		sanitizer:     sanitizer,
	}
}

// CreateInput は在庫品目作成の入力。
type CreateInput struct {
	ItemName       string
	Quantity       int
	CenterLocation string
}

// Create は新しい在庫品目を作成する。
// 品目名が未知の場合や拠点名が空の場合はValidation、
// 数量が負の場合はNegativeQuantityエラーを返す。
func (s *Service) Create(ctx context.Context, input CreateInput) (*model.InventoryItem, error) {
	itemName := model.ItemName(input.ItemName)
	if !itemName.IsValid() {
		return nil, model.NewValidationError(fmt.Sprintf("未知の品目名です: %s", input.ItemName))
	}

	if input.Quantity < 0 {
		return nil, model.NewNegativeQuantityError()
	}

	location := s.sanitizer.Sanitize(input.CenterLocation)
	if location == "" {
		return nil, model.NewValidationError("拠点名は必須です")
	}

	item := &model.InventoryItem{
		ItemName:       itemName,
		Quantity:       input.Quantity,
		CenterLocation: location,
	}

	if err := s.inventoryRepo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create inventory item: %w", err)
	}

	slog.Info("inventory item created",
		slog.Int64("item_id", item.ID),
		slog.String("item_name", string(itemName)),
		slog.String("location", location),
	)

	return item, nil
}

// GetByID は指定IDの在庫品目を返す。存在しない場合はNotFoundを返す。
func (s *Service) GetByID(ctx context.Context, itemID int64) (*model.InventoryItem, error) {
	item, err := s.inventoryRepo.FindByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to find inventory item: %w", err)
	}
	if item == nil {
		return nil, model.NewItemNotFoundError(itemID)
	}
	return item, nil
}

// List は全在庫を拠点名・品目名順で返す。
func (s *Service) List(ctx context.Context) ([]*model.InventoryItem, error) {
	items, err := s.inventoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}
	return items, nil
}

// ListByLocation は指定拠点の在庫を品目名順で返す。
func (s *Service) ListByLocation(ctx context.Context, location string) ([]*model.InventoryItem, error) {
	location = s.sanitizer.Sanitize(location)
	if location == "" {
		return nil, model.NewValidationError("拠点名は必須です")
	}

	items, err := s.inventoryRepo.ListByLocation(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory by location: %w", err)
	}
	return items, nil
}

// SetQuantity は在庫数量を指定値に更新する。
// 負の値はNegativeQuantity、対象が存在しない場合はNotFoundを返す。
func (s *Service) SetQuantity(ctx context.Context, itemID int64, quantity int) error {
	if quantity < 0 {
		return model.NewNegativeQuantityError()
	}

	updated, err := s.inventoryRepo.UpdateQuantity(ctx, itemID, quantity)
	if err != nil {
		return fmt.Errorf("failed to update inventory quantity: %w", err)
	}
	if !updated {
		return model.NewItemNotFoundError(itemID)
	}

	slog.Info("inventory quantity updated",
		slog.Int64("item_id", itemID),
		slog.Int("quantity", quantity),
	)

	return nil
}

// Adjust は在庫数量を差分で調整する。払い出しは負のdeltaで表す。
// 調整後の数量が負になる場合はNegativeQuantityを返し、在庫は変更しない。
func (s *Service) Adjust(ctx context.Context, itemID int64, delta int) (*model.InventoryItem, error) {
	item, err := s.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	next := item.Quantity + delta
	if next < 0 {
		return nil, model.NewNegativeQuantityError()
	}

	if err := s.SetQuantity(ctx, itemID, next); err != nil {
		return nil, err
	}

	item.Quantity = next
	return item, nil
}

// Stats は在庫の集計情報を返す。
func (s *Service) Stats(ctx context.Context) (*model.InventoryStats, error) {
	stats, err := s.inventoryRepo.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate inventory stats: %w", err)
	}
	return stats, nil
}

// SeedDefaults は定義済みの全品目を既定数量で中央拠点に投入する。
// 既に在庫が存在する場合は何もしない。seedサブコマンドから呼び出される。
func (s *Service) SeedDefaults(ctx context.Context) error {
	existing, err := s.inventoryRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to check existing inventory: %w", err)
	}
	if len(existing) > 0 {
		slog.Info("inventory already seeded", slog.Int("items", len(existing)))
		return nil
	}

	for _, name := range model.ItemNames {
		item := &model.InventoryItem{
			ItemName:       name,
			Quantity:       defaultSeedQuantity,
			CenterLocation: defaultCenterLocation,
		}
		if err := s.inventoryRepo.Create(ctx, item); err != nil {
			return fmt.Errorf("failed to seed inventory item %s: %w", name, err)
		}
	}

	slog.Info("inventory seeded",
		slog.Int("items", len(model.ItemNames)),
		slog.String("location", defaultCenterLocation),
	)

	return nil
}
