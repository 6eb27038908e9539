package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/m-bouhaba/sos-ksar-el-kebir/internal/model"
)

// lowStockThreshold は在庫不足と判定する数量の閾値。
const lowStockThreshold = 10

// PostgresInventoryRepo はPostgreSQLを使用した救援物資在庫リポジトリ。
type PostgresInventoryRepo struct {
	db *sql.DB
}

// NewPostgresInventoryRepo はPostgresInventoryRepoを生成する。
func NewPostgresInventoryRepo(db *sql.DB) *PostgresInventoryRepo {
	return &PostgresInventoryRepo{db: db}
}

// Create は在庫品目を作成する。作成されたIDをitem.IDに書き戻す。
func (r *PostgresInventoryRepo) Create(ctx context.Context, item *model.InventoryItem) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO inventory (item_name, quantity, center_location)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		item.ItemName, item.Quantity, item.CenterLocation,
	).Scan(&item.ID)
	if err != nil {
		return fmt.Errorf("failed to insert inventory item: %w", err)
	}
	return nil
}

// FindByID は指定IDの在庫品目を取得する。見つからない場合はnilを返す。
func (r *PostgresInventoryRepo) FindByID(ctx context.Context, id int64) (*model.InventoryItem, error) {
	item := &model.InventoryItem{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, item_name, quantity, center_location FROM inventory WHERE id = $1`,
		id,
	).Scan(&item.ID, &item.ItemName, &item.Quantity, &item.CenterLocation)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find inventory item: %w", err)
	}

	return item, nil
}

// List は全在庫を拠点名・品目名順で返す。
func (r *PostgresInventoryRepo) List(ctx context.Context) ([]*model.InventoryItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, item_name, quantity, center_location
		 FROM inventory
		 ORDER BY center_location, item_name`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}
	defer rows.Close()

	return scanInventoryRows(rows)
}

// ListByLocation は指定拠点の在庫を品目名順で返す。
func (r *PostgresInventoryRepo) ListByLocation(ctx context.Context, location string) ([]*model.InventoryItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, item_name, quantity, center_location
		 FROM inventory
		 WHERE center_location = $1
		 ORDER BY item_name`,
		location,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory by location: %w", err)
	}
	defer rows.Close()

	return scanInventoryRows(rows)
}

// UpdateQuantity は在庫数量を更新する。対象が存在しない場合はfalseを返す。
func (r *PostgresInventoryRepo) UpdateQuantity(ctx context.Context, id int64, quantity int) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE inventory SET quantity = $1 WHERE id = $2`,
		quantity, id,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update inventory quantity: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

// Stats は在庫の集計情報を返す。
func (r *PostgresInventoryRepo) Stats(ctx context.Context) (*model.InventoryStats, error) {
	stats := &model.InventoryStats{
		ByItem:     make(map[model.ItemName]int),
		ByLocation: make(map[string]int),
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT item_name, SUM(quantity) FROM inventory GROUP BY item_name`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to sum inventory by item: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var name model.ItemName
		var total int
		if err := rows.Scan(&name, &total); err != nil {
			return nil, fmt.Errorf("failed to scan item total: %w", err)
		}
		stats.ByItem[name] = total
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate item totals: %w", err)
	}

	locRows, err := r.db.QueryContext(ctx,
		`SELECT center_location, SUM(quantity) FROM inventory GROUP BY center_location`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to sum inventory by location: %w", err)
	}
	defer locRows.Close()
	for locRows.Next() {
		var location string
		var total int
		if err := locRows.Scan(&location, &total); err != nil {
			return nil, fmt.Errorf("failed to scan location total: %w", err)
		}
		stats.ByLocation[location] = total
	}
	if err := locRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate location totals: %w", err)
	}

	lowRows, err := r.db.QueryContext(ctx,
		`SELECT id, item_name, quantity, center_location
		 FROM inventory
		 WHERE quantity < $1
		 ORDER BY item_name`,
		lowStockThreshold,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list low stock items: %w", err)
	}
	defer lowRows.Close()
	lowItems, err := scanInventoryRows(lowRows)
	if err != nil {
		return nil, err
	}
	for _, item := range lowItems {
		stats.LowStock = append(stats.LowStock, *item)
	}

	return stats, nil
}

// scanInventoryRows は在庫行の走査を共通化する。
func scanInventoryRows(rows *sql.Rows) ([]*model.InventoryItem, error) {
	var items []*model.InventoryItem
	for rows.Next() {
		item := &model.InventoryItem{}
		if err := rows.Scan(&item.ID, &item.ItemName, &item.Quantity, &item.CenterLocation); err != nil {
			return nil, fmt.Errorf("failed to scan inventory item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate inventory items: %w", err)
	}
	return items, nil
}

// compile-time interface check
var _ InventoryRepository = (*PostgresInventoryRepo)(nil)
