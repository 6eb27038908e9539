// Package model はドメインモデルを定義する。
package model

// ItemName は救援物資の品目を表す。
type ItemName string

const (
	ItemFirstAidKit      ItemName = "first_aid_kit"
	ItemFireExtinguisher ItemName = "fire_extinguisher"
	ItemEmergencyBlanket ItemName = "emergency_blanket"
	ItemWaterBottles     ItemName = "water_bottles"
	ItemFoodRations      ItemName = "food_rations"
	ItemFlashlight       ItemName = "flashlight"
	ItemRadio            ItemName = "radio"
	ItemBatteries        ItemName = "batteries"
	ItemMedicalSupplies  ItemName = "medical_supplies"
	ItemRescueEquipment  ItemName = "rescue_equipment"
)

// ItemNames は定義済みの全品目。
var ItemNames = []ItemName{
	ItemFirstAidKit,
	ItemFireExtinguisher,
	ItemEmergencyBlanket,
	ItemWaterBottles,
	ItemFoodRations,
	ItemFlashlight,
	ItemRadio,
	ItemBatteries,
	ItemMedicalSupplies,
	ItemRescueEquipment,
}

// IsValid は品目が定義済みの値であるかを返す。
func (n ItemName) IsValid() bool {
	for _, name := range ItemNames {
		if n == name {
			return true
		}
	}
	return false
}

// InventoryItem は拠点ごとの救援物資の在庫を表す。
// Quantityは常に0以上。
type InventoryItem struct {
	ID             int64
	ItemName       ItemName
	Quantity       int
	CenterLocation string
}

// InventoryStats は在庫の集計情報を表す。
type InventoryStats struct {
	ByItem     map[ItemName]int
	ByLocation map[string]int
	LowStock   []InventoryItem
}
