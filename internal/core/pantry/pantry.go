// Package pantry 管理使用者的食材櫃，並持久化到儲存後端
package pantry

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"sync"

	"smartpantry/internal/core/ai/cache"
	"smartpantry/internal/pkg/common"

	"go.uber.org/zap"
)

const (
	// DefaultStorageKey 食材櫃的儲存鍵，不在 AI 快取命名空間內
	DefaultStorageKey = "smart_pantry"

	// DefaultCategory 新增食材的預設分類
	DefaultCategory = "Ingredient"
)

// quickItems 常用食材快速加入清單
var quickItems = []string{"Eggs", "Milk", "Bread", "Chicken", "Rice", "Onion", "Garlic", "Pasta"}

// inputPattern 解析「數量 名稱」格式，例如 "200g flour"
var inputPattern = regexp.MustCompile(`^(\d+\s*\w*)?\s*(.*)$`)

// Pantry 有序的食材清單
type Pantry struct {
	mu      sync.RWMutex
	items   []common.Ingredient
	backend cache.Backend
	key     string
}

// New 創建食材櫃；key 為空時使用 DefaultStorageKey
func New(backend cache.Backend, key string) *Pantry {
	if key == "" {
		key = DefaultStorageKey
	}
	return &Pantry{
		items:   []common.Ingredient{},
		backend: backend,
		key:     key,
	}
}

// Load 從後端載入食材櫃；不存在或內容無效時以空食材櫃開始
func (p *Pantry) Load(ctx context.Context) error {
	raw, err := p.backend.Get(ctx, p.key)
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return nil
		}
		return err
	}

	var items []common.Ingredient
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		common.LogWarn("食材櫃資料無效，以空食材櫃開始", zap.Error(err))
		return nil
	}
	if items == nil {
		items = []common.Ingredient{}
	}

	p.mu.Lock()
	p.items = items
	p.mu.Unlock()

	common.LogInfo("食材櫃已載入", zap.Int("數量", len(items)))
	return nil
}

// ParseInput 將自由文字解析為食材
func ParseInput(input string) common.Ingredient {
	var amount, name string
	if m := inputPattern.FindStringSubmatch(input); m != nil {
		amount = strings.TrimSpace(m[1])
		name = strings.TrimSpace(m[2])
	}
	if name == "" {
		name = input
	}

	return common.Ingredient{
		ID:       common.GenerateUUID(),
		Name:     name,
		Amount:   amount,
		Category: DefaultCategory,
	}
}

// Add 解析並加入一項食材
func (p *Pantry) Add(ctx context.Context, input string) (common.Ingredient, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return common.Ingredient{}, common.NewValidationError("ingredient input is required")
	}

	item := ParseInput(input)

	p.mu.Lock()
	defer p.mu.Unlock()

	p.items = append(p.items, item)
	p.saveLocked(ctx)
	return item, nil
}

// QuickAdd 一次加入多項食材，略過空白項目
func (p *Pantry) QuickAdd(ctx context.Context, inputs ...string) ([]common.Ingredient, error) {
	added := make([]common.Ingredient, 0, len(inputs))
	for _, input := range inputs {
		if input = strings.TrimSpace(input); input != "" {
			added = append(added, ParseInput(input))
		}
	}
	if len(added) == 0 {
		return nil, common.NewValidationError("at least one ingredient is required")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.items = append(p.items, added...)
	p.saveLocked(ctx)
	return added, nil
}

// QuickItems 常用食材清單
func QuickItems() []string {
	return append([]string(nil), quickItems...)
}

// Remove 依 ID 移除食材
func (p *Pantry) Remove(ctx context.Context, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	index := -1
	for i, item := range p.items {
		if item.ID == id {
			index = i
			break
		}
	}
	if index < 0 {
		return common.ErrNotFound
	}
	p.items = append(p.items[:index], p.items[index+1:]...)
	p.saveLocked(ctx)
	return nil
}

// Clear 清空食材櫃
func (p *Pantry) Clear(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.items = []common.Ingredient{}
	p.saveLocked(ctx)
}

// List 回傳食材櫃副本
func (p *Pantry) List() []common.Ingredient {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snapshotLocked()
}

// Len 食材數量
func (p *Pantry) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.items)
}

// Categories 依首次出現順序列出不重複的分類
func (p *Pantry) Categories() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	seen := make(map[string]struct{})
	categories := make([]string, 0)
	for _, item := range p.items {
		if _, ok := seen[item.Category]; ok {
			continue
		}
		seen[item.Category] = struct{}{}
		categories = append(categories, item.Category)
	}
	return categories
}

// Names 食材名稱，用於詳細食譜
func (p *Pantry) Names() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	names := make([]string, len(p.items))
	for i, item := range p.items {
		names[i] = item.Name
	}
	return names
}

// Descriptors 「數量 名稱」描述，用於推薦食譜
func (p *Pantry) Descriptors() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	descriptors := make([]string, len(p.items))
	for i, item := range p.items {
		descriptors[i] = item.Descriptor()
	}
	return descriptors
}

func (p *Pantry) snapshotLocked() []common.Ingredient {
	return append([]common.Ingredient{}, p.items...)
}

// saveLocked 寫入後端，呼叫端需持有鎖；失敗只記錄，記憶體中的變更仍然有效
func (p *Pantry) saveLocked(ctx context.Context) {
	data, err := common.ToJSON(p.items)
	if err != nil {
		common.LogWarn("食材櫃序列化失敗", zap.Error(err))
		return
	}
	if err := p.backend.Set(ctx, p.key, data); err != nil {
		common.LogWarn("食材櫃儲存失敗", zap.Error(err))
	}
}
