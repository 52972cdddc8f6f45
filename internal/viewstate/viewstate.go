// Package viewstate 维护进程内的界面导航状态：当前视图和选中的实体ID。
// 状态不落库，进程启动时重置为看板视图。
package viewstate

import (
	"fmt"
	"sync"
)

// 视图常量
const (
	ViewDashboard       = "dashboard"
	ViewBlueprints      = "blueprints"
	ViewBlueprintCreate = "blueprint-create"
	ViewBlueprintEdit   = "blueprint-edit"
	ViewContractCreate  = "contract-create"
	ViewContractView    = "contract-view"
)

// validViews 合法视图集合
var validViews = map[string]bool{
	ViewDashboard:       true,
	ViewBlueprints:      true,
	ViewBlueprintCreate: true,
	ViewBlueprintEdit:   true,
	ViewContractCreate:  true,
	ViewContractView:    true,
}

// IsValidView 判断视图名是否合法
func IsValidView(view string) bool {
	return validViews[view]
}

// State 导航状态。显式持有并注入处理器，不用包级全局变量
type State struct {
	mu                  sync.RWMutex
	currentView         string
	selectedBlueprintID string
	selectedContractID  string
}

// Snapshot 导航状态快照
type Snapshot struct {
	CurrentView         string `json:"current_view"`
	SelectedBlueprintID string `json:"selected_blueprint_id,omitempty"`
	SelectedContractID  string `json:"selected_contract_id,omitempty"`
}

// New 创建导航状态，初始为看板视图，无选中实体
func New() *State {
	return &State{currentView: ViewDashboard}
}

// Navigate 切换到目标视图。离开需要选中ID的视图时清空对应ID：
// blueprint-edit 需要模板ID，contract-view 需要合同ID
func (s *State) Navigate(view string) error {
	if !IsValidView(view) {
		return fmt.Errorf("unknown view %q", view)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if view != ViewBlueprintEdit {
		s.selectedBlueprintID = ""
	}
	if view != ViewContractView {
		s.selectedContractID = ""
	}
	s.currentView = view
	return nil
}

// SelectBlueprint 选中模板并进入编辑视图
func (s *State) SelectBlueprint(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedBlueprintID = id
	s.selectedContractID = ""
	s.currentView = ViewBlueprintEdit
}

// SelectContract 选中合同并进入合同视图
func (s *State) SelectContract(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedContractID = id
	s.selectedBlueprintID = ""
	s.currentView = ViewContractView
}

// Snapshot 返回当前状态的拷贝
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		CurrentView:         s.currentView,
		SelectedBlueprintID: s.selectedBlueprintID,
		SelectedContractID:  s.selectedContractID,
	}
}

// Reset 重置为初始状态
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentView = ViewDashboard
	s.selectedBlueprintID = ""
	s.selectedContractID = ""
}
