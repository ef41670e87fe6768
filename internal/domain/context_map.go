package domain

import "fmt"

type contextEntry struct {
	key   string
	value any
}

// ContextMap 有序的占位符键值映射
type ContextMap struct {
	entries []contextEntry
	index   map[string]int
}

// NewContextMap 创建空的上下文映射
func NewContextMap() *ContextMap {
	return &ContextMap{index: make(map[string]int)}
}

// Set 设置键值，已存在的键保持原有顺序
func (cm *ContextMap) Set(key string, value any) {
	if i, ok := cm.index[key]; ok {
		cm.entries[i].value = value
		return
	}
	cm.index[key] = len(cm.entries)
	cm.entries = append(cm.entries, contextEntry{key: key, value: value})
}

// Get 获取键值
func (cm *ContextMap) Get(key string) (any, bool) {
	if cm == nil {
		return nil, false
	}
	i, ok := cm.index[key]
	if !ok {
		return nil, false
	}
	return cm.entries[i].value, true
}

// Text 获取键值的文本形式
func (cm *ContextMap) Text(key string) (string, bool) {
	v, ok := cm.Get(key)
	if !ok {
		return "", false
	}
	return fmt.Sprint(v), true
}

// Keys 按插入顺序返回所有键
func (cm *ContextMap) Keys() []string {
	if cm == nil {
		return nil
	}
	keys := make([]string, 0, len(cm.entries))
	for _, e := range cm.entries {
		keys = append(keys, e.key)
	}
	return keys
}

// Len 键的数量
func (cm *ContextMap) Len() int {
	if cm == nil {
		return 0
	}
	return len(cm.entries)
}

// Each 按插入顺序遍历，值以文本形式给出
func (cm *ContextMap) Each(fn func(key, value string)) {
	if cm == nil {
		return
	}
	for _, e := range cm.entries {
		fn(e.key, fmt.Sprint(e.value))
	}
}
