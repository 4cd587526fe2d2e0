package domain

// RenameEntry 规划一次重命名（只描述 src/dst；真正执行由 executor 负责）。
//
// 不变量：
// - Src != Dst（no-op 永远不会被物化成 entry）
// - Dst 与 Src 同目录，扩展名为 Src 扩展名的小写形态
type RenameEntry struct {
	Src string
	Dst string
}

// RenamePlan 是从源路径到目标路径的插入有序映射。
//
// 约束：
// - key（源路径）唯一；重复插入时“最后一次写入生效”，但保留首次插入的位置
// - 遍历顺序 == 插入顺序（与输入文件顺序一致，保证确定性输出）
type RenamePlan struct {
	entries []RenameEntry
	index   map[string]int
}

// Add 插入或更新一条 (src, dst) 映射。
func (p *RenamePlan) Add(src, dst string) {
	if p.index == nil {
		p.index = make(map[string]int)
	}
	if i, ok := p.index[src]; ok {
		p.entries[i].Dst = dst
		return
	}
	p.index[src] = len(p.entries)
	p.entries = append(p.entries, RenameEntry{Src: src, Dst: dst})
}

// Len 返回计划内的条目数。
func (p *RenamePlan) Len() int { return len(p.entries) }

// Entries 按插入顺序返回全部条目（调用方不得修改返回的切片）。
func (p *RenamePlan) Entries() []RenameEntry { return p.entries }
